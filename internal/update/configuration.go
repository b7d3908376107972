package update

import "strings"

// CommandConfiguration captures configuration values for the update command.
type CommandConfiguration struct {
	PlanPath       string `mapstructure:"plan"`
	Token          string `mapstructure:"token"`
	Owner          string `mapstructure:"owner"`
	Repository     string `mapstructure:"repository"`
	EnterpriseHost string `mapstructure:"enterprise_host"`
}

// DefaultCommandConfiguration provides baseline configuration values for update.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{}
}

// DefaultConfigurationValues exposes defaults merged into the application
// configuration beneath the provided key.
func DefaultConfigurationValues(configurationKey string) map[string]any {
	return map[string]any{
		configurationKey + ".plan":            "",
		configurationKey + ".enterprise_host": "",
	}
}

// Sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.PlanPath = strings.TrimSpace(configuration.PlanPath)
	sanitized.Token = strings.TrimSpace(configuration.Token)
	sanitized.Owner = strings.TrimSpace(configuration.Owner)
	sanitized.Repository = strings.TrimSpace(configuration.Repository)
	sanitized.EnterpriseHost = strings.TrimSpace(configuration.EnterpriseHost)
	return sanitized
}
