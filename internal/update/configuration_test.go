package update_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repobridge/internal/update"
)

func TestSanitizeTrimsConfigurationValues(testInstance *testing.T) {
	configuration := update.CommandConfiguration{
		PlanPath:       "  plans/update.yaml  ",
		Token:          "  token-value  ",
		Owner:          " octocat ",
		Repository:     " hello-world ",
		EnterpriseHost: " ghe.example.com ",
	}

	sanitized := configuration.Sanitize()
	require.Equal(testInstance, "plans/update.yaml", sanitized.PlanPath)
	require.Equal(testInstance, "token-value", sanitized.Token)
	require.Equal(testInstance, "octocat", sanitized.Owner)
	require.Equal(testInstance, "hello-world", sanitized.Repository)
	require.Equal(testInstance, "ghe.example.com", sanitized.EnterpriseHost)
}

func TestDefaultCommandConfigurationIsEmpty(testInstance *testing.T) {
	require.Equal(testInstance, update.CommandConfiguration{}, update.DefaultCommandConfiguration())
}
