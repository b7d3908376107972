package cli

import (
	"bytes"
	_ "embed"
)

//go:embed default_config.yaml
var defaultConfigurationData []byte

// EmbeddedDefaultConfiguration returns a copy of the baked-in default
// configuration along with its format identifier.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	return bytes.Clone(defaultConfigurationData), configurationTypeConstant
}
