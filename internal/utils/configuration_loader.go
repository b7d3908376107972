package utils

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	configurationKeySeparatorConstant          = "."
	environmentVariableSeparatorConstant       = "_"
	embeddedDefaultsMergeErrorTemplateConstant = "merge embedded defaults: %w"
	configurationFileReadErrorTemplateConstant = "read configuration file: %w"
	configurationDecodeErrorTemplateConstant   = "decode configuration: %w"
)

// ConfigurationLoader resolves application configuration from four layers in
// ascending precedence: programmatic defaults, embedded defaults, an
// optional configuration file, and prefixed environment variables.
type ConfigurationLoader struct {
	fileName             string
	fileType             string
	environmentPrefix    string
	searchPaths          []string
	embeddedDefaults     []byte
	embeddedDefaultsType string
}

// LoadedConfiguration reports where the resolved configuration came from.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// NewConfigurationLoader builds a loader that looks for fileName.fileType in
// searchPaths and accepts environment overrides under environmentPrefix.
func NewConfigurationLoader(fileName string, fileType string, environmentPrefix string, searchPaths []string) *ConfigurationLoader {
	return &ConfigurationLoader{
		fileName:          fileName,
		fileType:          fileType,
		environmentPrefix: environmentPrefix,
		searchPaths:       append([]string(nil), searchPaths...),
	}
}

// SetEmbeddedConfiguration installs baked-in defaults merged below any
// configuration file and environment overrides.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(configurationData []byte, configurationType string) {
	if loader == nil {
		return
	}
	loader.embeddedDefaults = bytes.Clone(configurationData)
	loader.embeddedDefaultsType = strings.TrimSpace(configurationType)
}

// LoadConfiguration resolves all layers into targetConfiguration. An empty
// configurationFilePath falls back to the loader's search paths; a missing
// file there is not an error because the embedded defaults still apply.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, targetConfiguration any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.fileName)
	viperInstance.SetConfigType(loader.fileType)

	if mergeError := loader.mergeEmbeddedDefaults(viperInstance); mergeError != nil {
		return LoadedConfiguration{}, mergeError
	}

	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	loader.bindEnvironment(viperInstance)

	for _, searchPath := range loader.searchPaths {
		viperInstance.AddConfigPath(searchPath)
	}
	if len(strings.TrimSpace(configurationFilePath)) > 0 {
		viperInstance.SetConfigFile(configurationFilePath)
	}

	if readError := viperInstance.MergeInConfig(); readError != nil {
		var notFoundError viper.ConfigFileNotFoundError
		if !errors.As(readError, &notFoundError) {
			return LoadedConfiguration{}, fmt.Errorf(configurationFileReadErrorTemplateConstant, readError)
		}
	}

	if decodeError := viperInstance.Unmarshal(targetConfiguration); decodeError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationDecodeErrorTemplateConstant, decodeError)
	}

	return LoadedConfiguration{ConfigFileUsed: viperInstance.ConfigFileUsed()}, nil
}

func (loader *ConfigurationLoader) mergeEmbeddedDefaults(viperInstance *viper.Viper) error {
	if len(loader.embeddedDefaults) == 0 {
		return nil
	}

	embeddedType := loader.embeddedDefaultsType
	if len(embeddedType) == 0 {
		embeddedType = loader.fileType
	}

	viperInstance.SetConfigType(embeddedType)
	if mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.embeddedDefaults)); mergeError != nil {
		return fmt.Errorf(embeddedDefaultsMergeErrorTemplateConstant, mergeError)
	}
	viperInstance.SetConfigType(loader.fileType)

	return nil
}

func (loader *ConfigurationLoader) bindEnvironment(viperInstance *viper.Viper) {
	viperInstance.SetEnvPrefix(loader.environmentPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(configurationKeySeparatorConstant, environmentVariableSeparatorConstant))
	viperInstance.AutomaticEnv()
}
