package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// Exit codes
	ExitSuccess = iota
	ExitGeneralError
	ExitInvalidArguments
	ExitInputError
	ExitSerializationError
	ExitDestinationError
	ExitUnresolvedVariables
	ExitWriteError
)

const (
	AppName        = "pgen"
	ConfigFileName = "pgen"
	ConfigFileType = "yaml"
)

// Output formats for persisted templates
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatTOML = "toml"
)

// GlobalConfig represents the global configuration
type GlobalConfig struct {
	DefaultFormat string         `mapstructure:"default_format"`
	Strict        bool           `mapstructure:"strict"`
	Capture       CaptureConfig  `mapstructure:"capture"`
	Generate      GenerateConfig `mapstructure:"generate"`
}

// CaptureConfig represents capture settings
type CaptureConfig struct {
	Exclude   []string `mapstructure:"exclude"`
	GitIgnore bool     `mapstructure:"gitignore"`
}

// GenerateConfig represents generate settings.
// Defaults is loaded separately from the raw file since viper folds key case.
type GenerateConfig struct {
	Prompt   bool              `mapstructure:"prompt"`
	Defaults map[string]string `mapstructure:"-"`
}

// Default returns the configuration used when no global file exists.
func Default() *GlobalConfig {
	return &GlobalConfig{
		DefaultFormat: FormatYAML,
		Capture: CaptureConfig{
			Exclude: []string{},
		},
		Generate: GenerateConfig{
			Defaults: map[string]string{},
		},
	}
}

// ErrGlobalConfigNotFound is returned by LoadGlobal when no pgen.yaml exists.
var ErrGlobalConfigNotFound = errors.New("global pgen.yaml not found")

// LoadGlobal loads global configuration from pgen.yaml
func LoadGlobal() (*GlobalConfig, error) {
	configDir, err := GetGlobalConfigDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configDir)
}

// LoadFrom loads pgen.yaml from the given directory.
func LoadFrom(configDir string) (*GlobalConfig, error) {
	v := viper.New()

	v.SetConfigName(ConfigFileName)
	v.SetConfigType(ConfigFileType)
	v.AddConfigPath(configDir)

	defaults := Default()
	v.SetDefault("default_format", defaults.DefaultFormat)
	v.SetDefault("strict", defaults.Strict)
	v.SetDefault("capture.exclude", defaults.Capture.Exclude)
	v.SetDefault("capture.gitignore", defaults.Capture.GitIgnore)
	v.SetDefault("generate.prompt", defaults.Generate.Prompt)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("%w in %s", ErrGlobalConfigNotFound, configDir)
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var config GlobalConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if err := ValidateFormat(config.DefaultFormat); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	generateDefaults, err := readGenerateDefaults(v.ConfigFileUsed())
	if err != nil {
		return nil, err
	}
	config.Generate.Defaults = generateDefaults

	return &config, nil
}

// LoadGlobalOrDefault loads the global configuration, falling back to
// Default when the file does not exist. Any other failure is returned.
func LoadGlobalOrDefault() (*GlobalConfig, error) {
	cfg, err := LoadGlobal()
	if errors.Is(err, ErrGlobalConfigNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// ValidateFormat checks that format names a supported template encoding.
func ValidateFormat(format string) error {
	switch format {
	case FormatYAML, FormatJSON, FormatTOML:
		return nil
	default:
		return fmt.Errorf("unsupported format %q (available: %s, %s, %s)", format, FormatYAML, FormatJSON, FormatTOML)
	}
}

// readGenerateDefaults reads generate.defaults with yaml.v3 directly to keep
// variable names case-sensitive.
func readGenerateDefaults(path string) (map[string]string, error) {
	defaults := map[string]string{}
	if path == "" {
		return defaults, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var raw struct {
		Generate struct {
			Defaults map[string]string `yaml:"defaults"`
		} `yaml:"generate"`
	}
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("parsing generate.defaults: %w", err)
	}

	for k, v := range raw.Generate.Defaults {
		defaults[k] = v
	}
	return defaults, nil
}

// GetGlobalConfigDir returns the global config directory
func GetGlobalConfigDir() (string, error) {
	if xdg.ConfigHome == "" {
		return "", fmt.Errorf("resolving config home: XDG config directory is unset")
	}
	return filepath.Join(xdg.ConfigHome, AppName), nil
}

// CreateGlobalConfig creates the global config directory and file
func CreateGlobalConfig(config *GlobalConfig) (string, error) {
	configDir, err := GetGlobalConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType(ConfigFileType)
	v.AddConfigPath(configDir)

	exclude := config.Capture.Exclude
	if exclude == nil {
		exclude = []string{}
	}

	if err := v.MergeConfigMap(map[string]interface{}{
		"default_format": config.DefaultFormat,
		"strict":         config.Strict,
		"capture": map[string]interface{}{
			"exclude":   exclude,
			"gitignore": config.Capture.GitIgnore,
		},
		"generate": map[string]interface{}{
			"prompt": config.Generate.Prompt,
		},
	}); err != nil {
		return "", fmt.Errorf("merging config: %w", err)
	}

	configPath := filepath.Join(configDir, ConfigFileName+"."+ConfigFileType)
	if err := v.WriteConfigAs(configPath); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	return configPath, nil
}
