package config

import "github.com/sambeau/quant/pkg/quant/format"

// Config represents the complete quant configuration
type Config struct {
	BaseDir string        `yaml:"-"` // Directory containing config file, for resolving relative paths
	Catalog CatalogConfig `yaml:"catalog"`
	Format  format.Params `yaml:"format"`
	Logging LoggingConfig `yaml:"logging"`
	REPL    REPLConfig    `yaml:"repl"`
	Macro   MacroConfig   `yaml:"macro"`
}

// CatalogConfig lists extra unit catalogs loaded on top of the built-in one
type CatalogConfig struct {
	Files StringOrSlice `yaml:"files"` // YAML catalog files, relative to the config file
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Output string `yaml:"output"` // stderr, stdout, or file path
}

// REPLConfig holds interactive shell settings
type REPLConfig struct {
	History string `yaml:"history"` // history file; empty disables history
}

// MacroConfig holds macro interpreter settings
type MacroConfig struct {
	MaxLines int `yaml:"max_lines"` // 0 means no limit
}

// StringOrSlice supports YAML fields that can be either a string or a slice of strings
type StringOrSlice []string

// UnmarshalYAML implements yaml.Unmarshaler to handle both string and []string
func (s *StringOrSlice) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		*s = []string{single}
		return nil
	}

	var slice []string
	if err := unmarshal(&slice); err != nil {
		return err
	}
	*s = slice
	return nil
}

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	return &Config{
		Format: format.DefaultParams(),
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stderr",
		},
		REPL: REPLConfig{
			History: "~/.quant_history",
		},
		Macro: MacroConfig{
			MaxLines: 10000,
		},
	}
}
