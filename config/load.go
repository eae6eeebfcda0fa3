package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when no config file was given and none exists in
// the default locations.
var ErrNotFound = errors.New("no config file found (tried QUANT_CONFIG, quant.yaml, ~/.config/quant/quant.yaml)")

// Load reads configuration from a file with ENV interpolation.
// If configPath is empty, it searches default locations.
func Load(configPath string, getenv func(string) string) (*Config, error) {
	cfg, _, err := LoadWithPath(configPath, getenv)
	return cfg, err
}

// LoadOrDefault is Load, falling back to Defaults when no config file exists.
func LoadOrDefault(configPath string, getenv func(string) string) (*Config, error) {
	cfg, err := Load(configPath, getenv)
	if errors.Is(err, ErrNotFound) {
		cfg = Defaults()
		cfg.REPL.History = resolvePath(".", cfg.REPL.History)
		return cfg, nil
	}
	return cfg, err
}

// LoadWithPath reads configuration and returns both the config and the resolved path.
func LoadWithPath(configPath string, getenv func(string) string) (*Config, string, error) {
	path, err := resolveConfigPath(configPath, getenv)
	if err != nil {
		return nil, "", err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve config path: %w", err)
	}
	baseDir := filepath.Dir(absPath)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read config: %w", err)
	}

	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.BaseDir = baseDir

	for i, f := range cfg.Catalog.Files {
		if f != "" {
			cfg.Catalog.Files[i] = resolvePath(baseDir, f)
		}
	}
	if cfg.REPL.History != "" {
		cfg.REPL.History = resolvePath(baseDir, cfg.REPL.History)
	}
	if isFileOutput(cfg.Logging.Output) {
		cfg.Logging.Output = resolvePath(baseDir, cfg.Logging.Output)
	}

	if err := validateBasic(cfg); err != nil {
		return nil, "", err
	}

	return cfg, absPath, nil
}

// Warnings returns non-fatal configuration issues that should be reported to the user.
func Warnings(cfg *Config) []string {
	var warnings []string

	for _, f := range cfg.Catalog.Files {
		if _, err := os.Stat(f); err != nil {
			warnings = append(warnings, fmt.Sprintf("catalog file %s does not exist and will be skipped", f))
		}
	}
	if cfg.Macro.MaxLines == 0 {
		warnings = append(warnings, "macro.max_lines is 0 - macros of any length will run")
	}
	if cfg.Format.Digits == 0 {
		warnings = append(warnings, "format.digits is 0 - results will be rounded to the default precision")
	}

	return warnings
}

// resolveConfigPath finds the config file to use.
// Search order: explicit path > QUANT_CONFIG env > ./quant.yaml > ~/.config/quant/quant.yaml
func resolveConfigPath(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	if envPath := getenv("QUANT_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("QUANT_CONFIG file not found: %s", envPath)
		}
		return envPath, nil
	}

	if _, err := os.Stat("quant.yaml"); err == nil {
		return "quant.yaml", nil
	}

	home, err := os.UserHomeDir()
	if err == nil {
		xdgPath := filepath.Join(home, ".config", "quant", "quant.yaml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
	}

	return "", ErrNotFound
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv replaces ${VAR} and ${VAR:-default} patterns with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := string(parts[1])
		value := getenv(varName)

		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}

		return []byte(value)
	})
}

// resolvePath expands a leading ~ and makes relative paths relative to baseDir.
func resolvePath(baseDir, path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

func isFileOutput(output string) bool {
	return output != "" && output != "stdout" && output != "stderr"
}

// validateBasic checks the configuration for errors.
func validateBasic(cfg *Config) error {
	var errs []string

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Logging.Level))
	}

	if err := cfg.Format.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("format: %v", err))
	}

	if cfg.Macro.MaxLines < 0 {
		errs = append(errs, fmt.Sprintf("invalid macro.max_lines: %d (must be 0 or more)", cfg.Macro.MaxLines))
	}

	for i, f := range cfg.Catalog.Files {
		if f == "" {
			errs = append(errs, fmt.Sprintf("catalog.files[%d]: path is required", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
