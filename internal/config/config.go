package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for the gitward host layer. The
// engine itself is configuration-free; these settings wire its collaborators.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Secrets SecretsConfig `yaml:"secrets"`
	Log     LogConfig     `yaml:"log"`
}

// StoreConfig holds persistence settings.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// SecretsConfig holds secure-storage settings. Service is the OS keyring
// service name under which all account tokens live.
type SecretsConfig struct {
	Service string `yaml:"service"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Format string `yaml:"format"` // "json" or "text"
}

// envVarPattern matches ${VAR} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} placeholders with environment variable values.
// Returns an error if any referenced variable is not set.
func expandEnvVars(data []byte) ([]byte, error) {
	var missing []string

	result := envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		varName := envVarPattern.FindSubmatch(match)[1]
		val, ok := os.LookupEnv(string(varName))
		if !ok {
			missing = append(missing, string(varName))
			return match
		}
		return []byte(val)
	})

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return result, nil
}

// Load reads and parses a config file from the given path. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse parses config from raw YAML bytes, expanding env vars and validating.
func Parse(data []byte) (*Config, error) {
	expanded, err := expandEnvVars(data)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Store.Path == "" {
		cfg.Store.Path = "~/.gitward/gitward.db"
	}
	if cfg.Secrets.Service == "" {
		cfg.Secrets.Service = "gitward"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

func validate(cfg *Config) error {
	switch cfg.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported log format: %s", cfg.Log.Format)
	}
	if strings.TrimSpace(cfg.Secrets.Service) == "" {
		return fmt.Errorf("secrets service name must not be blank")
	}
	return nil
}

// ExpandHome resolves a leading "~/" against the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return home + path[1:], nil
}
