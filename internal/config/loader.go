package config

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/types"
)

// EnvPrefix prefixes environment overrides: core.output_dir is read from
// TRIPEVAL_CORE_OUTPUT_DIR.
const EnvPrefix = "TRIPEVAL"

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ConfigLoader handles loading configuration from files.
type ConfigLoader interface {
	Load(path string) (*Config, error)
	LoadWithDefaults(path string) (*Config, error)
}

// viperConfigLoader implements ConfigLoader using Viper.
type viperConfigLoader struct {
	validator ConfigValidator
}

// NewConfigLoader creates a new ConfigLoader instance.
func NewConfigLoader(validator ConfigValidator) ConfigLoader {
	return &viperConfigLoader{
		validator: validator,
	}
}

// Load loads configuration from the specified file path.
// Keys missing from the file keep their DefaultConfig values, and any key
// can be overridden from the environment.
// Returns an error if the file doesn't exist or cannot be parsed.
func (l *viperConfigLoader) Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, types.NewError(types.CONFIG_NOT_FOUND, fmt.Sprintf("config file not found: %s", path))
	}

	v, err := newViper()
	if err != nil {
		return nil, err
	}

	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return nil, types.WrapError(types.CONFIG_PARSE_FAILED, fmt.Sprintf("failed to read config file %s", path), err)
	}

	return l.decode(v)
}

// LoadWithDefaults loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration with environment
// overrides applied.
func (l *viperConfigLoader) LoadWithDefaults(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return l.Load(path)
		}
	}

	v, err := newViper()
	if err != nil {
		return nil, err
	}
	return l.decode(v)
}

// newViper returns a viper instance seeded with every default key, so that
// AutomaticEnv can resolve overrides for keys the config file omits.
func newViper() (*viper.Viper, error) {
	defaults, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED, "failed to encode default configuration", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED, "failed to load default configuration", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v, nil
}

func (l *viperConfigLoader) decode(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_PARSE_FAILED, "failed to unmarshal config", err)
	}

	applyInterpolation(cfg)

	if err := l.validator.Validate(cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_VALIDATION_FAILED, "invalid configuration", err)
	}

	return cfg, nil
}

// interpolateString replaces ${VAR_NAME} with environment variable values.
// Unset variables are left as written.
func interpolateString(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if envValue := os.Getenv(varName); envValue != "" {
			return envValue
		}
		return match
	})
}

// applyInterpolation expands ${VAR_NAME} references in path and address
// settings.
func applyInterpolation(cfg *Config) {
	for _, field := range []*string{
		&cfg.Core.HomeDir,
		&cfg.Core.OutputDir,
		&cfg.Logging.Output,
		&cfg.Logging.OTLP.Endpoint,
		&cfg.Logging.OTLP.TLSCertFile,
		&cfg.Tracing.Endpoint,
		&cfg.Tracing.TLSCertFile,
		&cfg.Metrics.Endpoint,
		&cfg.Server.Address,
	} {
		*field = interpolateString(*field)
	}
}
