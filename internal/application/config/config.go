package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"flowci-console/pkg/log"
	"flowci-console/pkg/yaml"
)

// Format selects how commands render snapshots.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// apiBaseURL can be overridden at build time with -ldflags "-X ...config.apiBaseURL=...".
var apiBaseURL string

const (
	// DefaultConfigPath is used when --config is not given.
	DefaultConfigPath = "flowctl.config.yaml"

	// defaultAPIBaseURL is the flow.ci API server.
	defaultAPIBaseURL = "http://localhost:8080/flow-api"
	// defaultPollIntervalSeconds matches the fixed interval of the test-result poll.
	defaultPollIntervalSeconds = 2
	// defaultRequestTimeoutSeconds bounds a single API call.
	defaultRequestTimeoutSeconds = 10
	// defaultPollTimeoutSeconds bounds a whole poll started from the CLI.
	defaultPollTimeoutSeconds = 300

	envAPIURL   = "FLOWCI_API_URL"
	envToken    = "FLOWCI_TOKEN"
	envLogLevel = "FLOWCI_LOG_LEVEL"
)

// Config holds the console configuration
type Config struct {
	// APIBaseURL is the root every route is resolved against.
	APIBaseURL string `json:"api_base_url,omitempty" yaml:"api_base_url,omitempty"`
	// Token is sent as a bearer token when set.
	Token    string          `json:"token,omitempty" yaml:"token,omitempty"`
	Features map[string]bool `json:"features,omitempty" yaml:"features,omitempty"`
	// LogLevel specifies the minimum log level to output (debug, info, warn, error).
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	// LogFormat is text or json.
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty"`
	// Output is the default rendering of command results.
	Output                Format `json:"output,omitempty" yaml:"output,omitempty"`
	PollIntervalSeconds   int    `json:"poll_interval_seconds,omitempty" yaml:"poll_interval_seconds,omitempty"`
	PollTimeoutSeconds    int    `json:"poll_timeout_seconds,omitempty" yaml:"poll_timeout_seconds,omitempty"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds,omitempty" yaml:"request_timeout_seconds,omitempty"`
}

// prepareConfig ensures the configuration is valid by applying defaults and validating features
func prepareConfig(cfg *Config) {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBase()
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = string(log.FormatText)
	}
	if !isValidFormat(cfg.Output) {
		cfg.Output = FormatTable
	}
	if cfg.PollIntervalSeconds <= 0 {
		cfg.PollIntervalSeconds = defaultPollIntervalSeconds
	}
	if cfg.PollTimeoutSeconds <= 0 {
		cfg.PollTimeoutSeconds = defaultPollTimeoutSeconds
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		cfg.RequestTimeoutSeconds = defaultRequestTimeoutSeconds
	}

	// Validate and merge features
	cfg.Features = validateAndMergeFeatures(cfg.Features)
}

// validateAndMergeFeatures ensures only supported features are used and merges with defaults
func validateAndMergeFeatures(configFeatures map[string]bool) map[string]bool {
	mergedFeatures := make(map[string]bool)
	for feature, defaultValue := range DefaultFeatureValues {
		if value, exists := configFeatures[feature]; exists {
			mergedFeatures[feature] = value
		} else {
			mergedFeatures[feature] = defaultValue
		}
	}
	return mergedFeatures
}

func NewConfig() *Config {
	config := &Config{
		APIBaseURL: defaultAPIBase(),
	}
	prepareConfig(config)
	return config
}

// LoadConfig loads the configuration from a JSON or YAML file, chosen by extension.
// A missing file yields the defaults. FLOWCI_* environment variables override the file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := decode(configPath, data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
		}
	case os.IsNotExist(err):
		log.Debug("Config file not found, using defaults", "path", configPath)
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	applyEnv(config)
	prepareConfig(config)
	return config, nil
}

// SaveConfig saves the configuration, as YAML or JSON depending on the extension.
func SaveConfig(config *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return log.Errorf("failed to create config directory: %v", err)
	}

	prepareConfig(config)

	// Only save features that differ from defaults
	configToSave := *config
	filteredFeatures := make(map[string]bool)
	for feature, value := range config.Features {
		if defaultValue, exists := DefaultFeatureValues[feature]; !exists || value != defaultValue {
			filteredFeatures[feature] = value
		}
	}
	configToSave.Features = filteredFeatures

	var (
		data []byte
		err  error
	)
	if isYAML(configPath) {
		data, err = yaml.MarshalYAML(configToSave)
	} else {
		data, err = json.MarshalIndent(configToSave, "", "  ")
	}
	if err != nil {
		return log.Errorf("failed to marshal config: %v", err)
	}

	// The file may carry a token.
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return log.Errorf("failed to write config file: %v", err)
	}
	return nil
}

func decode(path string, data []byte, config *Config) error {
	if isYAML(path) {
		return yaml.UnmarshalYAML(data, config)
	}
	return json.Unmarshal(data, config)
}

func applyEnv(config *Config) {
	if v := os.Getenv(envAPIURL); v != "" {
		config.APIBaseURL = v
	}
	if v := os.Getenv(envToken); v != "" {
		config.Token = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		config.LogLevel = v
	}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func isValidFormat(f Format) bool {
	switch f {
	case FormatTable, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

func defaultAPIBase() string {
	if apiBaseURL != "" {
		return apiBaseURL
	}
	return defaultAPIBaseURL
}

func (c *Config) GetAPIBaseURL() string {
	return c.APIBaseURL
}

func (c *Config) GetToken() string {
	return c.Token
}

func (c *Config) GetLogLevel() string {
	return c.LogLevel
}

func (c *Config) GetLogFormat() log.Format {
	return log.ParseFormat(c.LogFormat)
}

func (c *Config) GetOutput() Format {
	return c.Output
}

// SetOutput sets the default output after validating it
func (c *Config) SetOutput(f Format) error {
	if !isValidFormat(f) {
		return fmt.Errorf("invalid output format: %s, must be one of: %s, %s, %s", f, FormatTable, FormatJSON, FormatYAML)
	}
	c.Output = f
	return nil
}

func (c *Config) GetPollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c *Config) GetPollTimeout() time.Duration {
	return time.Duration(c.PollTimeoutSeconds) * time.Second
}

func (c *Config) GetRequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
