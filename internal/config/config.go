// Package config loads factkeeper configuration from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// File locations, relative to the working directory or the home directory.
const (
	DirName  = ".factkeeper"
	FileName = "config.yaml"
)

// Oracle providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// ValidProviders lists all supported oracle providers.
var ValidProviders = []string{ProviderOpenAI, ProviderGemini}

// Default models per provider.
const (
	DefaultOpenAIModel = "gpt-4o"
	DefaultGeminiModel = "gemini-2.5-flash"
)

// Config is the root configuration.
type Config struct {
	Environment string         `yaml:"environment"`
	Oracle      OracleConfig   `yaml:"oracle"`
	Store       StoreConfig    `yaml:"store"`
	Snapshot    SnapshotConfig `yaml:"snapshot"`
	Logging     LoggingConfig  `yaml:"logging"`
}

// OracleConfig selects and configures the text-generation service.
type OracleConfig struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key,omitempty"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url,omitempty"` // OpenAI-compatible endpoints only
	Timeout  string `yaml:"timeout"`
}

// StoreConfig locates the remote record store.
// Disabled simulates missing store credentials: the resolver skips the
// remote tier and saves report failure.
type StoreConfig struct {
	Path     string `yaml:"path,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// SnapshotConfig locates the local snapshot files. Empty means absent.
type SnapshotConfig struct {
	FactsCSV   string `yaml:"facts_csv"`
	Guidelines string `yaml:"guidelines"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Oracle: OracleConfig{
			Provider: ProviderOpenAI,
			Model:    DefaultOpenAIModel,
			Timeout:  "120s",
		},
		Snapshot: SnapshotConfig{
			FactsCSV:   "facts.csv",
			Guidelines: "guidelines-local.md",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// FindPath returns the config file to load: ./.factkeeper/config.yaml when
// it exists, otherwise the one under the home directory.
func FindPath() string {
	if cwd, err := os.Getwd(); err == nil {
		local := filepath.Join(cwd, DirName, FileName)
		if _, err := os.Stat(local); err == nil {
			return local
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(DirName, FileName)
	}
	return filepath.Join(home, DirName, FileName)
}

// LoadDefault loads the config found by FindPath.
func LoadDefault() (*Config, error) {
	return Load(FindPath())
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	openaiKey := os.Getenv("OPENAI_API_KEY")
	geminiKey := os.Getenv("GEMINI_API_KEY")

	// OpenAI wins when both keys are set, unless the file asks for Gemini.
	switch {
	case geminiKey != "" && (openaiKey == "" || c.Oracle.Provider == ProviderGemini):
		c.Oracle.APIKey = geminiKey
		if c.Oracle.Provider != ProviderGemini && c.Oracle.Model == DefaultOpenAIModel {
			c.Oracle.Model = DefaultGeminiModel
		}
		c.Oracle.Provider = ProviderGemini
	case openaiKey != "":
		c.Oracle.APIKey = openaiKey
		c.Oracle.Provider = ProviderOpenAI
	}
	if model := os.Getenv("FACTKEEPER_MODEL"); model != "" {
		c.Oracle.Model = model
	}
	if path := os.Getenv("FACTKEEPER_DB"); path != "" {
		c.Store.Path = path
	}
	if path := os.Getenv("FACTKEEPER_FACTS_CSV"); path != "" {
		c.Snapshot.FactsCSV = path
	}
	if path := os.Getenv("FACTKEEPER_GUIDELINES_PATH"); path != "" {
		c.Snapshot.Guidelines = path
	}
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		c.Environment = env
	}
}

// OracleTimeout returns the oracle timeout as a duration.
func (c *Config) OracleTimeout() time.Duration {
	d, err := time.ParseDuration(c.Oracle.Timeout)
	if err != nil || d <= 0 {
		return 120 * time.Second
	}
	return d
}

// Problems lists every configuration problem. Empty means valid.
func (c *Config) Problems() []string {
	var problems []string

	validProvider := false
	for _, p := range ValidProviders {
		if c.Oracle.Provider == p {
			validProvider = true
			break
		}
	}
	if !validProvider {
		problems = append(problems, fmt.Sprintf("invalid oracle provider: %q (valid: %v)", c.Oracle.Provider, ValidProviders))
	}

	if c.Oracle.APIKey == "" {
		problems = append(problems, "oracle API key not configured (set OPENAI_API_KEY or GEMINI_API_KEY)")
	}
	if c.Oracle.Model == "" {
		problems = append(problems, "oracle model not configured")
	}

	switch c.Logging.Format {
	case "", "json", "console":
	default:
		problems = append(problems, fmt.Sprintf("invalid logging format: %q", c.Logging.Format))
	}

	return problems
}

// Validate returns an error joining every problem, or nil.
func (c *Config) Validate() error {
	var errs []error
	for _, p := range c.Problems() {
		errs = append(errs, errors.New(p))
	}
	return errors.Join(errs...)
}
