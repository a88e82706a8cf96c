package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"fmpd/pkg/storage"
)

const (
	// DefaultPrefix is the full-size photo view endpoint. The FBID is appended verbatim.
	DefaultPrefix = "https://m.facebook.com/photo/view_full_size/?fbid="

	// DefaultUserAgent is sent on every request; the site rejects non-browser agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 6.1; Win64; x64; rv:47.0) Gecko/20100101 Firefox/47.0"

	DefaultCookiesFile = "cookies.txt"
	DefaultListFile    = "list.txt"
	DefaultOutputDir   = "output"
	DefaultExtension   = ".jpg"
)

// Config holds all configuration options for fmpd
type Config struct {
	// Remote endpoint and session
	Facebook FacebookConfig `yaml:"facebook" json:"facebook"`

	// Where identifiers come from
	Input InputConfig `yaml:"input" json:"input"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// FacebookConfig holds endpoint and session configuration
type FacebookConfig struct {
	Prefix      string `yaml:"prefix" json:"prefix"`
	UserAgent   string `yaml:"user_agent" json:"user_agent"`
	CookiesFile string `yaml:"cookies_file" json:"cookies_file"`
	// Account selects a cookie jar stored in the system keyring instead of CookiesFile
	Account string `yaml:"account" json:"account"`
}

// InputConfig holds identifier list configuration
type InputConfig struct {
	ListFile string `yaml:"list_file" json:"list_file"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	Directory string `yaml:"directory" json:"directory"`
	Extension string `yaml:"extension" json:"extension"`
	// Name is the file name template, see storage.NameTemplate
	Name  string `yaml:"name" json:"name"`
	Quiet bool   `yaml:"quiet" json:"quiet"`
	// Notify sends a desktop notification when a run ends
	Notify bool `yaml:"notify" json:"notify"`
	// TUI shows the interactive run view when the terminal allows it
	TUI bool `yaml:"tui" json:"tui"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	// Timeout bounds a single HTTP request. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config populated with the tool's fixed defaults
func DefaultConfig() *Config {
	return &Config{
		Facebook: FacebookConfig{
			Prefix:      DefaultPrefix,
			UserAgent:   DefaultUserAgent,
			CookiesFile: DefaultCookiesFile,
		},
		Input: InputConfig{
			ListFile: DefaultListFile,
		},
		Output: OutputConfig{
			Directory: DefaultOutputDir,
			Extension: DefaultExtension,
			Name:      storage.DefaultNameTemplate,
			Quiet:     false,
		},
		Download: DownloadConfig{
			Timeout: 0,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from FMPD_* environment variables
func (c *Config) LoadFromEnv() error {
	if prefix := os.Getenv("FMPD_PREFIX"); prefix != "" {
		c.Facebook.Prefix = prefix
	}
	if userAgent := os.Getenv("FMPD_USER_AGENT"); userAgent != "" {
		c.Facebook.UserAgent = userAgent
	}
	if cookies := os.Getenv("FMPD_COOKIES_FILE"); cookies != "" {
		c.Facebook.CookiesFile = cookies
	}
	if account := os.Getenv("FMPD_ACCOUNT"); account != "" {
		c.Facebook.Account = account
	}

	if list := os.Getenv("FMPD_LIST_FILE"); list != "" {
		c.Input.ListFile = list
	}

	if outputDir := os.Getenv("FMPD_OUTPUT_DIR"); outputDir != "" {
		c.Output.Directory = outputDir
	}
	if ext := os.Getenv("FMPD_EXTENSION"); ext != "" {
		c.Output.Extension = ext
	}
	if name := os.Getenv("FMPD_NAME"); name != "" {
		c.Output.Name = name
	}
	if quiet := os.Getenv("FMPD_QUIET"); quiet != "" {
		c.Output.Quiet = strings.ToLower(quiet) == "true"
	}
	if notify := os.Getenv("FMPD_NOTIFY"); notify != "" {
		c.Output.Notify = strings.ToLower(notify) == "true"
	}
	if tui := os.Getenv("FMPD_TUI"); tui != "" {
		c.Output.TUI = strings.ToLower(tui) == "true"
	}

	if timeout := os.Getenv("FMPD_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid FMPD_TIMEOUT %q: %w", timeout, err)
		}
		c.Download.Timeout = d
	}

	if logLevel := os.Getenv("FMPD_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("FMPD_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file. An empty path searches the
// default locations and is not an error when nothing is found.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// SearchPaths lists the config file locations in order of precedence
func SearchPaths() []string {
	home := os.Getenv("HOME")
	return []string{
		".fmpd.yaml",
		".fmpd.yml",
		filepath.Join(home, ".config", "fmpd", "config.yaml"),
		filepath.Join(home, ".config", "fmpd", "config.yml"),
		filepath.Join(home, ".fmpd.yaml"),
		filepath.Join(home, ".fmpd.yml"),
	}
}

// FindConfigFile returns the first existing config file, or ""
func FindConfigFile() string {
	for _, loc := range SearchPaths() {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Facebook.Prefix == "" {
		errs = append(errs, errors.New("facebook prefix is required"))
	} else if !strings.HasPrefix(c.Facebook.Prefix, "http://") && !strings.HasPrefix(c.Facebook.Prefix, "https://") {
		errs = append(errs, fmt.Errorf("facebook prefix must be an http(s) URL, got %q", c.Facebook.Prefix))
	}
	if c.Facebook.UserAgent == "" {
		errs = append(errs, errors.New("user agent is required"))
	}
	if c.Facebook.CookiesFile == "" && c.Facebook.Account == "" {
		errs = append(errs, errors.New("a cookies file or a keyring account is required"))
	}

	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Output.Extension == "" {
		errs = append(errs, errors.New("output extension is required"))
	} else if !strings.HasPrefix(c.Output.Extension, ".") {
		errs = append(errs, fmt.Errorf("output extension must start with a dot, got %q", c.Output.Extension))
	}

	if _, err := storage.ParseNameTemplate(c.Output.Name); err != nil {
		errs = append(errs, err)
	}

	if c.Download.Timeout < 0 {
		errs = append(errs, errors.New("download timeout cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save writes the configuration to path as YAML
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys present in flags are applied.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["prefix"].(string); ok && v != "" {
		c.Facebook.Prefix = v
	}
	if v, ok := flags["agent"].(string); ok && v != "" {
		c.Facebook.UserAgent = v
	}
	if v, ok := flags["cookies-file"].(string); ok && v != "" {
		c.Facebook.CookiesFile = v
	}
	if v, ok := flags["account"].(string); ok && v != "" {
		c.Facebook.Account = v
	}
	if v, ok := flags["list"].(string); ok && v != "" {
		c.Input.ListFile = v
	}
	if v, ok := flags["output"].(string); ok && v != "" {
		c.Output.Directory = v
	}
	if v, ok := flags["extension"].(string); ok && v != "" {
		c.Output.Extension = v
	}
	if v, ok := flags["name"].(string); ok && v != "" {
		c.Output.Name = v
	}
	if v, ok := flags["quiet"].(bool); ok {
		c.Output.Quiet = v
	}
	if v, ok := flags["notify"].(bool); ok {
		c.Output.Notify = v
	}
	if v, ok := flags["tui"].(bool); ok {
		c.Output.TUI = v
	}
	if v, ok := flags["timeout"].(time.Duration); ok {
		c.Download.Timeout = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := flags["log-file"].(string); ok && v != "" {
		c.Logging.File = v
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: flags > environment variables > .env file > config file > defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// godotenv never overrides variables that are already set
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".fmpd.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
