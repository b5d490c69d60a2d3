// Package config provides configuration loading and validation for the
// job-board client, its page server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Pagination strategies for listing pages.
const (
	PaginationServer = "server"
	PaginationClient = "client"
)

// Defaults applied by MergeWithDefaults.
const (
	DefaultBackendURL       = "http://localhost:5000/api"
	DefaultAddr             = ":3000"
	DefaultRequestTimeout   = 15 * time.Second
	DefaultSearchDebounce   = 350 * time.Millisecond
	DefaultPageSize         = 6
	DefaultAccessDeniedPath = "/access-denied"
	DefaultSessionFile      = ".jobtracker-session.json"
	DefaultRateLimit        = 10
	DefaultRateLimitWindow  = time.Minute
)

// Duration is a time.Duration that reads as "350ms" from JSON and YAML.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// MarshalJSON writes d in time.Duration string form.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts either a duration string or a number of milliseconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return d.parse(s)
	}
	var ms int64
	if err := json.Unmarshal(b, &ms); err != nil {
		return fmt.Errorf("invalid duration %s", string(b))
	}
	*d = Duration(time.Duration(ms) * time.Millisecond)
	return nil
}

// UnmarshalYAML accepts the same forms as UnmarshalJSON.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if ms, err := strconv.ParseInt(node.Value, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	return d.parse(node.Value)
}

func (d *Duration) parse(s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// RateLimit bounds auth form submissions per client address.
type RateLimit struct {
	Limit  int      `json:"limit,omitempty" yaml:"limit"`
	Window Duration `json:"window,omitempty" yaml:"window"`
}

// Config is the client configuration. All fields are optional; zero values
// are filled by MergeWithDefaults.
type Config struct {
	BackendURL       string    `json:"backend_url,omitempty" yaml:"backend_url"`
	Addr             string    `json:"addr,omitempty" yaml:"addr"`
	RequestTimeout   Duration  `json:"request_timeout,omitempty" yaml:"request_timeout"`
	SearchDebounce   Duration  `json:"search_debounce,omitempty" yaml:"search_debounce"`
	PageSize         int       `json:"page_size,omitempty" yaml:"page_size"`
	Pagination       string    `json:"pagination,omitempty" yaml:"pagination"` // server or client
	AccessDeniedPath string    `json:"access_denied_path,omitempty" yaml:"access_denied_path"`
	FlashSecret      string    `json:"flash_secret,omitempty" yaml:"flash_secret"`
	SessionFile      string    `json:"session_file,omitempty" yaml:"session_file"`
	LogLevel         string    `json:"log_level,omitempty" yaml:"log_level"`
	LogFormat        string    `json:"log_format,omitempty" yaml:"log_format"` // text or json
	RateLimit        RateLimit `json:"rate_limit,omitempty" yaml:"rate_limit"`
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by
// extension. Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Load reads the optional config file, overlays JOBTRACKER_* environment
// variables and fills defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	merged := cfg.MergeWithDefaults(Default())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		BackendURL:       DefaultBackendURL,
		Addr:             DefaultAddr,
		RequestTimeout:   Duration(DefaultRequestTimeout),
		SearchDebounce:   Duration(DefaultSearchDebounce),
		PageSize:         DefaultPageSize,
		Pagination:       PaginationServer,
		AccessDeniedPath: DefaultAccessDeniedPath,
		SessionFile:      DefaultSessionFile,
		LogLevel:         "info",
		LogFormat:        "text",
		RateLimit: RateLimit{
			Limit:  DefaultRateLimit,
			Window: Duration(DefaultRateLimitWindow),
		},
	}
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"JOBTRACKER_BACKEND_URL":  &c.BackendURL,
		"JOBTRACKER_ADDR":         &c.Addr,
		"JOBTRACKER_PAGINATION":   &c.Pagination,
		"JOBTRACKER_FLASH_SECRET": &c.FlashSecret,
		"JOBTRACKER_SESSION_FILE": &c.SessionFile,
		"JOBTRACKER_LOG_LEVEL":    &c.LogLevel,
		"JOBTRACKER_LOG_FORMAT":   &c.LogFormat,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("JOBTRACKER_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid JOBTRACKER_PAGE_SIZE: %v", err)
		}
		c.PageSize = n
	}
	if v := os.Getenv("JOBTRACKER_SEARCH_DEBOUNCE"); v != "" {
		if err := c.SearchDebounce.parse(v); err != nil {
			return fmt.Errorf("invalid JOBTRACKER_SEARCH_DEBOUNCE: %w", err)
		}
	}
	if v := os.Getenv("JOBTRACKER_REQUEST_TIMEOUT"); v != "" {
		if err := c.RequestTimeout.parse(v); err != nil {
			return fmt.Errorf("invalid JOBTRACKER_REQUEST_TIMEOUT: %w", err)
		}
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.BackendURL != "" {
		u, err := url.Parse(c.BackendURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config error: 'backend_url' must be an absolute URL, got %q", c.BackendURL)
		}
	}

	if c.PageSize < 0 {
		return fmt.Errorf("config error: 'page_size' must be non-negative")
	}
	if c.RequestTimeout < 0 || c.SearchDebounce < 0 {
		return fmt.Errorf("config error: durations must be non-negative")
	}

	switch c.Pagination {
	case "", PaginationServer, PaginationClient:
	default:
		return fmt.Errorf("config error: 'pagination' must be %q or %q", PaginationServer, PaginationClient)
	}

	if c.AccessDeniedPath != "" && !strings.HasPrefix(c.AccessDeniedPath, "/") {
		return fmt.Errorf("config error: 'access_denied_path' must start with /")
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config error: 'log_format' must be text or json")
	}

	if c.RateLimit.Limit < 0 {
		return fmt.Errorf("config error: 'rate_limit.limit' must be non-negative")
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.BackendURL == "" {
		result.BackendURL = defaults.BackendURL
	}
	if result.Addr == "" {
		result.Addr = defaults.Addr
	}
	if result.Pagination == "" {
		result.Pagination = defaults.Pagination
	}
	if result.AccessDeniedPath == "" {
		result.AccessDeniedPath = defaults.AccessDeniedPath
	}
	if result.FlashSecret == "" {
		result.FlashSecret = defaults.FlashSecret
	}
	if result.SessionFile == "" {
		result.SessionFile = defaults.SessionFile
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}

	if result.RequestTimeout == 0 {
		result.RequestTimeout = defaults.RequestTimeout
	}
	if result.SearchDebounce == 0 {
		result.SearchDebounce = defaults.SearchDebounce
	}
	if result.PageSize == 0 {
		result.PageSize = defaults.PageSize
	}
	if result.RateLimit.Limit == 0 {
		result.RateLimit.Limit = defaults.RateLimit.Limit
	}
	if result.RateLimit.Window == 0 {
		result.RateLimit.Window = defaults.RateLimit.Window
	}

	return result
}

// Logger builds the slog logger described by LogLevel and LogFormat.
func (c *Config) Logger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
