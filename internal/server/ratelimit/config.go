package ratelimit

import (
	"net/http"
	"time"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/config"
)

// Rule limits one route. Paths ending in "/" match by prefix.
type Rule struct {
	Path   string
	Method string
	Limit  int // requests per window
	Window time.Duration
	Burst  int // defaults to Limit
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	Rules           []Rule
	CleanupInterval time.Duration
	IdleAfter       time.Duration
	Allowlist       map[string]bool
	Now             func() time.Time
}

// AuthPaths are the credential-handling form posts that get limited.
var AuthPaths = []string{
	"/login",
	"/register",
	"/register-company",
	"/forgot-password",
	"/reset-password/",
}

// FromConfig builds a limiter configuration that applies the configured
// limit to every auth form post. Everything else is unlimited. A zero
// limit disables limiting.
func FromConfig(rl config.RateLimit) *Config {
	if rl.Limit <= 0 {
		return &Config{Enabled: false}
	}
	window := rl.Window.Std()
	if window <= 0 {
		window = config.DefaultRateLimitWindow
	}

	rules := make([]Rule, 0, len(AuthPaths))
	for _, p := range AuthPaths {
		rules = append(rules, Rule{
			Path:   p,
			Method: http.MethodPost,
			Limit:  rl.Limit,
			Window: window,
			Burst:  rl.Limit,
		})
	}
	return &Config{
		Enabled:         true,
		Rules:           rules,
		CleanupInterval: 5 * time.Minute,
		IdleAfter:       time.Hour,
	}
}
