// Package config holds the generator-wide settings: data and output
// directories, the result store, the tracker endpoint and generation limits.
package config

import (
	"fmt"
	"net/netip"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/ffxlogic/internal/database"
)

// Config holds generator-wide configuration settings.
type Config struct {
	Data       DataConfig       `yaml:"data"`
	Output     OutputConfig     `yaml:"output"`
	Database   database.Config  `yaml:"database"`
	Tracker    TrackerConfig    `yaml:"tracker"`
	Generation GenerationConfig `yaml:"generation"`
}

// DataConfig selects where the game tables are read from.
type DataConfig struct {
	// Dir overrides embedded tables with files of the same name.
	// Empty uses the embedded tables only.
	Dir string `yaml:"dir" env:"FFXLOGIC_DATA_DIR"`
}

// OutputConfig holds result file settings.
type OutputConfig struct {
	Dir string `yaml:"dir" env:"FFXLOGIC_OUTPUT_DIR"`
}

// GenerationConfig bounds world generation.
type GenerationConfig struct {
	// Workers caps concurrent world builds. 0 means one per player.
	Workers int `yaml:"workers" env:"FFXLOGIC_WORKERS"`
}

// TrackerConfig holds the live tracker endpoint settings.
type TrackerConfig struct {
	Listen string `yaml:"listen" env:"FFXLOGIC_TRACKER_LISTEN"`

	// PasswordHash is a bcrypt hash clients must match before their
	// first update. Empty disables the check.
	PasswordHash string `yaml:"password_hash" env:"FFXLOGIC_TRACKER_PASSWORD_HASH"`

	// MaxConnections is the maximum number of concurrent tracker clients.
	// 0 means unlimited.
	MaxConnections int `yaml:"max_connections" env:"FFXLOGIC_TRACKER_MAX_CONNECTIONS"`

	// MaxPerIP caps concurrent clients from one address. 0 means unlimited.
	MaxPerIP int `yaml:"max_per_ip" env:"FFXLOGIC_TRACKER_MAX_PER_IP"`

	// TrustedProxies lists the addresses or CIDR ranges of reverse proxies
	// whose X-Forwarded-For and X-Real-IP headers name the client. Headers
	// from any other peer are ignored.
	TrustedProxies []string `yaml:"trusted_proxies" env:"FFXLOGIC_TRACKER_TRUSTED_PROXIES" envSeparator:","`

	// Failed password attempts before an address is locked out, and the
	// first lockout length. Lockouts double up to MaxLockoutSeconds.
	MaxAuthAttempts   int `yaml:"max_auth_attempts"`
	LockoutSeconds    int `yaml:"lockout_seconds"`
	MaxLockoutSeconds int `yaml:"max_lockout_seconds"`

	// Each client may send MaxMessages requests per MessageWindowSeconds.
	// 0 disables the limit.
	MaxMessages          int `yaml:"max_messages"`
	MessageWindowSeconds int `yaml:"message_window_seconds"`

	WebSocket WebSocketConfig `yaml:"websocket"`
}

// WebSocketConfig holds WebSocket-specific settings.
type WebSocketConfig struct {
	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins (not recommended for production).
	AllowedOrigins []string `yaml:"allowed_origins" env:"FFXLOGIC_TRACKER_ALLOWED_ORIGINS" envSeparator:","`

	// MaxMessageSize is the maximum WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size" env:"FFXLOGIC_TRACKER_MAX_MESSAGE_SIZE"`
}

// DefaultConfig returns a Config with secure defaults.
func DefaultConfig() *Config {
	return &Config{
		Output:   OutputConfig{Dir: "output"},
		Database: database.DefaultConfig("data/ffxlogic.db"),
		Tracker: TrackerConfig{
			Listen:               "127.0.0.1:38281",
			MaxConnections:       16,
			MaxPerIP:             4,
			MaxAuthAttempts:      5,
			LockoutSeconds:       30,
			MaxLockoutSeconds:    300,
			MaxMessages:          20,
			MessageWindowSeconds: 10,
			WebSocket: WebSocketConfig{
				AllowedOrigins: []string{}, // Same-origin only by default
				MaxMessageSize: 64 * 1024,
			},
		},
	}
}

// LoadConfig loads configuration from a YAML file, then applies
// environment overrides. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, config); err != nil {
				return DefaultConfig(), fmt.Errorf("failed to parse config YAML: %w", err)
			}
		case !os.IsNotExist(err):
			return config, err
		}
	}

	if err := ParseEnv(config); err != nil {
		return config, err
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if c.Generation.Workers < 0 {
		return fmt.Errorf("generation workers %d is negative", c.Generation.Workers)
	}
	if c.Tracker.MaxConnections < 0 {
		return fmt.Errorf("tracker max connections %d is negative", c.Tracker.MaxConnections)
	}
	if c.Tracker.MaxPerIP < 0 {
		return fmt.Errorf("tracker max per ip %d is negative", c.Tracker.MaxPerIP)
	}
	if c.Tracker.WebSocket.MaxMessageSize <= 0 {
		return fmt.Errorf("tracker max message size must be positive")
	}
	if _, err := c.Tracker.ProxyPrefixes(); err != nil {
		return err
	}
	return c.Database.Validate()
}

// ProxyPrefixes parses TrustedProxies. A bare address trusts that host only.
func (t TrackerConfig) ProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(t.TrustedProxies))
	for _, entry := range t.TrustedProxies {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("tracker trusted proxy %q: %w", entry, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("tracker trusted proxy %q: %w", entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	// If no origins configured, enforce same-origin policy
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host (same-origin policy).
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means same-origin (e.g., non-browser client)
	}

	// "http://localhost:3000" -> "localhost:3000"
	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
