package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/immo-invest/internal/config"
	"github.com/iwvelando/immo-invest/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address        string               `yaml:"address"`
	MaxBodySize    string               `yaml:"maxBodySize"`
	DataDir        string               `yaml:"dataDir"`
	DatabaseURL    string               `yaml:"databaseUrl"`
	RedisAddr      string               `yaml:"redisAddr"`
	SessionTTL     string               `yaml:"sessionTtl"`
	SecureCookies  bool                 `yaml:"secureCookies"`
	MarketLatency  string               `yaml:"marketLatency"`
	AllowedOrigins []string             `yaml:"allowedOrigins"`
	Logging        config.LoggingConfig `yaml:"logging"`

	bodySizeBytes int64
	sessionTTL    time.Duration
	marketLatency time.Duration
}

// Environment variables overriding the configuration file.
const (
	EnvAddress     = "IMMO_ADDRESS"
	EnvDataDir     = "IMMO_DATA_DIR"
	EnvDatabaseURL = "IMMO_DATABASE_URL"
	EnvRedisAddr   = "IMMO_REDIS_ADDR"
)

func defaultConfig() *Config {
	return &Config{
		Address:       constants.DefaultServerAddress,
		MaxBodySize:   fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes),
		DataDir:       constants.DefaultDataDir,
		bodySizeBytes: constants.DefaultMaxBodySizeBytes,
		sessionTTL:    constants.DefaultSessionTTLHours * time.Hour,
	}
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides the address, storage locations and Redis address with
// the IMMO_* environment variables that are set.
func (c *Config) ApplyEnv() {
	for name, field := range map[string]*string{
		EnvAddress:     &c.Address,
		EnvDataDir:     &c.DataDir,
		EnvDatabaseURL: &c.DatabaseURL,
		EnvRedisAddr:   &c.RedisAddr,
	} {
		if value := strings.TrimSpace(os.Getenv(name)); value != "" {
			*field = value
		}
	}
}

// BodySizeBytes returns the configured request body limit in bytes.
func (c *Config) BodySizeBytes() int64 {
	return c.bodySizeBytes
}

// SetBodySizeBytes overrides the configured request body limit.
func (c *Config) SetBodySizeBytes(size int64) {
	if size > 0 {
		c.bodySizeBytes = size
		c.MaxBodySize = fmt.Sprintf("%d", size)
	}
}

// SessionLifetime returns how long a login session stays valid.
func (c *Config) SessionLifetime() time.Duration {
	return c.sessionTTL
}

// MarketDataLatency returns the artificial delay of market data lookups.
func (c *Config) MarketDataLatency() time.Duration {
	return c.marketLatency
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}
	if c.DataDir == "" {
		c.DataDir = constants.DefaultDataDir
	}

	c.sessionTTL = constants.DefaultSessionTTLHours * time.Hour
	if ttl := strings.TrimSpace(c.SessionTTL); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return fmt.Errorf("invalid sessionTtl %q: %w", ttl, err)
		}
		if d > 0 {
			c.sessionTTL = d
		}
	}

	c.marketLatency = 0
	if latency := strings.TrimSpace(c.MarketLatency); latency != "" {
		d, err := time.ParseDuration(latency)
		if err != nil {
			return fmt.Errorf("invalid marketLatency %q: %w", latency, err)
		}
		if d > 0 {
			c.marketLatency = d
		}
	}

	sizeStr := strings.TrimSpace(c.MaxBodySize)
	if sizeStr == "" {
		c.bodySizeBytes = constants.DefaultMaxBodySizeBytes
		c.MaxBodySize = fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes)
		return nil
	}

	bytes, err := ParseSize(sizeStr)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxBodySizeBytes
	}
	c.bodySizeBytes = bytes
	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxBodySizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
