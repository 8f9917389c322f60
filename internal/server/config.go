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

	"github.com/iwvelando/repair-reserve/internal/config"
	"github.com/iwvelando/repair-reserve/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address     string               `yaml:"address"`
	MaxBodySize string               `yaml:"maxBodySize"`
	RateLimit   RateLimitConfig      `yaml:"rateLimit"`
	Logging     config.LoggingConfig `yaml:"logging"`

	bodySizeBytes int64
	refill        time.Duration
}

// RateLimitConfig sets the per-client request budget. A capacity of 0 uses the
// default; a negative capacity disables limiting.
type RateLimitConfig struct {
	Capacity int    `yaml:"capacity"`
	Refill   string `yaml:"refill"`
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read server config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse server config: %w", err)
			}
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
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

// RefillInterval returns the rate limiter refill window.
func (c *Config) RefillInterval() time.Duration {
	return c.refill
}

// RateLimitEnabled reports whether requests should pass through a RateLimiter.
func (c *Config) RateLimitEnabled() bool {
	return c.RateLimit.Capacity > 0
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}

	size, err := ParseSize(c.MaxBodySize)
	if err != nil {
		return err
	}
	if size <= 0 {
		size = constants.DefaultMaxBodySizeBytes
	}
	c.bodySizeBytes = size
	if strings.TrimSpace(c.MaxBodySize) == "" {
		c.MaxBodySize = fmt.Sprintf("%d", size)
	}

	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = constants.DefaultRateLimitCapacity
	}
	if c.RateLimit.Refill == "" {
		c.RateLimit.Refill = constants.DefaultRateLimitRefill
	}
	refill, err := time.ParseDuration(c.RateLimit.Refill)
	if err != nil {
		return fmt.Errorf("invalid rateLimit.refill %q: %w", c.RateLimit.Refill, err)
	}
	if refill <= 0 {
		return fmt.Errorf("rateLimit.refill must be positive, got %s", c.RateLimit.Refill)
	}
	c.refill = refill
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
