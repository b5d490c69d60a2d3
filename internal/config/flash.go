// Package config provides flash notification signing configuration.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"
)

// FlashConfig holds the signing settings for transient notification cookies.
type FlashConfig struct {
	Secret string
	TTL    time.Duration
}

// NewFlashConfig creates the flash configuration. The secret comes from the
// Config or JOBTRACKER_FLASH_SECRET; when neither is set a random per-process
// secret is generated, which only means notifications do not survive a
// restart. JOBTRACKER_FLASH_TTL_SECONDS defaults to 30.
func NewFlashConfig(cfg *Config) (*FlashConfig, error) {
	secret := ""
	if cfg != nil {
		secret = cfg.FlashSecret
	}
	if secret == "" {
		secret = os.Getenv("JOBTRACKER_FLASH_SECRET")
	}
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("failed to generate flash secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
	}

	ttlStr := os.Getenv("JOBTRACKER_FLASH_TTL_SECONDS")
	if ttlStr == "" {
		ttlStr = "30"
	}
	ttl, err := strconv.Atoi(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JOBTRACKER_FLASH_TTL_SECONDS: %v", err)
	}

	fc := &FlashConfig{
		Secret: secret,
		TTL:    time.Duration(ttl) * time.Second,
	}
	if err := fc.normalize(); err != nil {
		return nil, err
	}
	return fc, nil
}

func (c *FlashConfig) normalize() error {
	if len(c.Secret) < 16 {
		return fmt.Errorf("flash secret must be at least 16 characters")
	}
	if c.TTL < time.Second {
		return fmt.Errorf("JOBTRACKER_FLASH_TTL_SECONDS must be at least 1, got: %v", c.TTL)
	}
	return nil
}
