package token

import (
	"errors"
	"fmt"
	"time"
)

// MinSecretSize is the shortest accepted signing secret, in bytes.
const MinSecretSize = 32

type Config struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (c Config) Validate() error {
	if len(c.Secret) < MinSecretSize {
		return fmt.Errorf("signing secret must be at least %d bytes", MinSecretSize)
	}
	if c.Issuer == "" {
		return errors.New("issuer must not be empty")
	}
	if c.AccessTTL <= 0 {
		return errors.New("access token TTL must be positive")
	}
	if c.RefreshTTL <= c.AccessTTL {
		return fmt.Errorf("refresh token TTL (%s) must be greater than access token TTL (%s)", c.RefreshTTL, c.AccessTTL)
	}

	return nil
}
