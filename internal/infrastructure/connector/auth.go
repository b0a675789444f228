package connector

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"penneo-esign/internal/config"
)

// Authenticator adds authentication headers to an outgoing request
type Authenticator interface {
	Authenticate(req *http.Request) error
}

// NewAuthenticator builds the authenticator for the configured auth type
func NewAuthenticator(cfg *config.PenneoConfig, logger *zap.Logger) (Authenticator, error) {
	switch {
	case cfg.IsWSSE():
		return NewWSSEAuthenticator(cfg.Key, cfg.Secret, logger), nil
	case cfg.IsHMAC():
		return NewHMACSignature(cfg.Key, cfg.Secret, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAuthType, cfg.AuthType)
	}
}

// nonceSize is the number of random bytes in a request nonce
const nonceSize = 16

func randomNonce() ([]byte, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return nonce, nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}
