package connector

import (
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// WSSECreatedFormat is the timestamp layout of the Created field
const WSSECreatedFormat = "2006-01-02T15:04:05Z"

// WSSEAuthenticator signs requests with a WS-Security UsernameToken
type WSSEAuthenticator struct {
	Key    string
	Secret string

	now    func() time.Time
	nonce  func() ([]byte, error)
	logger *zap.Logger
}

func NewWSSEAuthenticator(key, secret string, logger *zap.Logger) *WSSEAuthenticator {
	return &WSSEAuthenticator{
		Key:    key,
		Secret: secret,
		now:    utcNow,
		nonce:  randomNonce,
		logger: logger,
	}
}

// Digest computes base64(sha1(nonce + created + secret))
func (a *WSSEAuthenticator) Digest(nonce []byte, created string) string {
	h := sha1.New()
	h.Write(nonce)
	h.Write([]byte(created))
	h.Write([]byte(a.Secret))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// GenerateHeader builds the X-WSSE header value for a nonce and creation time
func (a *WSSEAuthenticator) GenerateHeader(nonce []byte, created time.Time) string {
	createdStr := created.UTC().Format(WSSECreatedFormat)
	return fmt.Sprintf(`UsernameToken Username="%s", PasswordDigest="%s", Nonce="%s", Created="%s"`,
		a.Key,
		a.Digest(nonce, createdStr),
		base64.StdEncoding.EncodeToString(nonce),
		createdStr,
	)
}

func (a *WSSEAuthenticator) Authenticate(req *http.Request) error {
	nonce, err := a.nonce()
	if err != nil {
		return err
	}
	header := a.GenerateHeader(nonce, a.now())

	req.Header.Set("X-WSSE", header)
	req.Header.Set("Authorization", `WSSE profile="UsernameToken"`)

	a.logger.Debug("Request signed with WSSE",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.String("username", a.Key),
	)
	return nil
}
