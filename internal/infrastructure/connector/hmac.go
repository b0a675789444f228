package connector

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// NonceHeader carries the per-request nonce of HMAC signed requests
const NonceHeader = "X-Penneo-Nonce"

type HMACSignature struct {
	ClientID     string
	ClientSecret string

	now    func() time.Time
	nonce  func() ([]byte, error)
	logger *zap.Logger
}

func NewHMACSignature(clientID, clientSecret string, logger *zap.Logger) *HMACSignature {
	return &HMACSignature{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		now:          utcNow,
		nonce:        randomNonce,
		logger:       logger,
	}
}

// GenerateSignature generates HMAC-SHA256 signature for a request.
// The signed payload is: {method}\n{path?query}\n{date}\n{nonce}
func (h *HMACSignature) GenerateSignature(method, fullURL string, date time.Time, nonce string) (authHeader string, dateHeader string, err error) {
	parsedURL, err := url.Parse(fullURL)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse URL: %w", err)
	}

	requestPath := parsedURL.EscapedPath()
	if parsedURL.RawQuery != "" {
		requestPath = requestPath + "?" + parsedURL.RawQuery
	}

	// Format date according to RFC1123 (HTTP Date format)
	dateHeader = date.UTC().Format(http.TimeFormat)

	payload := fmt.Sprintf("%s\n%s\n%s\n%s", method, requestPath, dateHeader, nonce)

	mac := hmac.New(sha256.New, []byte(h.ClientSecret))
	mac.Write([]byte(payload))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	// Format: hmac username="client_id", algorithm="hmac-sha256", headers="method url date nonce", signature="signature"
	authHeader = fmt.Sprintf(`hmac username="%s", algorithm="hmac-sha256", headers="method url date nonce", signature="%s"`,
		h.ClientID, signature)

	h.logger.Debug("HMAC signature generated",
		zap.String("method", method),
		zap.String("request_path", requestPath),
		zap.String("date", dateHeader),
		zap.String("nonce", nonce),
		zap.String("client_id", h.ClientID),
	)

	return authHeader, dateHeader, nil
}

// Authenticate signs an HTTP request with HMAC-SHA256 signature
func (h *HMACSignature) Authenticate(req *http.Request) error {
	raw, err := h.nonce()
	if err != nil {
		return err
	}
	nonce := hex.EncodeToString(raw)

	authHeader, dateHeader, err := h.GenerateSignature(req.Method, req.URL.String(), h.now(), nonce)
	if err != nil {
		return err
	}

	req.Header.Set("Date", dateHeader)
	req.Header.Set(NonceHeader, nonce)
	req.Header.Set("Authorization", authHeader)

	return nil
}
