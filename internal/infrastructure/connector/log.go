package connector

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"penneo-esign/internal/domain/entity"
)

const (
	maxBodyLogLength   = 500   // Maximum characters to log for body
	maxBodyStoreLength = 10000 // Maximum characters persisted per API log body
)

var base64Pattern = regexp.MustCompile(`"([A-Za-z0-9+/=]{100,})"`)

// truncateString truncates a string if it exceeds maxLength
func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + fmt.Sprintf("... [truncated, total %d chars]", len(s))
}

// truncateBase64InJSON shortens base64-like values in a JSON string, pdf uploads mostly
func truncateBase64InJSON(jsonStr string, maxLength int) string {
	return base64Pattern.ReplaceAllStringFunc(jsonStr, func(match string) string {
		content := match[1 : len(match)-1]
		if len(content) > maxLength {
			return fmt.Sprintf(`"%s... [base64 truncated, total %d chars]"`, content[:maxLength], len(content))
		}
		return match
	})
}

// formatHeadersForLog formats HTTP headers in "Header Key=Value" lines, credentials masked
func formatHeadersForLog(headers http.Header) string {
	var sb strings.Builder
	for key, values := range headers {
		for _, value := range values {
			switch http.CanonicalHeaderKey(key) {
			case "Authorization", "X-Wsse":
				value = "[redacted]"
			}
			if len(value) > 100 {
				value = value[:100] + "..."
			}
			sb.WriteString(fmt.Sprintf("Header %s=%s\n", key, value))
		}
	}
	return sb.String()
}

func (c *Connector) logRequest(method, url string, headers http.Header, body []byte, params map[string]any) {
	if !c.logger.Core().Enabled(zap.DebugLevel) {
		return
	}

	var logBuilder strings.Builder

	logBuilder.WriteString("\n>>> [PENNEO-REQ]\n")
	logBuilder.WriteString(fmt.Sprintf("Method: %s\n", method))
	logBuilder.WriteString(fmt.Sprintf("URL: %s\n", url))
	logBuilder.WriteString(formatHeadersForLog(headers))
	for key, value := range params {
		logBuilder.WriteString(fmt.Sprintf("Param %s=%v\n", key, value))
	}

	if len(body) > 0 {
		bodyStr := truncateBase64InJSON(string(body), 100)
		bodyStr = truncateString(bodyStr, maxBodyLogLength)
		logBuilder.WriteString(fmt.Sprintf("REQUEST BODY: %s\n", bodyStr))
	}

	c.logger.Debug(logBuilder.String())
}

func (c *Connector) logResponse(method, url string, statusCode int, statusText string, duration time.Duration, headers http.Header, body []byte) {
	if !c.logger.Core().Enabled(zap.DebugLevel) {
		return
	}

	var logBuilder strings.Builder

	logBuilder.WriteString("\n>>> [PENNEO-RESPONSE]\n")
	logBuilder.WriteString(fmt.Sprintf("%s %s\n", method, url))
	logBuilder.WriteString(fmt.Sprintf("Status: %d %s\n", statusCode, statusText))
	logBuilder.WriteString(fmt.Sprintf("Duration: %s\n", duration))
	logBuilder.WriteString(formatHeadersForLog(headers))

	if len(body) > 0 {
		bodyStr := truncateBase64InJSON(string(body), 100)
		logBuilder.WriteString(fmt.Sprintf("Body: %s\n", truncateString(bodyStr, maxBodyLogLength)))
	}

	c.logger.Debug(logBuilder.String())
}

// saveAPILog hands the call to the APILogSaver without blocking the request
func (c *Connector) saveAPILog(method, endpoint string, requestBody []byte, responseBody []byte, statusCode int, duration time.Duration) {
	if c.apiLogSaver == nil {
		return
	}

	reqBodyStr := ""
	if len(requestBody) > 0 {
		reqBodyStr = truncateBase64InJSON(string(requestBody), 100)
		if len(reqBodyStr) > maxBodyStoreLength {
			reqBodyStr = reqBodyStr[:maxBodyStoreLength] + "... [truncated]"
		}
	}

	respBodyStr := truncateBase64InJSON(string(responseBody), 100)
	if len(respBodyStr) > maxBodyStoreLength {
		respBodyStr = respBodyStr[:maxBodyStoreLength] + "... [truncated]"
	}

	apiLog := &entity.APILog{
		Endpoint:     endpoint,
		Method:       method,
		RequestBody:  reqBodyStr,
		ResponseBody: respBodyStr,
		StatusCode:   statusCode,
		Duration:     duration.Milliseconds(),
		CreatedAt:    time.Now(),
	}

	go func() {
		if err := c.apiLogSaver.Save(context.Background(), apiLog); err != nil {
			c.logger.Warn("Failed to save API log to database",
				zap.String("endpoint", endpoint),
				zap.Error(err),
			)
		}
	}()
}
