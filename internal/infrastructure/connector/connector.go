package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"penneo-esign/internal/config"
	"penneo-esign/internal/domain/entity"
)

// APILogSaver interface for saving API logs
type APILogSaver interface {
	Save(ctx context.Context, log *entity.APILog) error
}

// Connector is the single point of contact with the signing API
type Connector struct {
	client        *http.Client
	endpoint      string
	headers       map[string]string
	authenticator Authenticator
	resources     *Resources
	results       *resultStore
	apiLogSaver   APILogSaver
	logger        *zap.Logger

	lastMu          sync.Mutex
	lastStatusCode  int
	lastBody        []byte
	lastWasError    bool
	hasLastResponse bool
}

// response is a fully read HTTP response
type response struct {
	statusCode int
	status     string
	header     http.Header
	body       []byte
}

// Option customizes a Connector
type Option func(*Connector)

// WithHTTPClient replaces the HTTP client, mostly for tests
func WithHTTPClient(client *http.Client) Option {
	return func(c *Connector) {
		c.client = client
	}
}

// WithAuthenticator replaces the authenticator built from config
func WithAuthenticator(auth Authenticator) Option {
	return func(c *Connector) {
		c.authenticator = auth
	}
}

// WithAPILogSaver persists every call through saver
func WithAPILogSaver(saver APILogSaver) Option {
	return func(c *Connector) {
		c.apiLogSaver = saver
	}
}

// New creates a connector for the configured endpoint and credentials
func New(cfg *config.PenneoConfig, logger *zap.Logger, opts ...Option) (*Connector, error) {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = config.DefaultEndpoint
	}

	headers := make(map[string]string, len(cfg.Headers)+1)
	for key, value := range cfg.Headers {
		headers[key] = value
	}
	if cfg.User != "" {
		headers[APIUserHeader] = cfg.User
	}

	c := &Connector{
		endpoint:  endpoint,
		headers:   headers,
		resources: NewResources(),
		results:   newResultStore(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.authenticator == nil {
		auth, err := NewAuthenticator(cfg, logger)
		if err != nil {
			return nil, err
		}
		c.authenticator = auth
	}
	if c.client == nil {
		c.client = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newTransport(endpoint, cfg.UseSystemProxy, logger),
		}
	}

	logger.Info("Penneo connector initialized",
		zap.String("endpoint", endpoint),
		zap.String("auth_type", cfg.AuthType),
		zap.Bool("api_user", cfg.User != ""),
		zap.Bool("system_proxy", cfg.UseSystemProxy),
	)

	return c, nil
}

// newTransport keeps the default environment proxy. With useSystemProxy the
// proxy is also skipped when it resolves to the endpoint itself.
func newTransport(endpoint string, useSystemProxy bool, logger *zap.Logger) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if useSystemProxy {
		transport.Proxy = proxyFunc(endpoint, http.ProxyFromEnvironment, logger)
	}
	return transport
}

// proxyFunc resolves the proxy per request and drops it when it equals the endpoint
func proxyFunc(endpoint string, resolve func(*http.Request) (*url.URL, error), logger *zap.Logger) func(*http.Request) (*url.URL, error) {
	return func(req *http.Request) (*url.URL, error) {
		proxy, err := resolve(req)
		if err != nil {
			return nil, err
		}
		if proxy != nil && !strings.EqualFold(proxy.String(), endpoint) {
			logger.Debug("Using proxy", zap.String("proxy_url", proxy.String()))
			return proxy, nil
		}
		return nil, nil
	}
}

// Resources exposes the resource resolver
func (c *Connector) Resources() *Resources {
	return c.resources
}

// isSuccess reports whether the status is one of 200, 201, 204
func isSuccess(statusCode int) bool {
	switch statusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return true
	default:
		return false
	}
}

// callServer performs one round trip. Transport failures are logged and returned.
func (c *Connector) callServer(ctx context.Context, method, path string, opts callOptions) (*response, error) {
	prepared, err := c.prepareRequest(ctx, method, path, opts)
	if err != nil {
		return nil, err
	}
	req := prepared.req

	if err := c.authenticator.Authenticate(req); err != nil {
		return nil, fmt.Errorf("failed to authenticate request: %w", err)
	}

	fullURL := req.URL.String()
	c.logRequest(method, fullURL, req.Header, prepared.body, prepared.params)

	startTime := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Request to Penneo failed",
			zap.String("method", method),
			zap.String("url", fullURL),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("Failed to read Penneo response",
			zap.String("method", method),
			zap.String("url", fullURL),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	duration := time.Since(startTime)

	c.logResponse(method, fullURL, resp.StatusCode, resp.Status, duration, resp.Header, respBody)
	c.saveAPILog(method, fullURL, prepared.body, respBody, resp.StatusCode, duration)
	c.setLastResponse(resp.StatusCode, respBody)

	return &response{
		statusCode: resp.StatusCode,
		status:     resp.Status,
		header:     resp.Header,
		body:       respBody,
	}, nil
}

func (c *Connector) setLastResponse(statusCode int, body []byte) {
	c.lastMu.Lock()
	defer c.lastMu.Unlock()
	c.lastStatusCode = statusCode
	c.lastBody = body
	c.lastWasError = !isSuccess(statusCode)
	c.hasLastResponse = true
}

// WasLastResponseError reports whether the most recent response, on any entity, was outside the success set
func (c *Connector) WasLastResponseError() bool {
	c.lastMu.Lock()
	defer c.lastMu.Unlock()
	return c.lastWasError
}

// LastResponseContent returns the raw body of the most recent response
func (c *Connector) LastResponseContent() string {
	c.lastMu.Lock()
	defer c.lastMu.Unlock()
	if !c.hasLastResponse {
		return ""
	}
	return string(c.lastBody)
}

// LastStatusCode returns the status of the most recent response, 0 before any call
func (c *Connector) LastStatusCode() int {
	c.lastMu.Lock()
	defer c.lastMu.Unlock()
	return c.lastStatusCode
}

// LatestServerResult returns the last recorded result for e, nil when none exists
func (c *Connector) LatestServerResult(e entity.Entity) *entity.ServerResult {
	return c.results.get(e)
}

// extractResponse fills result from resp and records it for e
func (c *Connector) extractResponse(e entity.Entity, resp *response, result *entity.ServerResult) bool {
	result.Success = true
	if resp == nil {
		c.logger.Error("Request failed: empty response", zap.String("entity", kindOf(e)))
		result.ErrorMessage = "Empty response"
		result.Success = false
	} else {
		result.StatusCode = resp.statusCode
		result.JSONContent = string(resp.body)
		if !isSuccess(resp.statusCode) {
			c.logger.Error("Request failed",
				zap.String("entity", kindOf(e)),
				zap.Int("status", resp.statusCode),
				zap.String("body", truncateString(string(resp.body), maxBodyLogLength)),
			)
			result.Success = false
			result.ErrorMessage = errorMessage(resp.body)
		}
	}
	c.results.set(e, result)
	return result.Success
}

// errorMessage pulls the message out of an API error body when there is one
func errorMessage(body []byte) string {
	var apiErr struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return ""
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	return apiErr.Error
}

func kindOf(e entity.Entity) string {
	if e == nil {
		return ""
	}
	return string(e.Kind())
}

// WriteObject creates e when it is new and updates it otherwise
func (c *Connector) WriteObject(ctx context.Context, e entity.Entity) (bool, error) {
	result := &entity.ServerResult{}

	data, err := e.RequestData()
	if err != nil || data == nil {
		c.logger.Error("Write failed: unable to get request data",
			zap.String("entity", kindOf(e)),
			zap.Error(err),
		)
		result.Success = false
		result.ErrorMessage = "Unable to get request data"
		if err != nil {
			result.ErrorMessage = err.Error()
		}
		c.results.set(e, result)
		return false, nil
	}

	if !e.IsNew() {
		path, err := entityURL(e)
		if err != nil {
			return false, err
		}
		resp, err := c.callServer(ctx, http.MethodPut, path, callOptions{data: data})
		if err != nil {
			return false, err
		}
		return c.extractResponse(e, resp, result), nil
	}

	resp, err := c.callServer(ctx, http.MethodPost, e.RelativeURL(), callOptions{data: data})
	if err != nil {
		return false, err
	}
	if !c.extractResponse(e, resp, result) {
		return false, nil
	}

	// Take the identifier given by the server
	var created struct {
		ID *int `json:"id"`
	}
	if err := json.Unmarshal(resp.body, &created); err != nil || created.ID == nil {
		c.logger.Warn("Create succeeded without an identifier in the response",
			zap.String("entity", kindOf(e)),
			zap.Int("status", resp.statusCode),
		)
		return true, nil
	}
	e.SetID(*created.ID)

	c.logger.Info("Entity created",
		zap.String("entity", kindOf(e)),
		zap.Int("id", *created.ID),
	)
	return true, nil
}

// DeleteObject deletes e, success iff the status is 200 or 204
func (c *Connector) DeleteObject(ctx context.Context, e entity.Entity) (bool, error) {
	path, err := entityURL(e)
	if err != nil {
		return false, err
	}
	resp, err := c.callServer(ctx, http.MethodDelete, path, callOptions{})
	if err != nil {
		return false, err
	}

	result := &entity.ServerResult{
		StatusCode:  resp.statusCode,
		JSONContent: string(resp.body),
		Success:     resp.statusCode == http.StatusOK || resp.statusCode == http.StatusNoContent,
	}
	if !result.Success {
		result.ErrorMessage = errorMessage(resp.body)
	}
	c.results.set(e, result)
	return result.Success, nil
}

// LinkEntity associates child with parent
func (c *Connector) LinkEntity(ctx context.Context, parent, child entity.Entity) (bool, error) {
	return c.link(ctx, MethodLink, parent, child)
}

// UnlinkEntity removes the association between parent and child
func (c *Connector) UnlinkEntity(ctx context.Context, parent, child entity.Entity) (bool, error) {
	return c.link(ctx, MethodUnlink, parent, child)
}

func (c *Connector) link(ctx context.Context, method string, parent, child entity.Entity) (bool, error) {
	path, err := c.linkURL(parent, child)
	if err != nil {
		return false, err
	}
	resp, err := c.callServer(ctx, method, path, callOptions{})
	if err != nil {
		return false, err
	}
	return c.extractResponse(parent, resp, &entity.ServerResult{}), nil
}

// linkURL is parent/{id}/{child resource}/{childId}
func (c *Connector) linkURL(parent, child entity.Entity) (string, error) {
	if child == nil || child.IsNew() {
		return "", fmt.Errorf("%w: %s", ErrNotPersisted, kindOf(child))
	}
	base, err := c.resources.NestedResource(parent, child.Kind())
	if err != nil {
		return "", err
	}
	return base + "/" + entity.IDString(child), nil
}

// PerformAction calls a named action on e with the patch verb and no body
func (c *Connector) PerformAction(ctx context.Context, e entity.Entity, actionName string) (*entity.ServerResult, error) {
	base, err := entityURL(e)
	if err != nil {
		return nil, err
	}
	resp, err := c.callServer(ctx, MethodAction, base+"/"+actionName, callOptions{})
	if err != nil {
		return nil, err
	}

	result := &entity.ServerResult{}
	c.extractResponse(e, resp, result)
	return result, nil
}

// assetURL is {entity url}/{asset name}
func assetURL(e entity.Entity, assetName string) (string, error) {
	base, err := entityURL(e)
	if err != nil {
		return "", err
	}
	return base + "/" + assetName, nil
}
