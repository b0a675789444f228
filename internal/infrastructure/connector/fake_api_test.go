package connector

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"penneo-esign/internal/config"
)

const apiPrefix = "/api/v1"

// recordedRequest is what the fake API saw
type recordedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
	Body   map[string]any
}

// fakeAPI records requests and answers with a configurable handler
type fakeAPI struct {
	t        *testing.T
	server   *httptest.Server
	mu       sync.Mutex
	requests []recordedRequest
	respond  func(w http.ResponseWriter, r *http.Request)
}

func newFakeAPI(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) *fakeAPI {
	t.Helper()
	f := &fakeAPI{t: t, respond: respond}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) handle(w http.ResponseWriter, r *http.Request) {
	rec := recordedRequest{
		Method: r.Method,
		Path:   strings.TrimPrefix(r.URL.Path, apiPrefix),
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
	}
	raw, _ := io.ReadAll(r.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &rec.Body)
	}

	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()

	if f.respond == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	f.respond(w, r)
}

func (f *fakeAPI) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func (f *fakeAPI) Last() recordedRequest {
	f.t.Helper()
	reqs := f.Requests()
	require.NotEmpty(f.t, reqs, "no request reached the fake API")
	return reqs[len(reqs)-1]
}

func (f *fakeAPI) Config() *config.PenneoConfig {
	return &config.PenneoConfig{
		Endpoint: f.server.URL + apiPrefix,
		AuthType: config.AuthTypeWSSE,
		Key:      "api-key",
		Secret:   "api-secret",
		User:     "42",
		Headers:  map[string]string{"X-Client": "penneo-esign-test"},
	}
}

func newTestConnector(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) (*Connector, *fakeAPI) {
	t.Helper()
	api := newFakeAPI(t, respond)
	c, err := New(api.Config(), zap.NewNop())
	require.NoError(t, err)
	return c, api
}

// reply writes status and a JSON body
func reply(status int, body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body != "" && status != http.StatusNoContent {
			_, _ = io.WriteString(w, body)
		}
	}
}
