package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"penneo-esign/internal/config"
	"penneo-esign/internal/domain/entity"
	"penneo-esign/internal/domain/repository"
	"penneo-esign/internal/infrastructure/connector"
	"penneo-esign/internal/infrastructure/document"
	infrarepo "penneo-esign/internal/infrastructure/repository"
	"penneo-esign/internal/usecase"
)

type fakeSigningUsecase struct {
	createErr error
	getErr    error
	findErr   error

	gotRequest *entity.SigningCaseRequest
	gotTitle   string
	gotPage    *int
	gotPerPage *int
}

func (f *fakeSigningUsecase) CreateSigningCase(ctx context.Context, req *entity.SigningCaseRequest) (*entity.SigningCaseResult, error) {
	f.gotRequest = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &entity.SigningCaseResult{CaseFileID: 1, DocumentID: 2, Status: "pending", Sent: true}, nil
}

func (f *fakeSigningUsecase) GetCaseFile(ctx context.Context, id int) (*entity.CaseFileSummary, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	cf := entity.NewCaseFile("Board minutes")
	cf.SetID(id)
	return &entity.CaseFileSummary{CaseFile: cf, Status: cf.Status.String()}, nil
}

func (f *fakeSigningUsecase) FindCaseFiles(ctx context.Context, title string, page, perPage *int) ([]*entity.CaseFile, error) {
	f.gotTitle, f.gotPage, f.gotPerPage = title, page, perPage
	if f.findErr != nil {
		return nil, f.findErr
	}
	return []*entity.CaseFile{}, nil
}

type fakeCallbackUsecase struct {
	err error
}

func (f *fakeCallbackUsecase) HandleCallback(ctx context.Context, token, outcome string) (*entity.CallbackResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &entity.CallbackResult{Token: token, Outcome: outcome, SignedPDFSaved: true}, nil
}

type fakeLogRepo struct {
	err      error
	gotLimit int
	gotQuery string
}

func (f *fakeLogRepo) Save(ctx context.Context, log *entity.APILog) error { return nil }

func (f *fakeLogRepo) FindAll(ctx context.Context, limit int) ([]*entity.APILog, error) {
	f.gotLimit = limit
	return []*entity.APILog{{ID: 1, Endpoint: "casefiles"}}, f.err
}

func (f *fakeLogRepo) FindByEndpoint(ctx context.Context, endpoint string, limit int) ([]*entity.APILog, error) {
	f.gotQuery, f.gotLimit = endpoint, limit
	return []*entity.APILog{}, f.err
}

func newTestApp(signing usecase.SigningUsecase, callback usecase.CallbackUsecase, logs infrarepo.APILogRepository) *fiber.App {
	cfg := &config.Config{Penneo: config.PenneoConfig{Endpoint: config.DefaultEndpoint}}
	caseFiles := NewCaseFileHandler(signing, zap.NewNop())
	callbacks := NewCallbackHandler(callback, zap.NewNop())
	logHandler := NewLogHandler(logs)

	app := fiber.New()
	app.Get("/health", NewHealthHandler(cfg).Health)
	app.Post("/api/v1/casefiles", caseFiles.Create)
	app.Get("/api/v1/casefiles", caseFiles.List)
	app.Get("/api/v1/casefiles/:id", caseFiles.Get)
	app.Get("/callback/signatures/:token/:outcome", callbacks.SignatureCallback)
	app.Get("/api/v1/logs", logHandler.GetLogs)
	app.Get("/api/v1/logs/search", logHandler.SearchLogs)
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, entity.APIResponse) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body entity.APIResponse
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return resp.StatusCode, body
}

func TestHealth(t *testing.T) {
	app := newTestApp(&fakeSigningUsecase{}, &fakeCallbackUsecase{}, &fakeLogRepo{})

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, body.Success)
	data := body.Data.(map[string]any)
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "wsse", data["auth_type"])
}

func TestCaseFileHandler_Create(t *testing.T) {
	payload := `{"title":"Board minutes","document_name":"minutes.pdf","signers":[{"name":"Jane","email":"jane@example.com"}]}`

	t.Run("created", func(t *testing.T) {
		signing := &fakeSigningUsecase{}
		app := newTestApp(signing, &fakeCallbackUsecase{}, &fakeLogRepo{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/casefiles", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		status, body := do(t, app, req)

		assert.Equal(t, http.StatusCreated, status)
		assert.True(t, body.Success)
		require.NotNil(t, signing.gotRequest)
		assert.Equal(t, "minutes.pdf", signing.gotRequest.DocumentName)
		assert.Len(t, signing.gotRequest.Signers, 1)
	})

	t.Run("malformed body", func(t *testing.T) {
		app := newTestApp(&fakeSigningUsecase{}, &fakeCallbackUsecase{}, &fakeLogRepo{})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/casefiles", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		status, body := do(t, app, req)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, entity.ErrCodeBadRequest, body.Error.Code)
	})

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid request", fmt.Errorf("%w: title: cannot be blank", usecase.ErrInvalidRequest), http.StatusBadRequest, entity.ErrCodeBadRequest},
		{"invalid filename", document.ErrInvalidFilename, http.StatusBadRequest, entity.ErrCodeBadRequest},
		{"missing document", fmt.Errorf("load: %w", document.ErrDocumentNotFound), http.StatusNotFound, entity.ErrCodeNotFound},
		{"rejected", fmt.Errorf("signer 1: %w", &usecase.RejectedError{Operation: "persist", Kind: entity.KindSigner, StatusCode: 400}), http.StatusBadGateway, entity.ErrCodeSigningRejected},
		{"transport", errors.New("connection refused"), http.StatusInternalServerError, entity.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&fakeSigningUsecase{createErr: tt.err}, &fakeCallbackUsecase{}, &fakeLogRepo{})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/casefiles", strings.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")

			status, body := do(t, app, req)
			assert.Equal(t, tt.status, status)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestCaseFileHandler_List(t *testing.T) {
	signing := &fakeSigningUsecase{}
	app := newTestApp(signing, &fakeCallbackUsecase{}, &fakeLogRepo{})

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/casefiles?title=Board&page=2&per_page=5", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, body.Success)
	assert.Equal(t, "Board", signing.gotTitle)
	require.NotNil(t, signing.gotPage)
	assert.Equal(t, 2, *signing.gotPage)
	assert.Equal(t, 5, *signing.gotPerPage)

	status, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/casefiles", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, signing.gotPage)

	status, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/casefiles?page=two", nil))
	assert.Equal(t, http.StatusBadRequest, status)

	signing.findErr = fmt.Errorf("page 0: %w", connector.ErrInvalidPagination)
	status, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/casefiles?page=0", nil))
	assert.Equal(t, http.StatusBadRequest, status)

	signing.findErr = fmt.Errorf("find: %w", connector.ErrInvalidQuery)
	status, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/casefiles?title=x", nil))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCaseFileHandler_Get(t *testing.T) {
	app := newTestApp(&fakeSigningUsecase{}, &fakeCallbackUsecase{}, &fakeLogRepo{})
	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/casefiles/7", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "new", body.Data.(map[string]any)["status"])

	status, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/casefiles/abc", nil))
	assert.Equal(t, http.StatusBadRequest, status)

	app = newTestApp(&fakeSigningUsecase{getErr: usecase.ErrCaseFileNotFound}, &fakeCallbackUsecase{}, &fakeLogRepo{})
	status, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/casefiles/7", nil))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCallbackHandler(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"processed", nil, http.StatusOK},
		{"unknown token", repository.ErrMappingNotFound, http.StatusNotFound},
		{"bad outcome", fmt.Errorf("%w: \"maybe\"", usecase.ErrInvalidOutcome), http.StatusBadRequest},
		{"case file gone", usecase.ErrCaseFileNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&fakeSigningUsecase{}, &fakeCallbackUsecase{err: tt.err}, &fakeLogRepo{})
			status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/callback/signatures/tok-1/success", nil))
			assert.Equal(t, tt.status, status)
			if tt.err == nil {
				assert.Equal(t, "Signed document saved", body.Message)
				assert.Equal(t, "tok-1", body.Data.(map[string]any)["token"])
			}
		})
	}
}

func TestLogHandler(t *testing.T) {
	logs := &fakeLogRepo{}
	app := newTestApp(&fakeSigningUsecase{}, &fakeCallbackUsecase{}, logs)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/logs?limit=1000", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body.Data, 1)
	assert.Equal(t, infrarepo.MaxLogLimit, logs.gotLimit)

	status, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/logs/search", nil))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/logs/search?endpoint=casefiles", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "casefiles", logs.gotQuery)

	logs.err = infrarepo.ErrLogsDisabled
	status, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/logs", nil))
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, entity.ErrCodeLogsDisabled, body.Error.Code)
}
