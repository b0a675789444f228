package repository

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"penneo-esign/internal/config"
	"penneo-esign/internal/domain/entity"
	"penneo-esign/internal/domain/repository"
	"penneo-esign/internal/infrastructure/connector"
)

// penneoTwin answers the calls of one signing case
type penneoTwin struct {
	mu    sync.Mutex
	calls []string
}

func (p *penneoTwin) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func (p *penneoTwin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/")
	call := r.Method + " " + path

	p.mu.Lock()
	p.calls = append(p.calls, call)
	p.mu.Unlock()

	_, _ = io.Copy(io.Discard, r.Body)
	w.Header().Set("Content-Type", "application/json")

	write := func(status int, body string) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}

	switch call {
	case "POST casefiles":
		write(http.StatusCreated, `{"id": 1, "title": "Demo case file"}`)
	case "GET casefiles/1":
		write(http.StatusOK, `{"id": 1, "title": "Demo case file", "status": 5}`)
	case "GET casefiles":
		write(http.StatusOK, `[{"id": 1, "title": "Demo case file"}]`)
	case "GET casefiles/1/errors":
		write(http.StatusOK, `[]`)
	case "GET casefiles/1/casefiletype":
		write(http.StatusOK, `{"id": 3, "name": "Simple"}`)
	case "patch casefiles/1/send", "patch casefiles/1/activate":
		w.WriteHeader(http.StatusNoContent)
	case "POST documents":
		write(http.StatusCreated, `{"id": 2}`)
	case "GET casefiles/1/documents":
		write(http.StatusOK, `[{"id": 2, "title": "Demo Document", "type": "signable"}]`)
	case "GET documents/2/pdf":
		write(http.StatusOK, `["`+base64.StdEncoding.EncodeToString([]byte("%PDF signed"))+`"]`)
	case "POST casefiles/1/signers":
		write(http.StatusCreated, `{"id": 3}`)
	case "GET casefiles/1/signers":
		write(http.StatusOK, `[{"id": 3, "name": "John Doe"}]`)
	case "GET casefiles/1/signers/3":
		write(http.StatusOK, `{"id": 3, "name": "John Doe"}`)
	case "POST documents/2/signaturelines":
		write(http.StatusCreated, `{"id": 4}`)
	case "GET documents/2/signaturelines":
		write(http.StatusOK, `[{"id": 4, "role": "Signer"}]`)
	case "LINK documents/2/signaturelines/4/signers/3", "UNLINK documents/2/signaturelines/4/signers/3":
		write(http.StatusOK, ``)
	case "GET casefiles/1/signers/3/signingrequests":
		write(http.StatusOK, `{"id": 5, "status": 0}`)
	case "PUT signingrequests/5":
		write(http.StatusOK, `{"id": 5}`)
	case "GET signingrequests/5/link":
		write(http.StatusOK, `["https://app.penneo.com/signing/5"]`)
	default:
		write(http.StatusNotFound, `{"error": "not found"}`)
	}
}

func newTwinRepository(t *testing.T) (repository.SigningRepository, *penneoTwin) {
	t.Helper()
	twin := &penneoTwin{}
	server := httptest.NewServer(twin)
	t.Cleanup(server.Close)

	conn, err := connector.New(&config.PenneoConfig{
		Endpoint: server.URL + "/api/v1",
		Key:      "key",
		Secret:   "secret",
	}, zap.NewNop())
	require.NoError(t, err)
	return NewSigningRepository(conn, zap.NewNop()), twin
}

func TestSigningRepository_SigningCase(t *testing.T) {
	ctx := context.Background()
	repo, twin := newTwinRepository(t)

	caseFile := entity.NewCaseFile("Demo case file")
	ok, err := repo.Persist(ctx, caseFile)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, *caseFile.ID())

	doc := entity.NewDocument(caseFile, "Demo Document", []byte("%PDF-1.4"))
	repo.MakeSignable(doc)
	assert.True(t, doc.IsSignable())
	ok, err = repo.Persist(ctx, doc)
	require.NoError(t, err)
	require.True(t, ok)

	signer := entity.NewSigner(caseFile, "John Doe")
	ok, err = repo.Persist(ctx, signer)
	require.NoError(t, err)
	require.True(t, ok)

	line := entity.NewSignatureLine(doc, "Signer")
	ok, err = repo.Persist(ctx, line)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.SetSigner(ctx, line, signer)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, signer, line.Signer())

	request, err := repo.GetSigningRequest(ctx, signer)
	require.NoError(t, err)
	require.NotNil(t, request)
	assert.Same(t, signer, request.Signer())

	request.Email = "john@example.com"
	request.SuccessURL = "https://example.com/success"
	ok, err = repo.Persist(ctx, request)
	require.NoError(t, err)
	require.True(t, ok)

	link, err := repo.GetSigningLink(ctx, request)
	require.NoError(t, err)
	assert.Equal(t, "https://app.penneo.com/signing/5", link)

	errs, err := repo.GetCaseFileErrors(ctx, caseFile)
	require.NoError(t, err)
	assert.Empty(t, errs)

	result, err := repo.SendCaseFile(ctx, caseFile)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, repo.LatestResult(caseFile).Success)

	assert.Equal(t, []string{
		"POST casefiles",
		"POST documents",
		"POST casefiles/1/signers",
		"POST documents/2/signaturelines",
		"LINK documents/2/signaturelines/4/signers/3",
		"GET casefiles/1/signers/3/signingrequests",
		"PUT signingrequests/5",
		"GET signingrequests/5/link",
		"GET casefiles/1/errors",
		"patch casefiles/1/send",
	}, twin.Calls())
}

func TestSigningRepository_Reads(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTwinRepository(t)

	caseFile, err := repo.GetCaseFile(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, caseFile)
	assert.Equal(t, entity.CaseFileStatusCompleted, caseFile.Status)

	missing, err := repo.GetCaseFile(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)

	found, caseFiles, err := repo.FindCaseFiles(ctx, map[string]any{"Title": "Demo"}, entity.IntPtr(1), entity.IntPtr(10))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, caseFiles, 1)

	docs, err := repo.GetDocuments(ctx, caseFile)
	require.NoError(t, err)
	require.Len(t, docs.Objects, 1)
	doc := docs.Objects[0]
	assert.Same(t, caseFile, doc.CaseFile())

	pdf, err := repo.GetDocumentPDF(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF signed"), pdf)

	lines, err := repo.GetSignatureLines(ctx, doc)
	require.NoError(t, err)
	require.Len(t, lines.Objects, 1)

	signers, err := repo.GetSigners(ctx, caseFile)
	require.NoError(t, err)
	require.Len(t, signers.Objects, 1)

	signer, err := repo.FindSigner(ctx, caseFile, 3)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", signer.Name)

	_, err = repo.FindSigner(ctx, caseFile, 42)
	assert.True(t, connector.IsNotFound(err))

	line := lines.Objects[0]
	line.AssignSigner(signer)
	ok, err := repo.UnsetSigner(ctx, line, signer)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Nil(t, line.Signer())

	cfType, err := repo.GetCaseFileType(ctx, caseFile)
	require.NoError(t, err)
	assert.Equal(t, "Simple", cfType.Name)

	result, err := repo.ActivateCaseFile(ctx, caseFile)
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestSigningRepository_Delete(t *testing.T) {
	repo, _ := newTwinRepository(t)
	caseFile := entity.NewCaseFile("gone")
	caseFile.SetID(77)

	ok, err := repo.Delete(context.Background(), caseFile)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, http.StatusNotFound, repo.LatestResult(caseFile).StatusCode)
}
