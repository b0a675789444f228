package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"penneo-esign/internal/domain/entity"
	"penneo-esign/internal/domain/repository"
)

// fakeSigningRepo assigns ids on create and records the order of operations
type fakeSigningRepo struct {
	mu      sync.Mutex
	nextID  int
	ops     []string
	results map[entity.Entity]*entity.ServerResult

	rejectKind    entity.Kind
	caseFiles     map[int]*entity.CaseFile
	caseFileErrs  []string
	sendFails     bool
	pdf           []byte
	findQuery     map[string]any
	findPage      *int
	findPerPage   *int
	findNotFound  bool
	noSigningReqs bool
}

func newFakeSigningRepo() *fakeSigningRepo {
	return &fakeSigningRepo{
		nextID:    100,
		results:   map[entity.Entity]*entity.ServerResult{},
		caseFiles: map[int]*entity.CaseFile{},
	}
}

func (f *fakeSigningRepo) record(op string, e entity.Entity, result *entity.ServerResult) {
	f.ops = append(f.ops, op)
	if e != nil {
		f.results[e] = result
	}
}

func (f *fakeSigningRepo) Ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...)
}

func (f *fakeSigningRepo) Persist(ctx context.Context, e entity.Entity) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.Kind() == f.rejectKind {
		f.record("persist "+string(e.Kind()), e, &entity.ServerResult{StatusCode: 400, ErrorMessage: "rejected"})
		return false, nil
	}
	if e.IsNew() {
		f.nextID++
		e.SetID(f.nextID)
	}
	f.record("persist "+string(e.Kind()), e, &entity.ServerResult{Success: true, StatusCode: 201})
	return true, nil
}

func (f *fakeSigningRepo) Delete(ctx context.Context, e entity.Entity) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete "+string(e.Kind()), e, &entity.ServerResult{Success: true, StatusCode: 204})
	return true, nil
}

func (f *fakeSigningRepo) GetCaseFile(ctx context.Context, id int) (*entity.CaseFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, fmt.Sprintf("get casefile %d", id))
	return f.caseFiles[id], nil
}

func (f *fakeSigningRepo) FindCaseFiles(ctx context.Context, query map[string]any, page, perPage *int) (bool, []*entity.CaseFile, error) {
	f.findQuery, f.findPage, f.findPerPage = query, page, perPage
	if f.findNotFound {
		return false, nil, nil
	}
	var out []*entity.CaseFile
	for _, cf := range f.caseFiles {
		out = append(out, cf)
	}
	return true, out, nil
}

func (f *fakeSigningRepo) GetCaseFileErrors(ctx context.Context, caseFile *entity.CaseFile) ([]string, error) {
	return f.caseFileErrs, nil
}

func (f *fakeSigningRepo) GetCaseFileType(ctx context.Context, caseFile *entity.CaseFile) (*entity.CaseFileType, error) {
	return &entity.CaseFileType{ID: 1, Name: "Simple"}, nil
}

func (f *fakeSigningRepo) SendCaseFile(ctx context.Context, caseFile *entity.CaseFile) (*entity.ServerResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := &entity.ServerResult{Success: !f.sendFails, StatusCode: 204}
	if f.sendFails {
		result.StatusCode = 400
		result.ErrorMessage = "case file incomplete"
	}
	f.record("send casefile", caseFile, result)
	return result, nil
}

func (f *fakeSigningRepo) ActivateCaseFile(ctx context.Context, caseFile *entity.CaseFile) (*entity.ServerResult, error) {
	return &entity.ServerResult{Success: true, StatusCode: 204}, nil
}

func (f *fakeSigningRepo) GetDocuments(ctx context.Context, caseFile *entity.CaseFile) (*entity.QueryResult[*entity.Document], error) {
	doc := entity.NewDocument(caseFile, "Contract", nil)
	doc.SetID(2)
	return &entity.QueryResult[*entity.Document]{
		ServerResult: entity.ServerResult{Success: true, StatusCode: 200},
		Objects:      []*entity.Document{doc},
	}, nil
}

func (f *fakeSigningRepo) GetDocumentPDF(ctx context.Context, document *entity.Document) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, fmt.Sprintf("get pdf %s", entity.IDString(document)))
	return f.pdf, nil
}

func (f *fakeSigningRepo) MakeSignable(document *entity.Document) {
	document.MakeSignable()
}

func (f *fakeSigningRepo) GetSigners(ctx context.Context, caseFile *entity.CaseFile) (*entity.QueryResult[*entity.Signer], error) {
	return &entity.QueryResult[*entity.Signer]{
		ServerResult: entity.ServerResult{StatusCode: 403},
	}, nil
}

func (f *fakeSigningRepo) FindSigner(ctx context.Context, caseFile *entity.CaseFile, id int) (*entity.Signer, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeSigningRepo) GetSignatureLines(ctx context.Context, document *entity.Document) (*entity.QueryResult[*entity.SignatureLine], error) {
	return &entity.QueryResult[*entity.SignatureLine]{}, nil
}

func (f *fakeSigningRepo) SetSigner(ctx context.Context, line *entity.SignatureLine, signer *entity.Signer) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	line.AssignSigner(signer)
	f.record("link", line, &entity.ServerResult{Success: true, StatusCode: 200})
	return true, nil
}

func (f *fakeSigningRepo) UnsetSigner(ctx context.Context, line *entity.SignatureLine, signer *entity.Signer) (bool, error) {
	return true, nil
}

func (f *fakeSigningRepo) GetSigningRequest(ctx context.Context, signer *entity.Signer) (*entity.SigningRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "get signingrequest")
	if f.noSigningReqs {
		f.results[signer] = &entity.ServerResult{StatusCode: 404}
		return nil, nil
	}
	f.nextID++
	request := &entity.SigningRequest{}
	request.SetID(f.nextID)
	request.SetParent(signer)
	return request, nil
}

func (f *fakeSigningRepo) GetSigningLink(ctx context.Context, request *entity.SigningRequest) (string, error) {
	return "https://app.penneo.com/signing/" + entity.IDString(request), nil
}

func (f *fakeSigningRepo) LatestResult(e entity.Entity) *entity.ServerResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.results[e]
}

type fakeCallbacks struct {
	mu       sync.Mutex
	mappings map[string]*entity.CallbackMapping
}

func newFakeCallbacks() *fakeCallbacks {
	return &fakeCallbacks{mappings: map[string]*entity.CallbackMapping{}}
}

func (f *fakeCallbacks) Save(ctx context.Context, mapping *entity.CallbackMapping) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mappings[mapping.Token] = mapping
	return nil
}

func (f *fakeCallbacks) FindByToken(ctx context.Context, token string) (*entity.CallbackMapping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	mapping, ok := f.mappings[token]
	if !ok {
		return nil, repository.ErrMappingNotFound
	}
	return mapping, nil
}

func (f *fakeCallbacks) Delete(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.mappings, token)
	return nil
}

type fakeDocuments struct {
	files    map[string][]byte
	moved    []string
	finished map[string][]byte
}

func newFakeDocuments() *fakeDocuments {
	return &fakeDocuments{files: map[string][]byte{}, finished: map[string][]byte{}}
}

func (f *fakeDocuments) LoadDocument(filename string) ([]byte, error) {
	content, ok := f.files[filename]
	if !ok {
		return nil, fmt.Errorf("load %s: %w", filename, errDocumentMissing)
	}
	return content, nil
}

func (f *fakeDocuments) MoveToProgress(filename string) error {
	f.moved = append(f.moved, filename)
	return nil
}

func (f *fakeDocuments) SaveToFinishAndDeleteProgress(filename string, content []byte) (string, error) {
	f.finished[filename] = content
	return "/finish/" + filename, nil
}

func (f *fakeDocuments) GetReadyPath() string    { return "/ready" }
func (f *fakeDocuments) GetProgressPath() string { return "/progress" }
func (f *fakeDocuments) GetFinishPath() string   { return "/finish" }

var errDocumentMissing = errors.New("document missing")
