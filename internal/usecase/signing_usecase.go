package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"penneo-esign/internal/config"
	"penneo-esign/internal/domain/entity"
	"penneo-esign/internal/domain/repository"
	"penneo-esign/internal/infrastructure/document"
)

// CallbackPath is the route signers are redirected to after signing
const CallbackPath = "/callback/signatures"

const defaultSignerRole = "Signer"

type SigningUsecase interface {
	// CreateSigningCase builds a case file for one PDF of the ready folder,
	// invites every signer and sends the case file unless told not to
	CreateSigningCase(ctx context.Context, req *entity.SigningCaseRequest) (*entity.SigningCaseResult, error)
	GetCaseFile(ctx context.Context, id int) (*entity.CaseFileSummary, error)
	FindCaseFiles(ctx context.Context, title string, page, perPage *int) ([]*entity.CaseFile, error)
}

type signingUsecase struct {
	config     *config.Config
	repo       repository.SigningRepository
	callbacks  repository.CallbackRepository
	docService document.DocumentService
	logger     *zap.Logger
}

func NewSigningUsecase(
	cfg *config.Config,
	repo repository.SigningRepository,
	callbacks repository.CallbackRepository,
	docService document.DocumentService,
	logger *zap.Logger,
) SigningUsecase {
	return &signingUsecase{
		config:     cfg,
		repo:       repo,
		callbacks:  callbacks,
		docService: docService,
		logger:     logger,
	}
}

// persist writes e and turns a rejection into a RejectedError
func (u *signingUsecase) persist(ctx context.Context, e entity.Entity) error {
	ok, err := u.repo.Persist(ctx, e)
	if err != nil {
		return fmt.Errorf("failed to persist %s: %w", e.Kind(), err)
	}
	if !ok {
		return rejected("persist", e, u.repo.LatestResult(e))
	}
	return nil
}

func (u *signingUsecase) callbackURL(token, outcome string) string {
	base := strings.TrimRight(u.config.App.BaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("http://localhost:%d", u.config.App.Port)
	}
	return fmt.Sprintf("%s%s/%s/%s", base, CallbackPath, token, outcome)
}

func (u *signingUsecase) CreateSigningCase(ctx context.Context, req *entity.SigningCaseRequest) (*entity.SigningCaseResult, error) {
	u.logger.Info("Creating signing case",
		zap.String("title", req.Title),
		zap.String("document_name", req.DocumentName),
		zap.Int("signers_count", len(req.Signers)),
	)

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	content, err := u.docService.LoadDocument(req.DocumentName)
	if err != nil {
		u.logger.Error("Failed to load document", zap.String("document_name", req.DocumentName), zap.Error(err))
		return nil, err
	}

	caseFile := entity.NewCaseFile(req.Title)
	caseFile.Reference = req.Reference
	if req.ExpireAt != nil {
		caseFile.ExpireAt = entity.NewTimestamp(*req.ExpireAt)
	}
	if err := u.persist(ctx, caseFile); err != nil {
		return nil, err
	}

	result, err := u.fillCaseFile(ctx, caseFile, req, content)
	if err != nil {
		u.discard(ctx, caseFile, result)
		return nil, err
	}

	if err := u.docService.MoveToProgress(req.DocumentName); err != nil {
		// The case file exists remotely, keep going
		u.logger.Warn("Failed to move document to progress",
			zap.String("document_name", req.DocumentName),
			zap.Error(err),
		)
	}

	u.logger.Info("Signing case created",
		zap.Int("case_file_id", result.CaseFileID),
		zap.Int("document_id", result.DocumentID),
		zap.Bool("sent", result.Sent),
	)

	return result, nil
}

// fillCaseFile adds the document and signers to a persisted case file and
// sends it when asked. The result holds what was created before a failure.
func (u *signingUsecase) fillCaseFile(
	ctx context.Context,
	caseFile *entity.CaseFile,
	req *entity.SigningCaseRequest,
	content []byte,
) (*entity.SigningCaseResult, error) {
	result := &entity.SigningCaseResult{CaseFileID: *caseFile.ID()}

	docTitle := req.DocumentTitle
	if docTitle == "" {
		docTitle = strings.TrimSuffix(req.DocumentName, ".pdf")
	}
	doc := entity.NewDocument(caseFile, docTitle, content)
	u.repo.MakeSignable(doc)
	if err := u.persist(ctx, doc); err != nil {
		return result, err
	}
	result.DocumentID = *doc.ID()
	result.Signers = make([]entity.SigningCaseLink, 0, len(req.Signers))

	for i, s := range req.Signers {
		link, err := u.inviteSigner(ctx, caseFile, doc, req.DocumentName, s, i)
		if err != nil {
			u.logger.Error("Failed to invite signer",
				zap.Int("case_file_id", result.CaseFileID),
				zap.String("email", s.Email),
				zap.Error(err),
			)
			return result, fmt.Errorf("signer %d: %w", i+1, err)
		}
		result.Signers = append(result.Signers, *link)
	}

	status := caseFile.Status
	if req.ShouldSend() {
		errs, err := u.repo.GetCaseFileErrors(ctx, caseFile)
		if err != nil {
			return result, fmt.Errorf("failed to check case file: %w", err)
		}
		if len(errs) > 0 {
			return result, fmt.Errorf("%w: case file %d: %s", ErrInvalidRequest, result.CaseFileID, strings.Join(errs, "; "))
		}

		sent, err := u.repo.SendCaseFile(ctx, caseFile)
		if err != nil {
			return result, fmt.Errorf("failed to send case file: %w", err)
		}
		if !sent.Success {
			return result, rejected("send", caseFile, sent)
		}
		result.Sent = true
		status = entity.CaseFileStatusPending
	}
	result.Status = status.String()

	return result, nil
}

// discard deletes a case file left half built, along with the callback
// mappings of the signers invited so far. Failures are only logged.
func (u *signingUsecase) discard(ctx context.Context, caseFile *entity.CaseFile, result *entity.SigningCaseResult) {
	ctx = context.WithoutCancel(ctx)

	for _, link := range result.Signers {
		if err := u.callbacks.Delete(ctx, link.CallbackToken); err != nil {
			u.logger.Warn("Failed to delete callback mapping",
				zap.String("token", link.CallbackToken),
				zap.Error(err),
			)
		}
	}

	ok, err := u.repo.Delete(ctx, caseFile)
	switch {
	case err != nil:
		u.logger.Warn("Failed to delete unfinished case file", zap.Int("case_file_id", result.CaseFileID), zap.Error(err))
	case !ok:
		u.logger.Warn("Unfinished case file was not deleted",
			zap.Int("case_file_id", result.CaseFileID),
			zap.Any("result", u.repo.LatestResult(caseFile)),
		)
	default:
		u.logger.Info("Deleted unfinished case file", zap.Int("case_file_id", result.CaseFileID))
	}
}

// inviteSigner creates the signer and its signature line, links them and
// points the signing request back at this service
func (u *signingUsecase) inviteSigner(
	ctx context.Context,
	caseFile *entity.CaseFile,
	doc *entity.Document,
	documentName string,
	s entity.SigningCaseSigner,
	index int,
) (*entity.SigningCaseLink, error) {
	signer := entity.NewSigner(caseFile, s.Name)
	signer.OnBehalfOf = s.OnBehalfOf
	if err := u.persist(ctx, signer); err != nil {
		return nil, err
	}

	role := s.Role
	if role == "" {
		role = defaultSignerRole
	}
	line := entity.NewSignatureLine(doc, role)
	line.SignOrder = s.SignOrder
	if line.SignOrder == 0 {
		line.SignOrder = index
	}
	if err := u.persist(ctx, line); err != nil {
		return nil, err
	}

	ok, err := u.repo.SetSigner(ctx, line, signer)
	if err != nil {
		return nil, fmt.Errorf("failed to link signer: %w", err)
	}
	if !ok {
		return nil, rejected("link", line, u.repo.LatestResult(line))
	}

	request, err := u.repo.GetSigningRequest(ctx, signer)
	if err != nil {
		return nil, fmt.Errorf("failed to get signing request: %w", err)
	}
	if request == nil {
		return nil, rejected("read signing request of", signer, u.repo.LatestResult(signer))
	}

	token := uuid.NewString()
	request.Email = s.Email
	request.EmailSubject = s.EmailSubject
	request.EmailText = s.EmailText
	request.SuccessURL = u.callbackURL(token, entity.CallbackSuccess)
	request.FailURL = u.callbackURL(token, entity.CallbackFailure)
	if err := u.persist(ctx, request); err != nil {
		return nil, err
	}

	link, err := u.repo.GetSigningLink(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("failed to get signing link: %w", err)
	}

	mapping := &entity.CallbackMapping{
		Token:            token,
		CaseFileID:       *caseFile.ID(),
		DocumentID:       *doc.ID(),
		SignerID:         *signer.ID(),
		SigningRequestID: *request.ID(),
		Email:            s.Email,
		DocumentName:     documentName,
		CreatedAt:        time.Now(),
	}
	if err := u.callbacks.Save(ctx, mapping); err != nil {
		return nil, err
	}

	return &entity.SigningCaseLink{
		SignerID:         mapping.SignerID,
		SigningRequestID: mapping.SigningRequestID,
		Name:             s.Name,
		Email:            s.Email,
		Link:             link,
		CallbackToken:    token,
	}, nil
}

func (u *signingUsecase) GetCaseFile(ctx context.Context, id int) (*entity.CaseFileSummary, error) {
	caseFile, err := u.repo.GetCaseFile(ctx, id)
	if err != nil {
		return nil, err
	}
	if caseFile == nil {
		return nil, fmt.Errorf("%w: %d", ErrCaseFileNotFound, id)
	}

	summary := &entity.CaseFileSummary{
		CaseFile:  caseFile,
		Status:    caseFile.Status.String(),
		Documents: []*entity.Document{},
		Signers:   []*entity.Signer{},
	}

	docs, err := u.repo.GetDocuments(ctx, caseFile)
	if err != nil {
		return nil, err
	}
	if docs.Success {
		summary.Documents = docs.Objects
	} else {
		u.logger.Warn("Documents not available", zap.Int("case_file_id", id), zap.Int("status", docs.StatusCode))
	}

	signers, err := u.repo.GetSigners(ctx, caseFile)
	if err != nil {
		return nil, err
	}
	if signers.Success {
		summary.Signers = signers.Objects
	} else {
		u.logger.Warn("Signers not available", zap.Int("case_file_id", id), zap.Int("status", signers.StatusCode))
	}

	if caseFile.Status == entity.CaseFileStatusNew {
		summary.Errors, err = u.repo.GetCaseFileErrors(ctx, caseFile)
		if err != nil {
			return nil, err
		}
	}
	summary.Result = u.repo.LatestResult(caseFile)

	return summary, nil
}

func (u *signingUsecase) FindCaseFiles(ctx context.Context, title string, page, perPage *int) ([]*entity.CaseFile, error) {
	var query map[string]any
	if title != "" {
		query = map[string]any{"Title": title}
	}

	found, caseFiles, err := u.repo.FindCaseFiles(ctx, query, page, perPage)
	if err != nil {
		return nil, err
	}
	if !found {
		return []*entity.CaseFile{}, nil
	}
	return caseFiles, nil
}
