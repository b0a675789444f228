package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"penneo-esign/internal/domain/entity"
	"penneo-esign/internal/domain/repository"
	"penneo-esign/internal/infrastructure/document"
)

type CallbackUsecase interface {
	// HandleCallback processes the redirect of a signer back from the signing portal
	HandleCallback(ctx context.Context, token, outcome string) (*entity.CallbackResult, error)
}

type callbackUsecase struct {
	repo       repository.SigningRepository
	callbacks  repository.CallbackRepository
	docService document.DocumentService
	logger     *zap.Logger
}

func NewCallbackUsecase(
	repo repository.SigningRepository,
	callbacks repository.CallbackRepository,
	docService document.DocumentService,
	logger *zap.Logger,
) CallbackUsecase {
	return &callbackUsecase{
		repo:       repo,
		callbacks:  callbacks,
		docService: docService,
		logger:     logger,
	}
}

func (u *callbackUsecase) HandleCallback(ctx context.Context, token, outcome string) (*entity.CallbackResult, error) {
	if outcome != entity.CallbackSuccess && outcome != entity.CallbackFailure {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOutcome, outcome)
	}

	mapping, err := u.callbacks.FindByToken(ctx, token)
	if err != nil {
		u.logger.Warn("Unknown callback token", zap.String("token", token), zap.Error(err))
		return nil, err
	}

	u.logger.Info("Processing signer callback",
		zap.String("token", token),
		zap.String("outcome", outcome),
		zap.Int("case_file_id", mapping.CaseFileID),
		zap.String("email", mapping.Email),
	)

	result := &entity.CallbackResult{
		Token:      token,
		Outcome:    outcome,
		CaseFileID: mapping.CaseFileID,
	}

	caseFile, err := u.repo.GetCaseFile(ctx, mapping.CaseFileID)
	if err != nil {
		return nil, err
	}
	if caseFile == nil {
		return nil, fmt.Errorf("%w: %d", ErrCaseFileNotFound, mapping.CaseFileID)
	}
	result.CaseFileStatus = caseFile.Status.String()

	if outcome == entity.CallbackFailure {
		u.logger.Warn("Signer did not complete signing",
			zap.Int("case_file_id", mapping.CaseFileID),
			zap.Int("signer_id", mapping.SignerID),
			zap.String("case_file_status", result.CaseFileStatus),
		)
		return result, nil
	}

	// Other signers may still be pending
	if caseFile.Status != entity.CaseFileStatusCompleted {
		return result, nil
	}

	doc := &entity.Document{}
	doc.SetID(mapping.DocumentID)
	doc.SetParent(caseFile)

	content, err := u.repo.GetDocumentPDF(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to download signed document: %w", err)
	}
	if len(content) == 0 {
		return nil, rejected("download", doc, u.repo.LatestResult(doc))
	}

	path, err := u.docService.SaveToFinishAndDeleteProgress(mapping.DocumentName, content)
	if err != nil {
		return nil, err
	}
	result.SignedPDFSaved = true
	result.SignedPDFPath = path

	u.logger.Info("Signed document saved to finish folder",
		zap.Int("case_file_id", mapping.CaseFileID),
		zap.String("path", path),
		zap.Int("size_bytes", len(content)),
	)

	return result, nil
}
