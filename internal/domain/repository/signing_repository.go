package repository

import (
	"context"

	"penneo-esign/internal/domain/entity"
)

// SigningRepository exposes the signing service resources as domain operations.
// Calls the service rejects report false or a nil entity; the reason is
// available from LatestResult.
type SigningRepository interface {
	// Persist creates e when it is new and updates it otherwise
	Persist(ctx context.Context, e entity.Entity) (bool, error)
	Delete(ctx context.Context, e entity.Entity) (bool, error)

	GetCaseFile(ctx context.Context, id int) (*entity.CaseFile, error)
	FindCaseFiles(ctx context.Context, query map[string]any, page, perPage *int) (bool, []*entity.CaseFile, error)
	GetCaseFileErrors(ctx context.Context, caseFile *entity.CaseFile) ([]string, error)
	GetCaseFileType(ctx context.Context, caseFile *entity.CaseFile) (*entity.CaseFileType, error)
	SendCaseFile(ctx context.Context, caseFile *entity.CaseFile) (*entity.ServerResult, error)
	ActivateCaseFile(ctx context.Context, caseFile *entity.CaseFile) (*entity.ServerResult, error)

	GetDocuments(ctx context.Context, caseFile *entity.CaseFile) (*entity.QueryResult[*entity.Document], error)
	GetDocumentPDF(ctx context.Context, document *entity.Document) ([]byte, error)
	MakeSignable(document *entity.Document)

	GetSigners(ctx context.Context, caseFile *entity.CaseFile) (*entity.QueryResult[*entity.Signer], error)
	// FindSigner fails with an error when the signer does not exist in the case file
	FindSigner(ctx context.Context, caseFile *entity.CaseFile, id int) (*entity.Signer, error)

	GetSignatureLines(ctx context.Context, document *entity.Document) (*entity.QueryResult[*entity.SignatureLine], error)
	SetSigner(ctx context.Context, line *entity.SignatureLine, signer *entity.Signer) (bool, error)
	UnsetSigner(ctx context.Context, line *entity.SignatureLine, signer *entity.Signer) (bool, error)

	// GetSigningRequest reads the request the service created for signer
	GetSigningRequest(ctx context.Context, signer *entity.Signer) (*entity.SigningRequest, error)
	GetSigningLink(ctx context.Context, request *entity.SigningRequest) (string, error)

	LatestResult(e entity.Entity) *entity.ServerResult
}
