package repository

import (
	"context"

	"go.uber.org/zap"

	"penneo-esign/internal/domain/entity"
	"penneo-esign/internal/domain/repository"
	"penneo-esign/internal/infrastructure/connector"
)

// Asset and action names of the signing service
const (
	assetSigningLink  = "link"
	assetDocumentPDF  = "pdf"
	assetErrors       = "errors"
	assetCaseFileType = "casefiletype"

	actionSend     = "send"
	actionActivate = "activate"
)

type signingRepository struct {
	conn   *connector.Connector
	logger *zap.Logger
}

func NewSigningRepository(conn *connector.Connector, logger *zap.Logger) repository.SigningRepository {
	return &signingRepository{
		conn:   conn,
		logger: logger,
	}
}

func (r *signingRepository) Persist(ctx context.Context, e entity.Entity) (bool, error) {
	return r.conn.WriteObject(ctx, e)
}

func (r *signingRepository) Delete(ctx context.Context, e entity.Entity) (bool, error) {
	return r.conn.DeleteObject(ctx, e)
}

func (r *signingRepository) GetCaseFile(ctx context.Context, id int) (*entity.CaseFile, error) {
	return connector.ReadObject[entity.CaseFile](ctx, r.conn, nil, &id, "")
}

func (r *signingRepository) FindCaseFiles(ctx context.Context, query map[string]any, page, perPage *int) (bool, []*entity.CaseFile, error) {
	return connector.FindBy[entity.CaseFile](ctx, r.conn, query, page, perPage)
}

func (r *signingRepository) GetCaseFileErrors(ctx context.Context, caseFile *entity.CaseFile) ([]string, error) {
	return r.conn.GetStringListAsset(ctx, caseFile, assetErrors)
}

func (r *signingRepository) GetCaseFileType(ctx context.Context, caseFile *entity.CaseFile) (*entity.CaseFileType, error) {
	return connector.GetAsset[*entity.CaseFileType](ctx, r.conn, caseFile, assetCaseFileType)
}

func (r *signingRepository) SendCaseFile(ctx context.Context, caseFile *entity.CaseFile) (*entity.ServerResult, error) {
	return r.conn.PerformAction(ctx, caseFile, actionSend)
}

func (r *signingRepository) ActivateCaseFile(ctx context.Context, caseFile *entity.CaseFile) (*entity.ServerResult, error) {
	return r.conn.PerformAction(ctx, caseFile, actionActivate)
}

func (r *signingRepository) GetDocuments(ctx context.Context, caseFile *entity.CaseFile) (*entity.QueryResult[*entity.Document], error) {
	return connector.GetLinkedEntities[entity.Document](ctx, r.conn, caseFile, "")
}

func (r *signingRepository) GetDocumentPDF(ctx context.Context, document *entity.Document) ([]byte, error) {
	return r.conn.GetFileAsset(ctx, document, assetDocumentPDF)
}

func (r *signingRepository) MakeSignable(document *entity.Document) {
	document.MakeSignable()
}

func (r *signingRepository) GetSigners(ctx context.Context, caseFile *entity.CaseFile) (*entity.QueryResult[*entity.Signer], error) {
	return connector.GetLinkedEntities[entity.Signer](ctx, r.conn, caseFile, "")
}

func (r *signingRepository) FindSigner(ctx context.Context, caseFile *entity.CaseFile, id int) (*entity.Signer, error) {
	return connector.FindLinkedEntity[entity.Signer](ctx, r.conn, caseFile, id)
}

func (r *signingRepository) GetSignatureLines(ctx context.Context, document *entity.Document) (*entity.QueryResult[*entity.SignatureLine], error) {
	return connector.GetLinkedEntities[entity.SignatureLine](ctx, r.conn, document, "")
}

func (r *signingRepository) SetSigner(ctx context.Context, line *entity.SignatureLine, signer *entity.Signer) (bool, error) {
	ok, err := r.conn.LinkEntity(ctx, line, signer)
	if err != nil || !ok {
		return ok, err
	}
	line.AssignSigner(signer)
	return true, nil
}

func (r *signingRepository) UnsetSigner(ctx context.Context, line *entity.SignatureLine, signer *entity.Signer) (bool, error) {
	ok, err := r.conn.UnlinkEntity(ctx, line, signer)
	if err != nil || !ok {
		return ok, err
	}
	if line.Signer() == signer {
		line.AssignSigner(nil)
	}
	return true, nil
}

func (r *signingRepository) GetSigningRequest(ctx context.Context, signer *entity.Signer) (*entity.SigningRequest, error) {
	request, err := connector.ReadObject[entity.SigningRequest](ctx, r.conn, signer, nil, "")
	if err != nil {
		return nil, err
	}
	if request == nil {
		r.logger.Warn("Signing request not available",
			zap.String("signer_id", entity.IDString(signer)),
		)
	}
	return request, nil
}

func (r *signingRepository) GetSigningLink(ctx context.Context, request *entity.SigningRequest) (string, error) {
	return r.conn.GetTextAsset(ctx, request, assetSigningLink)
}

func (r *signingRepository) LatestResult(e entity.Entity) *entity.ServerResult {
	return r.conn.LatestServerResult(e)
}
