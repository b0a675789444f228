package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"penneo-esign/internal/domain/entity"
	"penneo-esign/internal/domain/repository"
	"penneo-esign/internal/infrastructure/connector"
	"penneo-esign/internal/infrastructure/document"
	"penneo-esign/internal/usecase"
)

type CaseFileHandler struct {
	usecase usecase.SigningUsecase
	logger  *zap.Logger
}

func NewCaseFileHandler(usecase usecase.SigningUsecase, logger *zap.Logger) *CaseFileHandler {
	return &CaseFileHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// Create godoc
// @Summary Create a signing case
// @Description Build a case file for a PDF of the ready folder, invite the signers and send it
// @Tags casefiles
// @Accept json
// @Produce json
// @Param request body entity.SigningCaseRequest true "Signing case request"
// @Success 201 {object} entity.APIResponse
// @Failure 400 {object} entity.APIResponse
// @Failure 404 {object} entity.APIResponse
// @Failure 502 {object} entity.APIResponse
// @Failure 500 {object} entity.APIResponse
// @Router /api/v1/casefiles [post]
func (h *CaseFileHandler) Create(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req entity.SigningCaseRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse(entity.ErrCodeBadRequest, "Invalid request body"),
		)
	}

	result, err := h.usecase.CreateSigningCase(ctx, &req)
	if err != nil {
		h.logger.Error("Failed to create signing case", zap.Error(err))
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(
		entity.NewSuccessResponse(result, "Signing case created successfully"),
	)
}

// List godoc
// @Summary Find case files
// @Description Find case files by title, one page at a time
// @Tags casefiles
// @Produce json
// @Param title query string false "Title to match"
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Success 200 {object} entity.APIResponse
// @Failure 400 {object} entity.APIResponse
// @Failure 500 {object} entity.APIResponse
// @Router /api/v1/casefiles [get]
func (h *CaseFileHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()

	page, err := optionalInt(c, "page")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse(entity.ErrCodeBadRequest, "page must be a number"),
		)
	}
	perPage, err := optionalInt(c, "per_page")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse(entity.ErrCodeBadRequest, "per_page must be a number"),
		)
	}

	caseFiles, err := h.usecase.FindCaseFiles(ctx, c.Query("title"), page, perPage)
	if err != nil {
		h.logger.Error("Failed to find case files", zap.Error(err))
		return writeError(c, err)
	}

	return c.JSON(entity.NewSuccessResponse(caseFiles, "Case files retrieved successfully"))
}

// Get godoc
// @Summary Get a case file
// @Description Get a case file with its documents, signers and validation errors
// @Tags casefiles
// @Produce json
// @Param id path int true "Case file ID"
// @Success 200 {object} entity.APIResponse
// @Failure 400 {object} entity.APIResponse
// @Failure 404 {object} entity.APIResponse
// @Failure 500 {object} entity.APIResponse
// @Router /api/v1/casefiles/{id} [get]
func (h *CaseFileHandler) Get(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse(entity.ErrCodeBadRequest, "Invalid case file id"),
		)
	}

	summary, err := h.usecase.GetCaseFile(ctx, id)
	if err != nil {
		h.logger.Error("Failed to get case file", zap.Int("id", id), zap.Error(err))
		return writeError(c, err)
	}

	return c.JSON(entity.NewSuccessResponse(summary, "Case file retrieved successfully"))
}

func optionalInt(c *fiber.Ctx, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// writeError maps usecase errors onto HTTP statuses
func writeError(c *fiber.Ctx, err error) error {
	var rejectedErr *usecase.RejectedError

	switch {
	case errors.Is(err, usecase.ErrInvalidRequest),
		errors.Is(err, usecase.ErrInvalidOutcome),
		errors.Is(err, document.ErrInvalidFilename),
		errors.Is(err, connector.ErrInvalidPagination),
		errors.Is(err, connector.ErrInvalidQuery):
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse(entity.ErrCodeBadRequest, err.Error()),
		)
	case errors.Is(err, usecase.ErrCaseFileNotFound),
		errors.Is(err, repository.ErrMappingNotFound),
		errors.Is(err, document.ErrDocumentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(
			entity.NewErrorResponse(entity.ErrCodeNotFound, err.Error()),
		)
	case errors.As(err, &rejectedErr):
		return c.Status(fiber.StatusBadGateway).JSON(
			entity.NewErrorResponse(entity.ErrCodeSigningRejected, err.Error()),
		)
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(
			entity.NewErrorResponse(entity.ErrCodeInternal, err.Error()),
		)
	}
}
