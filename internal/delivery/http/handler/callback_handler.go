package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"penneo-esign/internal/domain/entity"
	"penneo-esign/internal/usecase"
)

type CallbackHandler struct {
	usecase usecase.CallbackUsecase
	logger  *zap.Logger
}

func NewCallbackHandler(usecase usecase.CallbackUsecase, logger *zap.Logger) *CallbackHandler {
	return &CallbackHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// SignatureCallback godoc
// @Summary Signer redirect
// @Description Receives the browser redirect of a signer leaving the signing portal
// @Tags callback
// @Produce json
// @Param token path string true "Callback token"
// @Param outcome path string true "success or failure"
// @Success 200 {object} entity.APIResponse
// @Failure 400 {object} entity.APIResponse
// @Failure 404 {object} entity.APIResponse
// @Failure 500 {object} entity.APIResponse
// @Router /callback/signatures/{token}/{outcome} [get]
func (h *CallbackHandler) SignatureCallback(c *fiber.Ctx) error {
	ctx := c.UserContext()

	token := c.Params("token")
	outcome := c.Params("outcome")

	h.logger.Info("Received signer callback",
		zap.String("token", token),
		zap.String("outcome", outcome),
	)

	result, err := h.usecase.HandleCallback(ctx, token, outcome)
	if err != nil {
		h.logger.Error("Failed to process signer callback",
			zap.String("token", token),
			zap.Error(err),
		)
		return writeError(c, err)
	}

	message := "Callback processed successfully"
	if result.SignedPDFSaved {
		message = "Signed document saved"
	}
	return c.JSON(entity.NewSuccessResponse(result, message))
}
