package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"penneo-esign/internal/domain/entity"
	"penneo-esign/internal/infrastructure/repository"
)

type LogHandler struct {
	logRepo repository.APILogRepository
}

func NewLogHandler(logRepo repository.APILogRepository) *LogHandler {
	return &LogHandler{logRepo: logRepo}
}

// GetLogs returns the latest signing API calls
func (h *LogHandler) GetLogs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit > repository.MaxLogLimit {
		limit = repository.MaxLogLimit
	}

	logs, err := h.logRepo.FindAll(c.UserContext(), limit)
	if err != nil {
		return logError(c, err)
	}

	return c.JSON(entity.NewSuccessResponse(logs, "Logs retrieved successfully"))
}

// SearchLogs returns the calls whose URL contains the endpoint parameter
func (h *LogHandler) SearchLogs(c *fiber.Ctx) error {
	endpoint := c.Query("endpoint")
	if endpoint == "" {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse(entity.ErrCodeBadRequest, "endpoint parameter required"),
		)
	}

	logs, err := h.logRepo.FindByEndpoint(c.UserContext(), endpoint, c.QueryInt("limit", 50))
	if err != nil {
		return logError(c, err)
	}

	return c.JSON(entity.NewSuccessResponse(logs, "Logs retrieved successfully"))
}

func logError(c *fiber.Ctx, err error) error {
	if errors.Is(err, repository.ErrLogsDisabled) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(
			entity.NewErrorResponse(entity.ErrCodeLogsDisabled, err.Error()),
		)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(
		entity.NewErrorResponse(entity.ErrCodeInternal, err.Error()),
	)
}
