package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"penneo-esign/internal/config"
	"penneo-esign/internal/domain/entity"
)

// Version is reported by the health check
const Version = "1.0.0"

type HealthHandler struct {
	config *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{config: cfg}
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Endpoint  string    `json:"endpoint"`
	AuthType  string    `json:"auth_type"`
}

// Health godoc
// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} entity.APIResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	authType := h.config.Penneo.AuthType
	if authType == "" {
		authType = config.AuthTypeWSSE
	}
	return c.JSON(entity.NewSuccessResponse(HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   Version,
		Endpoint:  h.config.Penneo.Endpoint,
		AuthType:  authType,
	}, "Service is healthy"))
}
