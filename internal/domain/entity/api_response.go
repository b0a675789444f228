package entity

// Error codes of the HTTP API envelope
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeSigningRejected = "SIGNING_SERVICE_REJECTED"
	ErrCodeLogsDisabled    = "LOGS_DISABLED"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// APIResponse is the envelope of every HTTP API answer
type APIResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewSuccessResponse(data any, message string) *APIResponse {
	return &APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func NewErrorResponse(code, message string) *APIResponse {
	return &APIResponse{
		Message: message,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
	}
}
