package usecase

import (
	"errors"
	"fmt"

	"penneo-esign/internal/domain/entity"
)

var (
	// ErrInvalidRequest wraps validation failures of incoming requests
	ErrInvalidRequest = errors.New("invalid request")

	// ErrCaseFileNotFound is returned when the signing service has no such case file
	ErrCaseFileNotFound = errors.New("case file not found")

	// ErrInvalidOutcome is returned for callback outcomes other than success and failure
	ErrInvalidOutcome = errors.New("invalid callback outcome")
)

// RejectedError reports an operation the signing service refused
type RejectedError struct {
	Operation  string
	Kind       entity.Kind
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s rejected by signing service: status=%d", e.Operation, e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("%s %s rejected by signing service: status=%d, message=%s", e.Operation, e.Kind, e.StatusCode, e.Message)
}

func rejected(operation string, e entity.Entity, result *entity.ServerResult) error {
	err := &RejectedError{Operation: operation, Kind: e.Kind()}
	if result != nil {
		err.StatusCode = result.StatusCode
		err.Message = result.ErrorMessage
	}
	return err
}
