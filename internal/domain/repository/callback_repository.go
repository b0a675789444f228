package repository

import (
	"context"
	"errors"

	"penneo-esign/internal/domain/entity"
)

// ErrMappingNotFound is returned when no callback mapping exists for a token
var ErrMappingNotFound = errors.New("callback mapping not found")

type CallbackRepository interface {
	// Save stores the mapping under its token
	Save(ctx context.Context, mapping *entity.CallbackMapping) error

	// FindByToken returns ErrMappingNotFound when the token is unknown or expired
	FindByToken(ctx context.Context, token string) (*entity.CallbackMapping, error)

	Delete(ctx context.Context, token string) error
}
