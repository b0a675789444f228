package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"penneo-esign/internal/domain/entity"
)

func TestAPILogRepository_Disabled(t *testing.T) {
	repo := NewAPILogRepository(nil, zap.NewNop())
	ctx := context.Background()

	assert.NoError(t, repo.Save(ctx, &entity.APILog{Endpoint: "casefiles"}))

	_, err := repo.FindAll(ctx, 10)
	assert.ErrorIs(t, err, ErrLogsDisabled)

	_, err = repo.FindByEndpoint(ctx, "casefiles", 10)
	assert.ErrorIs(t, err, ErrLogsDisabled)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 50, clampLimit(0))
	assert.Equal(t, 50, clampLimit(-3))
	assert.Equal(t, 10, clampLimit(10))
	assert.Equal(t, MaxLogLimit, clampLimit(5000))
}
