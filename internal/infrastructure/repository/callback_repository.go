package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"penneo-esign/internal/config"
	"penneo-esign/internal/domain/entity"
	"penneo-esign/internal/domain/repository"
	"penneo-esign/internal/infrastructure/redis"
)

const callbackKeyPrefix = "penneo:callback:"

// KeyValueStore is the part of the redis client the callback repository uses
type KeyValueStore interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type callbackRepository struct {
	store  KeyValueStore
	ttl    time.Duration
	logger *zap.Logger
}

func NewCallbackRepository(cfg *config.Config, redisClient *redis.RedisClient, logger *zap.Logger) repository.CallbackRepository {
	return newCallbackRepository(redisClient, cfg.Callback.MappingTTL, logger)
}

func newCallbackRepository(store KeyValueStore, ttl time.Duration, logger *zap.Logger) *callbackRepository {
	return &callbackRepository{
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *callbackRepository) Save(ctx context.Context, mapping *entity.CallbackMapping) error {
	if mapping.Token == "" {
		return errors.New("callback mapping without token")
	}
	if mapping.CreatedAt.IsZero() {
		mapping.CreatedAt = time.Now()
	}

	data, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal callback mapping: %w", err)
	}

	key := callbackKeyPrefix + mapping.Token
	if err := r.store.Set(ctx, key, string(data), r.ttl); err != nil {
		r.logger.Error("Failed to save callback mapping to Redis",
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save callback mapping: %w", err)
	}

	r.logger.Info("Callback mapping saved to Redis",
		zap.String("key", key),
		zap.Int("case_file_id", mapping.CaseFileID),
		zap.Int("signer_id", mapping.SignerID),
	)
	return nil
}

func (r *callbackRepository) FindByToken(ctx context.Context, token string) (*entity.CallbackMapping, error) {
	key := callbackKeyPrefix + token

	cached, err := r.store.Get(ctx, key)
	if errors.Is(err, redis.Nil) || (err == nil && cached == "") {
		return nil, fmt.Errorf("%w: %s", repository.ErrMappingNotFound, token)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get callback mapping: %w", err)
	}

	var mapping entity.CallbackMapping
	if err := json.Unmarshal([]byte(cached), &mapping); err != nil {
		return nil, fmt.Errorf("failed to unmarshal callback mapping: %w", err)
	}
	return &mapping, nil
}

func (r *callbackRepository) Delete(ctx context.Context, token string) error {
	if err := r.store.Del(ctx, callbackKeyPrefix+token); err != nil {
		return fmt.Errorf("failed to delete callback mapping: %w", err)
	}
	return nil
}
