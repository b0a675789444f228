package connector

import (
	"sync"

	"github.com/google/uuid"

	"penneo-esign/internal/domain/entity"
)

// resultStore keeps the latest server result per entity token.
// One lock guards reads and writes for all entities, including the lazy
// token assignment of entities that have none yet.
type resultStore struct {
	mu      sync.Mutex
	results map[uuid.UUID]entity.ServerResult
}

func newResultStore() *resultStore {
	return &resultStore{
		results: make(map[uuid.UUID]entity.ServerResult),
	}
}

func (s *resultStore) set(e entity.Entity, result *entity.ServerResult) {
	if e == nil || result == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[e.Token()] = *result
}

func (s *resultStore) get(e entity.Entity) *entity.ServerResult {
	if e == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	result, ok := s.results[e.Token()]
	if !ok {
		return nil
	}
	return &result
}
