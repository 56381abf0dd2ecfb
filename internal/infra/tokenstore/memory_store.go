package tokenstore

import (
	"context"
	"sync"

	"pricing/internal/domain/entity"
	"pricing/internal/domain/service"
)

// memoryStore keeps the session for the lifetime of the process only.
type memoryStore struct {
	mu    sync.RWMutex
	token *string
	user  *entity.Profile
}

// NewMemoryStore returns an empty in-memory token store.
func NewMemoryStore() service.TokenStore {
	return &memoryStore{}
}

func (s *memoryStore) SetToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = &token

	return nil
}

func (s *memoryStore) Token(_ context.Context) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == nil {
		return "", false, nil
	}

	return *s.token, true, nil
}

func (s *memoryStore) SetUser(_ context.Context, profile *entity.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if profile == nil {
		s.user = nil

		return nil
	}

	stored := *profile
	s.user = &stored

	return nil
}

func (s *memoryStore) User(_ context.Context) (*entity.Profile, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil, false, nil
	}

	profile := *s.user

	return &profile, true, nil
}

func (s *memoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
	s.user = nil

	return nil
}
