package repository

import (
	"context"
	"sync"
	"time"

	"github.com/zhengdechang/auth-service/internal/auth"
	"github.com/zhengdechang/auth-service/internal/model"
)

// MemorySessionStore is a map-backed auth.SessionStore for tests and
// single-process deployments. A store-wide mutex serializes all writes, which
// satisfies the per-principal atomicity contract.
type MemorySessionStore struct {
	mu   sync.Mutex
	recs map[string]model.SessionRecord
	now  func() time.Time
}

var _ auth.SessionStore = (*MemorySessionStore)(nil)

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{recs: make(map[string]model.SessionRecord), now: time.Now}
}

// WithClock overrides the time source used for record timestamps.
func (s *MemorySessionStore) WithClock(now func() time.Time) *MemorySessionStore {
	s.now = now
	return s
}

func (s *MemorySessionStore) Get(_ context.Context, principalID string) (model.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[principalID]
	if !ok {
		return model.SessionRecord{}, auth.ErrSessionNotFound
	}
	return rec, nil
}

func (s *MemorySessionStore) UpsertAccess(_ context.Context, principalID, access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.ensure(principalID)
	rec.AccessToken = &access
	rec.UpdatedAt = s.now().UTC()
	s.recs[principalID] = rec
	return nil
}

func (s *MemorySessionStore) UpsertRefresh(_ context.Context, principalID, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.ensure(principalID)
	rec.RefreshToken = &refresh
	rec.UpdatedAt = s.now().UTC()
	s.recs[principalID] = rec
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, principalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recs, principalID)
	return nil
}

// ensure returns the existing record or a new one stamped with the current
// clock. Callers must hold the mutex.
func (s *MemorySessionStore) ensure(principalID string) model.SessionRecord {
	if rec, ok := s.recs[principalID]; ok {
		return rec
	}
	now := s.now().UTC()
	return model.SessionRecord{PrincipalID: principalID, CreatedAt: now, UpdatedAt: now}
}
