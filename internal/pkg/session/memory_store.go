package session

import (
	"context"
	"sync"
	"time"
)

type attempts struct {
	count     int64
	expiresAt time.Time
}

// MemoryStore is the single-instance fallback used without Redis.
type MemoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	logins  map[string]attempts
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		revoked: make(map[string]time.Time),
		logins:  make(map[string]attempts),
		now:     time.Now,
	}
}

func (s *MemoryStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	s.revoked[jti] = s.now().Add(ttl)
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.revoked[jti]
	return ok && s.now().Before(exp), nil
}

func (s *MemoryStore) CheckLoginAttempt(_ context.Context, ip, email string) (bool, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := loginKey(ip, email)
	a := s.logins[key]
	if a.count == 0 || !s.now().Before(a.expiresAt) {
		a = attempts{expiresAt: s.now().Add(loginWindow)}
	}
	a.count++
	s.logins[key] = a

	remaining := maxLoginAttempts - a.count
	if remaining < 0 {
		remaining = 0
	}
	return a.count <= maxLoginAttempts, remaining, nil
}

func (s *MemoryStore) ResetLoginAttempts(_ context.Context, ip, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.logins, loginKey(ip, email))
	return nil
}

// sweepLocked drops expired revocations. Callers hold mu.
func (s *MemoryStore) sweepLocked() {
	now := s.now()
	for jti, exp := range s.revoked {
		if !now.Before(exp) {
			delete(s.revoked, jti)
		}
	}
}
