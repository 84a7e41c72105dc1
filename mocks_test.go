package auth_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	auth "github.com/forgestack/go-auth"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

type testIdentity struct {
	id    string
	email string
}

func (t testIdentity) ID() string    { return t.id }
func (t testIdentity) Email() string { return t.email }

// memoryStore is an in-memory UserStore for orchestrator tests. It mirrors
// the repository contract: lookups miss with a record-not-found error and
// duplicate emails fail the way a unique index would.
type memoryStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*auth.User
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: map[uuid.UUID]*auth.User{}}
}

func (m *memoryStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}

	return nil, repository.NewRecordNotFound().
		WithMetadata(map[string]any{"email": email})
}

func (m *memoryStore) FindByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.users[id]; ok {
		clone := *u
		return &clone, nil
	}

	return nil, repository.NewRecordNotFound().
		WithMetadata(map[string]any{"id": id.String()})
}

func (m *memoryStore) Register(ctx context.Context, user *auth.User) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == user.Email {
			return nil, fmt.Errorf("UNIQUE constraint failed: users.email")
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	if user.CreatedAt == nil {
		user.CreatedAt = &now
	}

	clone := *user
	m.users[user.ID] = &clone

	return user, nil
}

func (m *memoryStore) remove(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

var _ auth.UserStore = (*memoryStore)(nil)

// failingStore forces Register to fail as if a concurrent registration won
// the unique index race after the existence pre-check passed.
type failingStore struct {
	*memoryStore
	registerErr error
}

func (f *failingStore) Register(ctx context.Context, user *auth.User) (*auth.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.memoryStore.Register(ctx, user)
}

// capturingLogger records formatted entries per level.
type capturingLogger struct {
	mu      sync.Mutex
	entries map[string][]string
}

func newCapturingLogger() *capturingLogger {
	return &capturingLogger{entries: map[string][]string{}}
}

func (l *capturingLogger) record(level, format string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[level] = append(l.entries[level], format)
}

func (l *capturingLogger) Debug(format string, args ...any) { l.record("debug", format) }
func (l *capturingLogger) Info(format string, args ...any)  { l.record("info", format) }
func (l *capturingLogger) Warn(format string, args ...any)  { l.record("warn", format) }
func (l *capturingLogger) Error(format string, args ...any) { l.record("error", format) }

func (l *capturingLogger) has(level, substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries[level] {
		if substr == "" || strings.Contains(strings.ToLower(e), strings.ToLower(substr)) {
			return true
		}
	}
	return false
}
