package session

import (
	"context"
	"sync"
)

// Storage keys mirror the local storage keys of the original event page, so
// exported/debugged session dumps stay recognizable.
const (
	KeyIsLoggedIn         = "isLoggedIn"
	KeyUserInfo           = "userInfo"
	KeyCurrentStreak      = "currentStreak"
	KeyLastAttendanceDate = "lastAttendanceDate"
	KeyTotalDays          = "totalAttendanceDays"
	KeyCompletedMissions  = "completedMissions"
	KeyRankingData        = "rankingData"
)

// Store is a string-keyed, string-valued store scoped by session ID. Writes
// are best-effort and last-writer-wins; there is no transactional grouping
// across keys. Values may disappear at any time (TTL expiry, flushed Redis),
// and readers must fall back to defaults.
type Store interface {
	Get(ctx context.Context, sid, key string) (string, bool)
	Set(ctx context.Context, sid, key, value string)
	Delete(ctx context.Context, sid string, keys ...string)
	Clear(ctx context.Context, sid string)
}

// Memory is a mutex-guarded in-process Store, used when Redis is not
// configured and in tests. Single-instance only.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{sessions: map[string]map[string]string{}}
}

func (m *Memory) Get(_ context.Context, sid, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	kv, ok := m.sessions[sid]
	if !ok {
		return "", false
	}
	v, ok := kv[key]
	return v, ok
}

func (m *Memory) Set(_ context.Context, sid, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kv, ok := m.sessions[sid]
	if !ok {
		kv = map[string]string{}
		m.sessions[sid] = kv
	}
	kv[key] = value
}

func (m *Memory) Delete(_ context.Context, sid string, keys ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kv, ok := m.sessions[sid]
	if !ok {
		return
	}
	for _, k := range keys {
		delete(kv, k)
	}
}

func (m *Memory) Clear(_ context.Context, sid string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sid)
}
