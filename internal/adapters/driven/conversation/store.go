// Package conversation provides an in-memory, capacity-bounded
// conversation store keyed by session ID.
//
// The store is injected into the chat service rather than shared as a
// package-level singleton, which keeps the pipeline testable and makes
// concurrent access safe by construction.
package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/statutelabs/billchat/internal/core/domain"
	"github.com/statutelabs/billchat/internal/core/ports/driven"
	"github.com/statutelabs/billchat/internal/logger"
)

// Ensure MemoryStore implements the interface.
var _ driven.ConversationStore = (*MemoryStore)(nil)

// DefaultMaxTurns is the default number of question/answer exchanges
// retained per session. Each exchange is two messages.
const DefaultMaxTurns = 5

// sessionInfo tracks bookkeeping metadata for one session.
type sessionInfo struct {
	createdAt    time.Time
	lastActive   time.Time
	messageCount int
}

// MemoryStore keeps bounded per-session history in memory.
type MemoryStore struct {
	mu       sync.RWMutex
	maxTurns int
	sessions map[string][]domain.Turn
	info     map[string]sessionInfo
}

// NewMemoryStore creates a conversation store retaining maxTurns
// exchanges per session. Non-positive values use DefaultMaxTurns.
func NewMemoryStore(maxTurns int) *MemoryStore {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &MemoryStore{
		maxTurns: maxTurns,
		sessions: make(map[string][]domain.Turn),
		info:     make(map[string]sessionInfo),
	}
}

// Append records a turn at the end of the session's history, pruning
// the oldest messages once the retention bound is exceeded.
func (s *MemoryStore) Append(_ context.Context, sessionID string, turn domain.Turn) error {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = append(s.sessions[sessionID], turn)

	meta, ok := s.info[sessionID]
	if !ok {
		meta.createdAt = time.Now()
	}
	meta.lastActive = time.Now()
	meta.messageCount++
	s.info[sessionID] = meta

	// Two messages per exchange
	max := s.maxTurns * 2
	if len(s.sessions[sessionID]) > max {
		s.sessions[sessionID] = s.sessions[sessionID][len(s.sessions[sessionID])-max:]
	}

	return nil
}

// Recent returns up to limit most recent turns in chronological order.
// A limit <= 0 returns the full retained history.
func (s *MemoryStore) Recent(_ context.Context, sessionID string, limit int) ([]domain.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.sessions[sessionID]
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}

	out := make([]domain.Turn, len(history))
	copy(out, history)
	return out, nil
}

// Clear removes all history for the session.
func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	delete(s.info, sessionID)
	return nil
}

// Sessions returns the IDs of all sessions with retained history.
func (s *MemoryStore) Sessions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

// StartCleanup launches a background sweeper that removes sessions
// idle longer than maxIdle, checking every interval. The returned
// function stops the sweeper and is safe to call more than once.
func (s *MemoryStore) StartCleanup(interval, maxIdle time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if removed := s.CleanupIdle(maxIdle); removed > 0 {
					logger.Debug("Expired %d idle sessions", removed)
				}
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

// CleanupIdle removes sessions whose last activity is older than maxIdle
// and returns how many were removed.
func (s *MemoryStore) CleanupIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, meta := range s.info {
		if meta.lastActive.Before(cutoff) {
			delete(s.sessions, id)
			delete(s.info, id)
			removed++
		}
	}
	return removed
}
