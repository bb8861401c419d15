package driven

import (
	"context"

	"github.com/statutelabs/billchat/internal/core/domain"
)

// ConversationStore keeps bounded per-session message history.
//
// Retention policy (max turns, pruning, expiry) is the store's
// responsibility; the core only appends and reads recent windows.
// Session keys are opaque strings and never interleave.
type ConversationStore interface {
	// Append records a turn at the end of the session's history.
	Append(ctx context.Context, sessionID string, turn domain.Turn) error

	// Recent returns up to limit most recent turns in chronological
	// order. A limit <= 0 returns the full retained history.
	Recent(ctx context.Context, sessionID string, limit int) ([]domain.Turn, error)

	// Clear removes all history for the session.
	Clear(ctx context.Context, sessionID string) error
}
