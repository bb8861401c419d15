package driving

import (
	"context"

	"github.com/statutelabs/billchat/internal/core/domain"
)

// ChatService answers questions about the indexed corpus.
type ChatService interface {
	// Answer runs the decide/retrieve/generate pipeline for one user
	// message and returns a structured answer with citations. The user
	// turn and the assistant turn are appended to the session history
	// after the pipeline completes, on every branch.
	Answer(ctx context.Context, sessionID, message string) (domain.Answer, error)

	// History returns the retained conversation for a session.
	History(ctx context.Context, sessionID string) ([]domain.Turn, error)

	// ClearSession removes all conversation history for a session.
	ClearSession(ctx context.Context, sessionID string) error
}
