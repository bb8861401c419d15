package cli

import (
	"context"
	"testing"

	"github.com/statutelabs/billchat/internal/adapters/driven/vectorstore/memory"
	"github.com/statutelabs/billchat/internal/core/domain"
	"github.com/statutelabs/billchat/internal/core/ports/driving"
)

// fakeChatService records calls and replies with a canned answer.
type fakeChatService struct {
	answer      domain.Answer
	err         error
	sessions    []string
	messages    []string
	clearedIDs  []string
	historyFunc func(sessionID string) []domain.Turn
}

func (f *fakeChatService) Answer(_ context.Context, sessionID, message string) (domain.Answer, error) {
	f.sessions = append(f.sessions, sessionID)
	f.messages = append(f.messages, message)
	if f.err != nil {
		return domain.Answer{}, f.err
	}
	answer := f.answer
	answer.SessionID = sessionID
	return answer, nil
}

func (f *fakeChatService) History(_ context.Context, sessionID string) ([]domain.Turn, error) {
	if f.historyFunc != nil {
		return f.historyFunc(sessionID), nil
	}
	return nil, nil
}

func (f *fakeChatService) ClearSession(_ context.Context, sessionID string) error {
	f.clearedIDs = append(f.clearedIDs, sessionID)
	return nil
}

// fakeIngestService records the options of the last run.
type fakeIngestService struct {
	stats driving.IngestStats
	err   error
	opts  []driving.IngestOptions
}

func (f *fakeIngestService) Ingest(_ context.Context, opts driving.IngestOptions) (driving.IngestStats, error) {
	f.opts = append(f.opts, opts)
	return f.stats, f.err
}

func (f *fakeIngestService) Watch(ctx context.Context, opts driving.IngestOptions) error {
	f.opts = append(f.opts, opts)
	<-ctx.Done()
	return ctx.Err()
}

// setupTestServices wires fakes into the package-level service slots so
// setup() skips building the real adapter stack.
func setupTestServices(t *testing.T) (*fakeChatService, *fakeIngestService, *memory.Index) {
	t.Helper()

	chat := &fakeChatService{answer: domain.Answer{Response: "canned response"}}
	ingest := &fakeIngestService{stats: driving.IngestStats{Documents: 2, Chunks: 9}}
	index := memory.NewIndex()

	chatService = chat
	ingestService = ingest
	vectorIndex = index

	t.Cleanup(func() {
		chatService = nil
		ingestService = nil
		vectorIndex = nil
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	return chat, ingest, index
}
