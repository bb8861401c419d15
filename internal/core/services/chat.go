package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/statutelabs/billchat/internal/core/domain"
	"github.com/statutelabs/billchat/internal/core/ports/driven"
	"github.com/statutelabs/billchat/internal/core/ports/driving"
	"github.com/statutelabs/billchat/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// Pipeline stages. Each request walks Decide -> (Retrieve) -> Generate.
type stage int

const (
	stageDecide stage = iota
	stageRetrieve
	stageGenerate
	stageDone
)

const (
	// decisionMaxTokens bounds the retrieval-decision completion.
	decisionMaxTokens = 50

	// decisionHistoryTurns is how many recent turns the decision
	// prompt sees.
	decisionHistoryTurns = 3

	// contextContentLimit bounds per-chunk content in the grounded
	// prompt, in characters.
	contextContentLimit = 1500

	// noResultsResponse is returned when retrieval was wanted but
	// nothing cleared the similarity threshold. Generation is skipped
	// so the model cannot answer without grounding.
	noResultsResponse = "I apologize, but I couldn't find specific sections in the official Tax Reform Bills " +
		"that directly answer your question. I am programmed to rely strictly on the provided documents " +
		"to ensure accuracy. Please try asking about a specific tax type (e.g., 'What is the new VAT rate?' " +
		"or 'Explain Company Income Tax')."

	// generationFailedResponse is returned when the model call fails.
	generationFailedResponse = "Sorry, I encountered an error generating a response."
)

// Greeting and gratitude markers that skip retrieval without asking
// the model. Matched case-insensitively as substrings.
var (
	greetingMarkers = []string{"hello", "hi", "hey", "good morning", "good afternoon"}
	thanksMarkers   = []string{"thank", "thanks", "appreciate"}
)

// ChatConfig tunes the answer pipeline.
type ChatConfig struct {
	TopK        int
	Threshold   float64
	MaxHistory  int
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// DefaultChatConfig returns the standard pipeline tuning.
func DefaultChatConfig() ChatConfig {
	return ChatConfig{
		TopK:        5,
		Threshold:   0.35,
		MaxHistory:  5,
		Temperature: 0.1,
		TopP:        0.95,
		MaxTokens:   2048,
	}
}

// ChatService runs the decide/retrieve/generate pipeline over the
// indexed corpus.
type ChatService struct {
	llm      driven.LLMService
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	history  driven.ConversationStore
	prompts  driven.PromptStore
	cfg      ChatConfig
}

// NewChatService creates the answer pipeline service.
func NewChatService(
	llm driven.LLMService,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	history driven.ConversationStore,
	prompts driven.PromptStore,
	cfg ChatConfig,
) *ChatService {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultChatConfig().TopK
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = DefaultChatConfig().MaxHistory
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultChatConfig().MaxTokens
	}
	return &ChatService{
		llm:      llm,
		embedder: embedder,
		index:    index,
		history:  history,
		prompts:  prompts,
		cfg:      cfg,
	}
}

// answerState is the per-request working record threaded through the
// pipeline stages. It is created fresh per request and discarded after
// the response is returned; only the two new turns survive, in the
// conversation store.
type answerState struct {
	sessionID string
	message   string
	history   []domain.Turn
	retrieve  bool
	retrieved []domain.Retrieval
	response  string
	sources   []domain.Source
}

// Answer runs the pipeline for one user message. Every failure mode
// inside the pipeline maps to a defined fallback response; an error is
// only returned for invalid input or a broken conversation store.
func (s *ChatService) Answer(ctx context.Context, sessionID, message string) (domain.Answer, error) {
	if strings.TrimSpace(message) == "" {
		return domain.Answer{}, fmt.Errorf("chat: %w: empty message", domain.ErrInvalidInput)
	}

	logger.Section("Answer Pipeline")
	logger.Debug("Session: %s, message: %q", sessionID, logger.Truncate(message, 80))

	recent, err := s.history.Recent(ctx, sessionID, s.cfg.MaxHistory*2)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("chat: load history: %w", err)
	}

	state := &answerState{
		sessionID: sessionID,
		message:   message,
		history:   recent,
	}

	for st := stageDecide; st != stageDone; {
		switch st {
		case stageDecide:
			st = s.decide(ctx, state)
		case stageRetrieve:
			st = s.retrieveStage(ctx, state)
		case stageGenerate:
			st = s.generate(ctx, state)
		}
	}

	now := time.Now()
	if err := s.history.Append(ctx, sessionID, domain.Turn{
		Role: domain.RoleUser, Content: message, Timestamp: now,
	}); err != nil {
		return domain.Answer{}, fmt.Errorf("chat: append user turn: %w", err)
	}
	if err := s.history.Append(ctx, sessionID, domain.Turn{
		Role: domain.RoleAssistant, Content: state.response, Timestamp: now,
	}); err != nil {
		return domain.Answer{}, fmt.Errorf("chat: append assistant turn: %w", err)
	}

	return domain.Answer{
		SessionID: sessionID,
		Response:  state.response,
		Sources:   state.sources,
		Retrieved: state.retrieve,
		Timestamp: now,
	}, nil
}

// History returns the retained conversation for a session.
func (s *ChatService) History(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	return s.history.Recent(ctx, sessionID, 0)
}

// ClearSession removes all conversation history for a session.
func (s *ChatService) ClearSession(ctx context.Context, sessionID string) error {
	return s.history.Clear(ctx, sessionID)
}

// decide classifies the message as needing retrieval or not.
//
// Greetings and thanks skip straight to generation. Everything else is
// classified by the model at temperature 0; if that call fails, the
// pipeline fails open toward retrieval so answers stay grounded.
func (s *ChatService) decide(ctx context.Context, state *answerState) stage {
	lowered := strings.ToLower(strings.TrimSpace(state.message))

	for _, marker := range append(append([]string{}, greetingMarkers...), thanksMarkers...) {
		if strings.Contains(lowered, marker) {
			logger.Debug("Fast path: %q matched %q, skipping retrieval", lowered, marker)
			state.retrieve = false
			return stageGenerate
		}
	}

	instruction, err := s.prompts.Load(driven.PromptRetrievalDecision)
	if err != nil {
		logger.Warn("Decision prompt unavailable: %v. Defaulting to retrieve", err)
		state.retrieve = true
		return stageRetrieve
	}

	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\n\nUser Message: \"")
	b.WriteString(state.message)
	b.WriteString("\"\n\nRecent Conversation:\n")
	b.WriteString(formatHistory(lastTurns(state.history, decisionHistoryTurns)))
	b.WriteString("\n\nDecision (RETRIEVE or NO_RETRIEVE):")

	reply, err := s.llm.Generate(ctx, b.String(), driven.GenerateOptions{
		Temperature: 0,
		MaxTokens:   decisionMaxTokens,
	})
	if err != nil {
		logger.Warn("Decision error: %v. Defaulting to retrieve", err)
		state.retrieve = true
		return stageRetrieve
	}

	state.retrieve = strings.Contains(strings.ToUpper(strings.TrimSpace(reply)), "RETRIEVE")
	logger.Debug("Decision: retrieve=%t", state.retrieve)
	if state.retrieve {
		return stageRetrieve
	}
	return stageGenerate
}

// retrieveStage embeds the raw message and searches the index. An
// empty result set is stored as-is; the generate stage decides what to
// do with it.
func (s *ChatService) retrieveStage(ctx context.Context, state *answerState) stage {
	logger.Debug("Retrieving documents for: %q", logger.Truncate(state.message, 80))

	vector, err := s.embedder.EmbedQuery(ctx, state.message)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		state.retrieved = nil
		return stageGenerate
	}

	results, err := s.index.Search(ctx, vector, s.cfg.TopK, s.cfg.Threshold)
	if err != nil {
		logger.Warn("Index search failed: %v", err)
		state.retrieved = nil
		return stageGenerate
	}

	logger.Debug("Retrieved %d documents", len(results))
	state.retrieved = results
	return stageGenerate
}

// generate produces the final response.
func (s *ChatService) generate(ctx context.Context, state *answerState) stage {
	// Deciding to retrieve and finding nothing is an expected outcome
	// with its own fixed response, not an error.
	if state.retrieve && len(state.retrieved) == 0 {
		state.response = noResultsResponse
		state.sources = []domain.Source{}
		return stageDone
	}

	reply, err := s.llm.Generate(ctx, s.buildContext(state), driven.GenerateOptions{
		Temperature: s.cfg.Temperature,
		TopP:        s.cfg.TopP,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		logger.Error("Generation error (session %s): %v", state.sessionID, err)
		state.response = generationFailedResponse
		state.sources = []domain.Source{}
		return stageDone
	}

	state.response = reply
	state.sources = extractSources(state.retrieved)
	return stageDone
}

// buildContext assembles the grounded prompt: system instruction,
// conversation history, numbered document blocks, then the question.
func (s *ChatService) buildContext(state *answerState) string {
	parts := []string{}

	if system, err := s.prompts.Load(driven.PromptSystem); err == nil {
		parts = append(parts, system)
	} else {
		logger.Warn("System prompt unavailable: %v", err)
	}

	if len(state.history) > 0 {
		parts = append(parts, "\nConversation History:", formatHistory(state.history))
	}

	if len(state.retrieved) > 0 {
		parts = append(parts, "\nRelevant Information from Documents:")
		for i, r := range state.retrieved {
			content := r.Chunk.Content
			if runes := []rune(content); len(runes) > contextContentLimit {
				content = string(runes[:contextContentLimit])
			}
			parts = append(parts,
				fmt.Sprintf("\n[Document %d]", i+1),
				fmt.Sprintf("Source: %s", r.Chunk.Source),
				fmt.Sprintf("Content: %s...", content),
				fmt.Sprintf("Relevance Score: %.2f", r.Score),
			)
		}
	}

	parts = append(parts,
		fmt.Sprintf("\nCurrent Question: %s", state.message),
		"\nYour Response (with citations):",
	)

	return strings.Join(parts, "\n")
}

// extractSources maps retrieved chunks to citations.
func extractSources(retrieved []domain.Retrieval) []domain.Source {
	sources := make([]domain.Source, 0, len(retrieved))
	for _, r := range retrieved {
		sources = append(sources, domain.NewSource(r))
	}
	return sources
}

// formatHistory renders turns as alternating role-labelled lines.
func formatHistory(turns []domain.Turn) string {
	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		lines = append(lines, fmt.Sprintf("%s: %s", turn.Role.Title(), turn.Content))
	}
	return strings.Join(lines, "\n")
}

// lastTurns returns up to n most recent turns.
func lastTurns(turns []domain.Turn, n int) []domain.Turn {
	if len(turns) <= n {
		return turns
	}
	return turns[len(turns)-n:]
}
