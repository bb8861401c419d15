// Package cli provides the billchat command-line interface.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/statutelabs/billchat/internal/adapters/driven/config/file"
	"github.com/statutelabs/billchat/internal/adapters/driven/conversation"
	geminiembed "github.com/statutelabs/billchat/internal/adapters/driven/embedding/gemini"
	geminillm "github.com/statutelabs/billchat/internal/adapters/driven/llm/gemini"
	"github.com/statutelabs/billchat/internal/adapters/driven/vectorstore/sqlite"
	"github.com/statutelabs/billchat/internal/chunker"
	"github.com/statutelabs/billchat/internal/core/ports/driven"
	"github.com/statutelabs/billchat/internal/core/ports/driving"
	"github.com/statutelabs/billchat/internal/core/services"
	"github.com/statutelabs/billchat/internal/loaders"
	"github.com/statutelabs/billchat/internal/loaders/docx"
	"github.com/statutelabs/billchat/internal/loaders/pdf"
	"github.com/statutelabs/billchat/internal/loaders/plaintext"
	"github.com/statutelabs/billchat/internal/logger"
)

var (
	flagVerbose bool
	flagConfig  string
)

// Services wired by setup. Tests inject fakes before calling Execute,
// which makes setup skip the real construction.
var (
	settings         file.Settings
	chatService      driving.ChatService
	ingestService    driving.IngestService
	vectorIndex      driven.VectorIndex
	llmService       driven.LLMService
	embeddingService driven.EmbeddingService
	stopCleanup      func()
)

var rootCmd = &cobra.Command{
	Use:   "billchat",
	Short: "Grounded Q&A over Nigeria's 2024 Tax Reform Bills",
	Long: `billchat answers questions about Nigeria's 2024 Tax Reform Bills.

It ingests the official bill documents into a local vector index and
answers questions strictly from the indexed text, with citations.
Answers require a Gemini API key in GEMINI_API_KEY (a .env file is
honoured).`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default ~/.billchat/config.toml)")
}

// Execute runs the CLI and releases adapter resources afterwards.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// setup builds the adapter stack and core services for the invoked
// command. Commands that don't touch the pipeline skip it.
func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)

	switch cmd.Name() {
	case "version", "help", "completion":
		return nil
	}

	// Already wired (by a test or a previous run)
	if chatService != nil && ingestService != nil {
		return nil
	}

	s, err := file.LoadSettings(flagConfig)
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	settings = s

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return err
	}

	llmService, err = geminillm.NewLLMService(geminillm.Config{
		APIKey:            s.APIKey,
		Model:             s.Models.LLM,
		RequestsPerSecond: s.Models.RateLimit,
	})
	if err != nil {
		return fmt.Errorf("create llm service: %w", err)
	}

	embeddingService, err = geminiembed.NewEmbeddingService(geminiembed.Config{
		APIKey: s.APIKey,
		Model:  s.Models.Embedding,
	})
	if err != nil {
		return fmt.Errorf("create embedding service: %w", err)
	}

	store, err := sqlite.NewStore(s.Paths.DataDir)
	if err != nil {
		return fmt.Errorf("open vector index: %w", err)
	}
	vectorIndex = store

	registry := loaders.NewRegistry(plaintext.New(), pdf.New(), docx.New())
	splitter := chunker.New(
		chunker.WithChunkSize(s.Chunking.Size),
		chunker.WithChunkOverlap(s.Chunking.Overlap),
	)

	ingestService = services.NewIngestService(
		registry, splitter, embeddingService, vectorIndex, s.Paths.DocsDir)

	sessions := conversation.NewMemoryStore(s.Chat.MaxHistory)
	if s.Chat.SessionTimeout > 0 {
		timeout := time.Duration(s.Chat.SessionTimeout) * time.Second
		stopCleanup = sessions.StartCleanup(time.Minute, timeout)
	}

	chatService = services.NewChatService(
		llmService, embeddingService, vectorIndex,
		sessions, prompts,
		services.ChatConfig{
			TopK:        s.Retrieval.TopK,
			Threshold:   s.Retrieval.Threshold,
			MaxHistory:  s.Chat.MaxHistory,
			Temperature: s.Models.Temperature,
			TopP:        s.Models.TopP,
			MaxTokens:   s.Models.MaxTokens,
		})

	return nil
}

// closeServices releases adapter resources in reverse wiring order.
func closeServices() {
	if stopCleanup != nil {
		stopCleanup()
		stopCleanup = nil
	}
	if vectorIndex != nil {
		if err := vectorIndex.Close(); err != nil {
			logger.Warn("Closing vector index: %v", err)
		}
	}
	if embeddingService != nil {
		if err := embeddingService.Close(); err != nil {
			logger.Warn("Closing embedding service: %v", err)
		}
	}
	if llmService != nil {
		if err := llmService.Close(); err != nil {
			logger.Warn("Closing llm service: %v", err)
		}
	}
}
