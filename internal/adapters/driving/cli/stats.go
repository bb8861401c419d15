package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/statutelabs/billchat/internal/core/domain"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vector index statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if vectorIndex == nil {
		return fmt.Errorf("vector index not configured: %w", domain.ErrIndexUnavailable)
	}

	stats, err := vectorIndex.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("read index stats: %w", err)
	}

	if settings.Paths.DocsDir != "" {
		cmd.Printf("Documents:  %s\n", settings.Paths.DocsDir)
	}
	cmd.Printf("Records:    %d\n", stats.Records)
	cmd.Printf("Dimensions: %d\n", stats.Dimensions)
	if stats.Path != "" {
		cmd.Printf("Path:       %s\n", stats.Path)
	}
	if llmService != nil {
		cmd.Printf("LLM:        %s\n", llmService.ModelName())
	}
	if embeddingService != nil {
		cmd.Printf("Embedding:  %s\n", embeddingService.ModelName())
	}
	return nil
}
