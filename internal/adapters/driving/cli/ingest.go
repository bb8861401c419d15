package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/statutelabs/billchat/internal/core/domain"
	"github.com/statutelabs/billchat/internal/core/ports/driving"
)

var (
	ingestReset bool
	ingestWatch bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load, chunk, embed and index the document corpus",
	Long: `Walks the documents directory, extracts text from supported files
(.pdf, .txt, .md, .docx), splits it into overlapping chunks, embeds them and
stores the vectors in the local index.

Re-running ingest on unchanged documents is a no-op: chunk IDs are
derived from content, so identical chunks overwrite themselves.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestReset, "reset", false, "clear the index before ingesting")
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "keep running and re-ingest on changes")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return fmt.Errorf("ingest service not configured: %w", domain.ErrEmbeddingUnavailable)
	}

	opts := driving.IngestOptions{Reset: ingestReset}

	if ingestWatch {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cmd.Println("Watching for document changes. Press Ctrl+C to stop.")
		if err := ingestService.Watch(ctx, opts); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("watch failed: %w", err)
		}
		return nil
	}

	stats, err := ingestService.Ingest(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	cmd.Printf("Ingested %d documents (%d chunks", stats.Documents, stats.Chunks)
	if stats.Skipped > 0 {
		cmd.Printf(", %d skipped", stats.Skipped)
	}
	cmd.Println(")")
	return nil
}
