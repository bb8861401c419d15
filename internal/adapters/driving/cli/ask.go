package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/statutelabs/billchat/internal/core/domain"
)

var askSession string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question about the indexed bills",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askSession, "session", "", "session id for follow-up questions (default: new session)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return fmt.Errorf("chat service not configured: %w", domain.ErrLLMUnavailable)
	}

	sessionID := askSession
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	answer, err := chatService.Answer(cmd.Context(), sessionID, args[0])
	if err != nil {
		return fmt.Errorf("answer failed: %w", err)
	}

	printAnswer(cmd, answer)
	return nil
}

func printAnswer(cmd *cobra.Command, answer domain.Answer) {
	cmd.Println(answer.Response)

	if len(answer.Sources) == 0 {
		return
	}

	cmd.Println()
	cmd.Println("Sources:")
	for i, src := range answer.Sources {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, src.Document, src.Score)
		if src.Excerpt != "" {
			cmd.Printf("      %s\n", src.Excerpt)
		}
	}
}
