package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/statutelabs/billchat/internal/core/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive question-and-answer session",
	Long: `Starts a REPL that keeps conversation history, so follow-up
questions can refer to earlier answers.

Commands inside the session:
  clear  forget the conversation so far
  exit   leave the session (also: quit, Ctrl+D)`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return fmt.Errorf("chat service not configured: %w", domain.ErrLLMUnavailable)
	}

	sessionID := uuid.New().String()
	cmd.Println("Ask about Nigeria's 2024 Tax Reform Bills. Type 'exit' to leave.")
	cmd.Println()

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("You: ")
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "exit" || line == "quit":
			return nil
		case line == "clear":
			if err := chatService.ClearSession(cmd.Context(), sessionID); err != nil {
				cmd.PrintErrf("Could not clear session: %v\n", err)
				continue
			}
			cmd.Println("Conversation cleared.")
			continue
		}

		answer, err := chatService.Answer(cmd.Context(), sessionID, line)
		if err != nil {
			cmd.PrintErrf("Error: %v\n", err)
			continue
		}

		cmd.Println()
		printAnswer(cmd, answer)
		cmd.Println()
	}
}
