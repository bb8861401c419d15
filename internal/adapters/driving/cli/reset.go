package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/statutelabs/billchat/internal/core/domain"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove all records from the vector index",
	Long: `Irreversibly removes every chunk record from the vector index.
Run 'billchat ingest' afterwards to rebuild it.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	if vectorIndex == nil {
		return fmt.Errorf("vector index not configured: %w", domain.ErrIndexUnavailable)
	}

	if !resetForce {
		cmd.Print("This removes all indexed records. Continue? [y/N]: ")
		scanner := bufio.NewScanner(cmd.InOrStdin())
		if !scanner.Scan() {
			return scanner.Err()
		}
		reply := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if reply != "y" && reply != "yes" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := vectorIndex.Reset(cmd.Context()); err != nil {
		return fmt.Errorf("reset index: %w", err)
	}

	cmd.Println("Index cleared.")
	return nil
}
