package prompt

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/promptdial/promptdial/pkg/printer"
)

var DeleteCmd = &cobra.Command{
	Use:   "delete <prompt-id>...",
	Short: "Delete generated prompts from your history",
	Long: `Delete one or more generated prompts from your history.

Examples:
  promptdial prompt delete 0193a1b2-7c1d-7e8f-9a0b-1c2d3e4f5a6b
  promptdial prompt delete id-one id-two`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	if apiClient == nil {
		return fmt.Errorf("API client not initialized")
	}

	if verbose {
		fmt.Printf("Deleting %d prompt(s)...\n", len(args))
	}
	deleted, err := apiClient.DeletePrompts(args...)
	if err != nil {
		return fmt.Errorf("failed to delete prompts: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("no matching prompts found")
	}

	printer.PrintSuccess(fmt.Sprintf("Deleted %d of %d prompt(s)", deleted, len(args)))
	return nil
}
