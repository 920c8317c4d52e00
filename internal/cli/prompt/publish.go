package prompt

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promptdial/promptdial/pkg/printer"
)

var (
	publishName     string
	publishPromptID string
	dryRunFlag      bool
)

var PublishCmd = &cobra.Command{
	Use:   "publish <file|->",
	Short: "Publish a prompt page that expires after a year",
	Long: `Publishes prompt text as a page snapshot and prints its URL.

Examples:
  promptdial prompt publish system-prompt.md
  promptdial prompt publish system-prompt.md --name "Friendly Loan Officer"
  promptdial compile persona.yaml | promptdial prompt publish - --name "Friendly Loan Officer"`,
	Args: cobra.ExactArgs(1),
	RunE: runPublish,
}

func init() {
	PublishCmd.Flags().StringVar(&publishName, "name", "", "Configuration name shown on the page (defaults to the file name)")
	PublishCmd.Flags().StringVar(&publishPromptID, "prompt-id", "", "Id of the generated prompt this page was made from")
	PublishCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Show what would be done without actually doing it")
}

func runPublish(cmd *cobra.Command, args []string) error {
	if apiClient == nil {
		return fmt.Errorf("API client not initialized")
	}

	text, err := readPromptText(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	name := publishName
	if name == "" && args[0] != "-" {
		name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}

	if dryRunFlag {
		fmt.Printf("[DRY RUN] Would publish %q (%d characters)\n", name, len(text))
		return nil
	}

	out, err := apiClient.Publish(publishPromptID, text, name)
	if err != nil {
		return fmt.Errorf("failed to publish prompt: %w", err)
	}
	printer.PrintSuccess(fmt.Sprintf("Published prompt page %s", out.ID))
	fmt.Fprintln(cmd.OutOrStdout(), out.URL)
	return nil
}
