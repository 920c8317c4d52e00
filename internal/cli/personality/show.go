package personality

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/promptdial/promptdial/internal/client"
	"github.com/promptdial/promptdial/pkg/printer"
)

var (
	showOutput     string
	showPromptOnly bool
)

var ShowCmd = &cobra.Command{
	Use:   "show <username> <slug>",
	Short: "Show a published personality and its system prompt",
	Args:  cobra.ExactArgs(2),
	RunE:  runShow,
}

func init() {
	ShowCmd.Flags().StringVarP(&showOutput, "output", "o", "table", "Output format (table, json)")
	ShowCmd.Flags().BoolVar(&showPromptOnly, "prompt-only", false, "Print only the system prompt")
}

func runShow(cmd *cobra.Command, args []string) error {
	if apiClient == nil {
		return fmt.Errorf("API client not initialized")
	}

	item, err := apiClient.GetPersonality(args[0], args[1])
	if errors.Is(err, client.ErrNotFound) {
		return fmt.Errorf("personality %s/%s not found", args[0], args[1])
	}
	if err != nil {
		return fmt.Errorf("failed to get personality: %w", err)
	}

	if showPromptOnly {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), item.SystemPrompt)
		return err
	}

	p := printer.New(printer.OutputType(showOutput)).WithWriter(cmd.OutOrStdout())
	return p.Print(item, func(out io.Writer) error {
		t := printer.NewTablePrinter(out)
		t.SetHeaders("Property", "Value")
		t.AddRow("Name", item.Emoji+" "+item.Name)
		t.AddRow("Author", item.Username)
		t.AddRow("Slug", item.Slug)
		t.AddRow("Published", item.CreatedAt.Format("2006-01-02"))
		if err := t.Render(); err != nil {
			return err
		}
		_, err := fmt.Fprintf(out, "\n%s\n", item.SystemPrompt)
		return err
	})
}
