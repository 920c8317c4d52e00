package prompt

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/promptdial/promptdial/internal/client"
	"github.com/promptdial/promptdial/pkg/printer"
)

var (
	showOutputFormat string
	showPage         bool
)

var ShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a shared prompt or a published prompt page",
	Long: `Prints the raw text of a shared prompt. With --page the id is looked up
among published prompt pages instead and shown with its metadata.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	ShowCmd.Flags().StringVarP(&showOutputFormat, "output", "o", "table", "Output format for pages (table, json)")
	ShowCmd.Flags().BoolVar(&showPage, "page", false, "Look up a published prompt page instead of a shared prompt")
}

func runShow(cmd *cobra.Command, args []string) error {
	id := args[0]

	if apiClient == nil {
		return fmt.Errorf("API client not initialized")
	}

	if !showPage {
		text, err := apiClient.GetShared(id)
		if errors.Is(err, client.ErrNotFound) {
			fmt.Printf("Shared prompt '%s' not found\n", id)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get shared prompt: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	}

	page, err := apiClient.GetPublished(id)
	if errors.Is(err, client.ErrNotFound) {
		fmt.Printf("Prompt page '%s' not found or expired\n", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get prompt page: %w", err)
	}

	if showOutputFormat == "json" {
		return printer.New(printer.OutputTypeJSON).PrintJSON(page)
	}

	t := printer.NewTablePrinter(os.Stdout)
	t.SetHeaders("Property", "Value")
	t.AddRow("ID", id)
	t.AddRow("Config", page.ConfigName)
	t.AddRow("Prompt ID", page.PromptID)
	t.AddRow("Published", page.PublishedAt.Format(time.RFC3339))
	t.AddRow("Content", printer.TruncateString(page.PromptText, 200))
	if err := t.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	if verbose {
		fmt.Println()
		fmt.Println(page.PromptText)
	}
	return nil
}
