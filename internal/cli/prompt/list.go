package prompt

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/promptdial/promptdial/pkg/models"
	"github.com/promptdial/promptdial/pkg/printer"
)

var outputFormat string

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your generated prompts",
	Long:  `Lists the generated prompt history of the signed-in user, most recent first.`,
	RunE:  runList,
}

func init() {
	ListCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json)")
}

func runList(cmd *cobra.Command, args []string) error {
	if apiClient == nil {
		return fmt.Errorf("API client not initialized")
	}

	prompts, err := apiClient.ListPrompts()
	if err != nil {
		return fmt.Errorf("failed to get prompts: %w", err)
	}

	if len(prompts) == 0 && outputFormat != "json" {
		fmt.Println("No prompts available")
		return nil
	}

	if outputFormat == "json" {
		return printer.New(printer.OutputTypeJSON).PrintJSON(prompts)
	}
	printPromptsTable(prompts)
	return nil
}

func printPromptsTable(prompts []*models.GeneratedPrompt) {
	t := printer.NewTablePrinter(os.Stdout)
	t.SetHeaders("ID", "Config", "Created", "Published", "Preview")

	for _, p := range prompts {
		t.AddRow(
			p.ID,
			printer.TruncateString(p.ConfigName, 30),
			p.Timestamp.Local().Format(time.DateTime),
			p.PublishedURL,
			printer.TruncateString(firstLine(p.PromptText), 50),
		)
	}

	if err := t.Render(); err != nil {
		printer.PrintError(fmt.Sprintf("failed to render table: %v", err))
	}
}

// firstLine returns the first non-empty line with markdown heading marks removed.
func firstLine(text string) string {
	for line := range strings.SplitSeq(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "# "))
		if line != "" {
			return line
		}
	}
	return ""
}
