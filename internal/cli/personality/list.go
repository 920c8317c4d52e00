package personality

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/promptdial/promptdial/pkg/models"
	"github.com/promptdial/promptdial/pkg/printer"
)

var listOutput string

var ListCmd = &cobra.Command{
	Use:   "list <username>",
	Short: "List the personalities a user has published",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

func init() {
	ListCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "Output format (table, json)")
}

func runList(cmd *cobra.Command, args []string) error {
	if apiClient == nil {
		return fmt.Errorf("API client not initialized")
	}

	list, err := apiClient.ListPersonalities(args[0])
	if err != nil {
		return fmt.Errorf("failed to list personalities: %w", err)
	}
	if list == nil {
		list = []models.PublicPersonality{}
	}

	p := printer.New(printer.OutputType(listOutput)).WithWriter(cmd.OutOrStdout())
	return p.Print(list, func(out io.Writer) error {
		if len(list) == 0 {
			_, err := fmt.Fprintf(out, "%s has not published any personalities\n", args[0])
			return err
		}
		t := printer.NewTablePrinter(out)
		t.SetHeaders("", "Name", "Slug", "Published")
		for _, item := range list {
			t.AddRow(item.Emoji, printer.TruncateString(item.Name, 40), item.Slug, item.CreatedAt.Format("2006-01-02"))
		}
		return t.Render()
	})
}
