package prompt

import (
	"github.com/spf13/cobra"

	"github.com/promptdial/promptdial/internal/client"
)

var verbose bool
var apiClient *client.Client

func SetAPIClient(client *client.Client) {
	apiClient = client
}

var PromptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Commands for sharing and managing generated prompts",
	Long:  `Commands for sharing prompt text, publishing prompt pages and managing your generated prompt history.`,
	Args:  cobra.ArbitraryArgs,
	Example: `promptdial prompt share system-prompt.md
promptdial prompt show Ab3dE6gH9jKl
promptdial prompt publish system-prompt.md --name "Loan Officer"
promptdial prompt list
promptdial prompt delete 0193a1b2-...`,
}

func init() {
	PromptCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	PromptCmd.AddCommand(ShareCmd)
	PromptCmd.AddCommand(ShowCmd)
	PromptCmd.AddCommand(PublishCmd)
	PromptCmd.AddCommand(ListCmd)
	PromptCmd.AddCommand(DeleteCmd)
}
