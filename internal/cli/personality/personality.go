// Package personality holds the commands for reading published personalities.
package personality

import (
	"github.com/spf13/cobra"

	"github.com/promptdial/promptdial/internal/client"
)

var apiClient *client.Client

func SetAPIClient(client *client.Client) {
	apiClient = client
}

var PersonalityCmd = &cobra.Command{
	Use:     "personality",
	Aliases: []string{"personalities"},
	Short:   "Browse published personalities",
	Example: `promptdial personality list alice
promptdial personality show alice friendly-loan-officer`,
}

func init() {
	PersonalityCmd.AddCommand(ListCmd)
	PersonalityCmd.AddCommand(ShowCmd)
}
