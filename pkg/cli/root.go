// Package cli assembles the promptdial command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/promptdial/promptdial/internal/cli"
	"github.com/promptdial/promptdial/internal/cli/personality"
	"github.com/promptdial/promptdial/internal/cli/prompt"
	"github.com/promptdial/promptdial/internal/client"
	"github.com/promptdial/promptdial/internal/version"
)

// Root returns a fresh root command with every subcommand registered.
func Root() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "promptdial",
		Short: "Tune AI assistant personas and compile them into system prompts",
		Long: `promptdial runs the PromptDial API server and talks to it.

Point the client commands at a server with PROMPTDIAL_API_URL
(default ` + client.DefaultBaseURL + `) and authenticate with PROMPTDIAL_API_TOKEN.`,
		Version:           version.String(),
		SilenceUsage:      true,
		PersistentPreRunE: connect,
	}

	rootCmd.AddCommand(cli.ServeCmd)
	rootCmd.AddCommand(cli.CompileCmd)
	rootCmd.AddCommand(cli.ExportCmd)
	rootCmd.AddCommand(cli.ImportCmd)
	rootCmd.AddCommand(cli.StatusCmd)
	rootCmd.AddCommand(cli.VersionCmd)
	rootCmd.AddCommand(prompt.PromptCmd)
	rootCmd.AddCommand(personality.PersonalityCmd)

	return rootCmd
}

// connect creates the API client for commands that need a server.
func connect(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[cli.OfflineAnnotation] == "true" {
		return nil
	}
	c, err := client.NewClientFromEnv()
	if err != nil {
		return err
	}
	prompt.SetAPIClient(c)
	personality.SetAPIClient(c)
	return nil
}
