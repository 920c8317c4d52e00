package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	"github.com/promptdial/promptdial/internal/client"
	"github.com/promptdial/promptdial/internal/version"
)

type VersionOutput struct {
	CLIVersion           string `json:"cli_version"`
	GitCommit            string `json:"git_commit"`
	BuildDate            string `json:"build_date"`
	ServerVersion        string `json:"server_version,omitempty"`
	ServerGitCommit      string `json:"server_git_commit,omitempty"`
	ServerBuildDate      string `json:"server_build_date,omitempty"`
	UpdateRecommendation string `json:"update_recommendation,omitempty"`
}

var jsonOutput bool

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Displays the version of promptdial and, when reachable, of the server.`,
	// The server is optional here.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		output := VersionOutput{
			CLIVersion: version.Version,
			GitCommit:  version.GitCommit,
			BuildDate:  version.BuildDate,
		}

		c := client.NewClient(os.Getenv(client.EnvAPIURL), os.Getenv(client.EnvAPIToken))
		serverVersion, err := c.GetVersion()
		if err == nil {
			output.ServerVersion = serverVersion.Version
			output.ServerGitCommit = serverVersion.GitCommit
			output.ServerBuildDate = serverVersion.BuildTime
			output.UpdateRecommendation = updateRecommendation(version.Version, serverVersion.Version)
		}

		if jsonOutput {
			jsonBytes, err := json.MarshalIndent(output, "", "  ")
			if err != nil {
				fmt.Printf("Error marshaling JSON: %v\n", err)
				return
			}
			fmt.Println(string(jsonBytes))
			return
		}

		fmt.Printf("promptdial version %s\n", output.CLIVersion)
		fmt.Printf("Git commit: %s\n", output.GitCommit)
		fmt.Printf("Build date: %s\n", output.BuildDate)

		if serverVersion != nil {
			fmt.Printf("Server version: %s\n", output.ServerVersion)
			fmt.Printf("Server git commit: %s\n", output.ServerGitCommit)
			fmt.Printf("Server build date: %s\n", output.ServerBuildDate)

			if output.UpdateRecommendation != "" {
				fmt.Println("\n-------------------------------")
				fmt.Println(output.UpdateRecommendation)
			}
		} else if err != nil {
			fmt.Printf("Server not reachable: %v\n", err)
		}
	},
}

func init() {
	VersionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version information in JSON format")
}

// updateRecommendation compares two versions and is empty when either is not
// semver or they match.
func updateRecommendation(cliVersion, serverVersion string) string {
	cv, sv := version.EnsureVPrefix(cliVersion), version.EnsureVPrefix(serverVersion)
	if !semver.IsValid(cv) || !semver.IsValid(sv) {
		return ""
	}
	switch semver.Compare(cv, sv) {
	case 1:
		return "CLI version is newer than server version. Consider updating the server."
	case -1:
		return "Server version is newer than CLI version. Consider updating the CLI."
	}
	return ""
}
