package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptdial/promptdial/internal/client"
	"github.com/promptdial/promptdial/internal/version"
)

var statusOutputFormat string

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of the server",
	Long:  `Displays whether the PromptDial server answers, its version, and whether its key-value backend is healthy.`,
	// Override PersistentPreRunE so an unreachable server is reported rather than fatal.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	RunE: runStatus,
}

func init() {
	StatusCmd.Flags().StringVarP(&statusOutputFormat, "output", "o", "table", "Output format (table, json)")
}

type statusInfo struct {
	Server    string `json:"server"`
	API       string `json:"api"`
	KV        string `json:"kv"`
	Version   string `json:"version,omitempty"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	info := statusInfo{
		Server: "unknown",
		API:    "unreachable",
		KV:     "unknown",
	}

	// Single attempt, no retries.
	c := client.NewClient(os.Getenv(client.EnvAPIURL), os.Getenv(client.EnvAPIToken))
	if err := c.Ping(); err != nil {
		info.Server = "stopped"
	} else {
		info.Server = "running"
		info.API = "ok"

		if ver, err := c.GetVersion(); err == nil {
			info.Version = ver.Version
			info.GitCommit = ver.GitCommit
			info.BuildTime = ver.BuildTime
		}

		if health, err := c.Health(); err == nil {
			info.KV = health.KV
		} else {
			info.KV = "unavailable"
		}
	}

	if statusOutputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Printf("promptdial version: %s\n", version.Version)
	fmt.Printf("Server:             %s\n", info.Server)
	fmt.Printf("API:                %s\n", info.API)
	fmt.Printf("Key-value store:    %s\n", info.KV)
	if info.Version != "" {
		fmt.Printf("Server version:     %s\n", info.Version)
		fmt.Printf("Git commit:         %s\n", info.GitCommit)
		fmt.Printf("Build time:         %s\n", info.BuildTime)
	}

	return nil
}
