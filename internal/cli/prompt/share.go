package prompt

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promptdial/promptdial/pkg/printer"
)

var ShareCmd = &cobra.Command{
	Use:   "share <file|->",
	Short: "Share raw prompt text under a permanent short link",
	Long: `Stores the prompt text without expiry and prints its id and URL.
Use - to read the text from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runShare,
}

func runShare(cmd *cobra.Command, args []string) error {
	if apiClient == nil {
		return fmt.Errorf("API client not initialized")
	}

	text, err := readPromptText(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	out, err := apiClient.Share(text)
	if err != nil {
		return fmt.Errorf("failed to share prompt: %w", err)
	}
	printer.PrintSuccess(fmt.Sprintf("Shared prompt %s", out.ID))
	fmt.Fprintln(cmd.OutOrStdout(), out.URL)
	return nil
}

// readPromptText reads a prompt from path, or from stdin when path is "-".
func readPromptText(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read prompt: %w", err)
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("prompt text is empty")
	}
	return text, nil
}
