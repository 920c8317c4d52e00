package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/promptdial/promptdial/internal/registry/compiler"
	"github.com/promptdial/promptdial/pkg/models"
	"github.com/promptdial/promptdial/pkg/printer"
)

var (
	compileMode   string
	compileOutput string
	compileWatch  bool
)

var CompileCmd = &cobra.Command{
	Use:   "compile <persona-file>",
	Short: "Compile a persona file into a system prompt",
	Long: `Renders a persona configuration without contacting a server.

The file may be YAML or JSON. Field names follow the API (detailLevel,
useExamples, jobRole, ...); snake_case and kebab-case spellings are accepted.

Modes:
  documentation  the configuration document with tables and a JSON summary (default)
  instructions   the imperative system prompt
  avatar         the image prompt used for avatar generation`,
	Example: `promptdial compile loan-officer.yaml
promptdial compile loan-officer.yaml --mode instructions -o prompt.md
promptdial compile loan-officer.yaml --watch`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{OfflineAnnotation: "true"},
	RunE:        runCompile,
}

func init() {
	CompileCmd.Flags().StringVarP(&compileMode, "mode", "m", "documentation", "Output mode (documentation, instructions, avatar)")
	CompileCmd.Flags().StringVarP(&compileOutput, "output", "o", "", "Write to this file instead of stdout")
	CompileCmd.Flags().BoolVarP(&compileWatch, "watch", "w", false, "Recompile whenever the persona file changes")
}

func runCompile(cmd *cobra.Command, args []string) error {
	render, err := rendererFor(compileMode)
	if err != nil {
		return err
	}
	path := args[0]

	if err := compileOnce(path, render, cmd.OutOrStdout()); err != nil {
		return err
	}
	if !compileWatch {
		return nil
	}
	return watchPersona(cmd.Context(), path, func() {
		if err := compileOnce(path, render, cmd.OutOrStdout()); err != nil {
			printer.PrintError(err.Error())
		}
	})
}

func rendererFor(mode string) (func(*models.Persona) string, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "documentation", "doc", "a":
		return compiler.Documentation, nil
	case "instructions", "instruction", "b":
		return compiler.Instructions, nil
	case "avatar":
		return compiler.AvatarPrompt, nil
	}
	return nil, fmt.Errorf("unknown mode %q (want documentation, instructions or avatar)", mode)
}

func compileOnce(path string, render func(*models.Persona) string, stdout io.Writer) error {
	p, err := readPersonaFile(path)
	if err != nil {
		return err
	}
	p.Slug = compiler.Slug(p.Name)
	text := render(p)

	if compileOutput == "" {
		_, err := fmt.Fprintln(stdout, text)
		return err
	}
	if err := os.WriteFile(compileOutput, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", compileOutput, err)
	}
	printer.PrintSuccess(fmt.Sprintf("Compiled %s (%s) to %s", p.Name, p.Slug, compileOutput))
	return nil
}

// watchPersona calls onChange after every write to path until ctx is done.
// The parent directory is watched so editors that replace the file on save
// are still seen.
func watchPersona(ctx context.Context, path string, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printer.PrintError(fmt.Sprintf("watch: %v", err))
		}
	}
}
