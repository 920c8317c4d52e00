package cli

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/spf13/cobra"

	"github.com/promptdial/promptdial/internal/registry/config"
	"github.com/promptdial/promptdial/internal/registry/exporter"
	"github.com/promptdial/promptdial/internal/registry/importer"
	"github.com/promptdial/promptdial/internal/registry/kv"
	"github.com/promptdial/promptdial/internal/registry/service"
	"github.com/promptdial/promptdial/pkg/printer"
	pkgauth "github.com/promptdial/promptdial/pkg/registry/auth"
	"github.com/promptdial/promptdial/pkg/registry/database"
)

var (
	exportOwner  string
	exportOutput string

	importOwner   string
	importKeepIDs bool
)

// openStore is replaced in tests so several commands can share one in-memory store.
var openStore = kv.Open

var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a user's personas to a JSON file",
	Long: `Reads personas straight from the configured key-value store
(PROMPTDIAL_KV_URL) and writes them as a JSON array. Publication state is
not exported.`,
	Example:     `promptdial export --owner alice@example.com -o personas.json`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{OfflineAnnotation: "true"},
	RunE:        runExport,
}

var ImportCmd = &cobra.Command{
	Use:   "import <file|url>",
	Short: "Import personas from a JSON or YAML file",
	Long: `Saves every persona in the file for the given owner. Slugs and system
prompts are recomputed; prompts are stored without LLM refinement.`,
	Example: `promptdial import --owner bob@example.com personas.json
promptdial import --owner bob@example.com https://example.com/seed.yaml`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{OfflineAnnotation: "true"},
	RunE:        runImport,
}

func init() {
	ExportCmd.Flags().StringVar(&exportOwner, "owner", "", "Email address whose personas are exported")
	ExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "personas.json", "Output file")
	_ = ExportCmd.MarkFlagRequired("owner")

	ImportCmd.Flags().StringVar(&importOwner, "owner", "", "Email address that will own the imported personas")
	ImportCmd.Flags().BoolVar(&importKeepIDs, "keep-ids", false, "Update personas with matching ids instead of creating new ones")
	_ = ImportCmd.MarkFlagRequired("owner")
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx, err := ownerContext(cmd.Context(), exportOwner)
	if err != nil {
		return err
	}
	return withPersonaService(ctx, func(svc service.PersonaService) error {
		count, err := exporter.NewService(svc).ExportToPath(ctx, exportOutput)
		if err != nil {
			return err
		}
		printer.PrintSuccess(fmt.Sprintf("Exported %d personas to %s", count, exportOutput))
		return nil
	})
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx, err := ownerContext(cmd.Context(), importOwner)
	if err != nil {
		return err
	}
	return withPersonaService(ctx, func(svc service.PersonaService) error {
		imp := importer.NewService(svc)
		imp.SetKeepIDs(importKeepIDs)
		res, err := imp.ImportFromPath(ctx, args[0])
		if res != nil {
			for _, failure := range res.Failed {
				printer.PrintError(failure)
			}
		}
		if err != nil {
			return err
		}
		printer.PrintSuccess(fmt.Sprintf("Imported %d personas for %s", res.Imported, importOwner))
		return nil
	})
}

func ownerContext(ctx context.Context, owner string) (context.Context, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	addr, err := mail.ParseAddress(owner)
	if err != nil || addr.Address != owner {
		return nil, fmt.Errorf("invalid owner email %q", owner)
	}
	return pkgauth.WithSession(ctx, &pkgauth.Session{Email: owner}), nil
}

// withPersonaService opens the configured store, runs fn and closes the store.
func withPersonaService(ctx context.Context, fn func(service.PersonaService) error) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg.KVURL)
	if err != nil {
		return fmt.Errorf("failed to open key-value store: %w", err)
	}
	defer func() {
		err = errors.Join(err, store.Close())
	}()
	return fn(service.NewPersonaService(database.NewKV(store), nil, cfg.Service))
}
