package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/linkvault/internal/app"
	"github.com/MrSnakeDoc/linkvault/internal/domain"
	"github.com/MrSnakeDoc/linkvault/internal/scheduler"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every link as a JSON array",
		Long: `Write every link, in storage order, as the same JSON array the vault
stores. The output can be loaded back with "import --json".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(cmd, rootOpts, func(ctx context.Context, core *app.Core) error {
				recs := core.Links.All(ctx)
				if output == "" {
					return writeExport(cmd.OutOrStdout(), recs)
				}

				f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				if err := writeExport(f, recs); err != nil {
					_ = f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("close export file: %w", err)
				}
				return newFormatter(rootOpts, cmd.OutOrStdout()).
					Message(fmt.Sprintf("Exported %d link(s) to %s.", len(recs), output),
						map[string]any{"exported": len(recs), "file": output})
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

func writeExport(w io.Writer, recs []domain.LinkRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(recs); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	var bookmarks, services, jsonFile string
	var replace bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import links from Homepage files or a JSON export",
		Long: `Import links from a Homepage bookmarks.yaml / services.yaml, or from a
file written by "export".

Links whose URL is already saved are skipped. --replace (JSON only) drops
the current collection first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			homepage := bookmarks != "" || services != ""
			switch {
			case !homepage && jsonFile == "":
				return errors.New("nothing to import: use --homepage, --services or --json")
			case homepage && jsonFile != "":
				return errors.New("--json cannot be combined with --homepage or --services")
			case replace && jsonFile == "":
				return errors.New("--replace only applies to --json")
			}

			return withCore(cmd, rootOpts, func(ctx context.Context, core *app.Core) error {
				var (
					n   int
					err error
				)
				if homepage {
					im := scheduler.NewImporter(scheduler.HomepageSources(bookmarks, services), core.Links, rootOpts.logger(), 0, nil)
					n, err = im.Import(ctx)
				} else {
					n, err = importJSON(ctx, core, jsonFile, replace)
				}
				if err != nil {
					return err
				}
				return newFormatter(rootOpts, cmd.OutOrStdout()).
					Message(fmt.Sprintf("Imported %d link(s).", n), map[string]any{"imported": n})
			})
		},
	}

	cmd.Flags().StringVar(&bookmarks, "homepage", "", "Homepage bookmarks.yaml")
	cmd.Flags().StringVar(&services, "services", "", "Homepage services.yaml")
	cmd.Flags().StringVar(&jsonFile, "json", "", "JSON array written by export")
	cmd.Flags().BoolVar(&replace, "replace", false, "replace the whole collection (with --json)")
	return cmd
}

// importJSON accepts exports from any version: missing fields are
// back-filled the same way stored records are.
func importJSON(ctx context.Context, core *app.Core, path string, replace bool) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}

	var raw []domain.RawRecord
	if err := json.Unmarshal(b, &raw); err != nil {
		return 0, fmt.Errorf("decode %s: %w", path, err)
	}

	recs := make([]domain.LinkRecord, 0, len(raw))
	for _, r := range raw {
		recs = append(recs, domain.Normalize(r))
	}
	return core.Links.ImportRecords(ctx, recs, replace)
}
