package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/linkvault/internal/app"
	"github.com/MrSnakeDoc/linkvault/internal/domain"
)

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		d     domain.Draft
		tags  string
		smart bool
	)

	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Save a link",
		Long: `Save a link. The URL gets https:// when it has no scheme and a blank
title is derived from the host.

With --smart the AI enricher fills in the description and tags you did not
provide. Enrichment is best effort: the link is saved either way.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d.URL = args[0]
			d.Tags = domain.ParseTags(tags)
			return withCore(cmd, rootOpts, func(ctx context.Context, core *app.Core) error {
				rec, err := core.Links.Create(ctx, d, smart)
				if err != nil {
					return err
				}
				return newFormatter(rootOpts, cmd.OutOrStdout()).Record(rec)
			})
		},
	}

	cmd.Flags().StringVarP(&d.Title, "title", "t", "", "title (default: derived from the host)")
	cmd.Flags().StringVarP(&d.Description, "description", "d", "", "description")
	cmd.Flags().StringVar(&tags, "tags", "", "comma separated tags")
	cmd.Flags().StringVar(&d.Icon, "icon", "", "icon id or image URL")
	cmd.Flags().StringVar(&d.Color, "color", "", "#rrggbb color")
	cmd.Flags().StringVar(&d.Notes, "notes", "", "free-form notes")
	cmd.Flags().BoolVarP(&smart, "smart", "s", false, "ask the AI enricher for a description and tags")

	return cmd
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var folder, query, order string
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List links",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := domain.ParseFolder(folder)
			if err != nil {
				return err
			}
			o, err := domain.ParseSort(order)
			if err != nil {
				return err
			}
			p := domain.Params{Folder: f, Query: query, Sort: o, Limit: limit}

			return withCore(cmd, rootOpts, func(ctx context.Context, core *app.Core) error {
				return newFormatter(rootOpts, cmd.OutOrStdout()).Records(core.Links.List(ctx, p))
			})
		},
	}

	cmd.Flags().StringVarP(&folder, "folder", "f", "all", "smart folder (all|favorites|unread)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive search in titles and tags")
	cmd.Flags().StringVar(&order, "sort", "", "sort order (newest|oldest|az), default storage order")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of links (0 = all)")

	return cmd
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return recordCommand(rootOpts, "show <id>", "Show one link",
		func(ctx context.Context, core *app.Core, id string) (domain.LinkRecord, error) {
			return core.Links.Get(ctx, id)
		})
}

// NewFavCommand creates the fav command.
func NewFavCommand(rootOpts *RootOptions) *cobra.Command {
	return recordCommand(rootOpts, "fav <id>", "Toggle the favorite flag",
		func(ctx context.Context, core *app.Core, id string) (domain.LinkRecord, error) {
			return core.Links.ToggleFavorite(ctx, id)
		})
}

// NewReadCommand creates the read command.
func NewReadCommand(rootOpts *RootOptions) *cobra.Command {
	return recordCommand(rootOpts, "read <id>", "Toggle the read flag",
		func(ctx context.Context, core *app.Core, id string) (domain.LinkRecord, error) {
			return core.Links.ToggleRead(ctx, id)
		})
}

// NewEnrichCommand creates the enrich command.
func NewEnrichCommand(rootOpts *RootOptions) *cobra.Command {
	return recordCommand(rootOpts, "enrich <id>", "Merge an AI description and tags into a link",
		func(ctx context.Context, core *app.Core, id string) (domain.LinkRecord, error) {
			return core.Links.Enrich(ctx, id)
		})
}

// NewRemoveCommand creates the rm command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete links",
		Long:    "Delete links by id. Unknown ids are ignored.",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(cmd, rootOpts, func(ctx context.Context, core *app.Core) error {
				for _, id := range args {
					if err := core.Links.Delete(ctx, id); err != nil {
						return err
					}
				}
				return newFormatter(rootOpts, cmd.OutOrStdout()).
					Message(fmt.Sprintf("Deleted %d link(s).", len(args)), map[string]any{"deleted": args})
			})
		},
	}
}

func recordCommand(rootOpts *RootOptions, use, short string,
	fn func(ctx context.Context, core *app.Core, id string) (domain.LinkRecord, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(cmd, rootOpts, func(ctx context.Context, core *app.Core) error {
				rec, err := fn(ctx, core, args[0])
				if err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				return newFormatter(rootOpts, cmd.OutOrStdout()).Record(rec)
			})
		},
	}
}
