// Package cli implements the linkvault command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/linkvault/internal/app"
	"github.com/MrSnakeDoc/linkvault/internal/config"
	"github.com/MrSnakeDoc/linkvault/internal/gate"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/utils"
	"github.com/MrSnakeDoc/linkvault/internal/version"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Passphrase string // unlocks the vault when the app lock is enabled

	// open returns the vault components. Tests replace it.
	open func(ctx context.Context, log logger.Logger) (*app.Core, error)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command, backed by the configured storage.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{open: openFromEnv})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "linkvault",
		Short:         "LinkVault - a personal link vault",
		Long:          "Save links, enrich them with AI summaries and tags, and browse them by smart folder.",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Passphrase, "passphrase", os.Getenv("LINKVAULT_PASSPHRASE"),
		"app lock passphrase (default $LINKVAULT_PASSPHRASE)")

	// Add subcommands
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewFavCommand(opts))
	cmd.AddCommand(NewReadCommand(opts))
	cmd.AddCommand(NewEnrichCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewLockCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))

	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}

func (o *RootOptions) logger() logger.Logger {
	if o.Verbose {
		return logger.New("debug", true)
	}
	return logger.New("error", true)
}

func openFromEnv(ctx context.Context, log logger.Logger) (*app.Core, error) {
	return app.OpenCore(ctx, config.Load(), log)
}

// withCore opens the vault, unlocks it when needed, runs fn and closes
// everything again.
func withCore(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, core *app.Core) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log := opts.logger()
	core, err := opts.open(ctx, log)
	if err != nil {
		return err
	}
	defer utils.MustClose(core, log)

	if err := unlock(ctx, core, opts.Passphrase); err != nil {
		return err
	}
	return fn(ctx, core)
}

func unlock(ctx context.Context, core *app.Core, passphrase string) error {
	if !core.Gate.IsLocked() {
		return nil
	}
	if passphrase == "" {
		return errors.New("vault is locked: pass --passphrase or set LINKVAULT_PASSPHRASE")
	}
	if err := core.Gate.Unlock(ctx, passphrase); err != nil {
		if errors.Is(err, gate.ErrDenied) {
			return errors.New("vault is locked: wrong passphrase")
		}
		return err
	}
	return nil
}
