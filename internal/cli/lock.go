package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/linkvault/internal/app"
	"github.com/MrSnakeDoc/linkvault/internal/utils"
)

// NewLockCommand creates the lock command and its subcommands.
func NewLockCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Manage the app lock",
		Long: `Manage the app lock. Once enabled, every start of the server begins
locked until the passphrase is given, and CLI commands need --passphrase.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether the app lock is enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Reading the status never requires unlocking.
			log := rootOpts.logger()
			core, err := rootOpts.open(cmd.Context(), log)
			if err != nil {
				return err
			}
			defer utils.MustClose(core, log)

			st := core.Gate.Status(cmd.Context())
			msg := "App lock disabled."
			if st.Enabled {
				msg = "App lock enabled."
			}
			return newFormatter(rootOpts, cmd.OutOrStdout()).Message(msg, map[string]bool{"enabled": st.Enabled})
		},
	})

	var credential string
	enable := &cobra.Command{
		Use:   "enable",
		Short: "Enable the app lock with a passphrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if credential == "" {
				return errors.New("--new-passphrase is required")
			}
			return withCore(cmd, rootOpts, func(ctx context.Context, core *app.Core) error {
				if err := core.Gate.Enable(ctx, credential); err != nil {
					return err
				}
				return newFormatter(rootOpts, cmd.OutOrStdout()).Message("App lock enabled.", map[string]bool{"enabled": true})
			})
		},
	}
	enable.Flags().StringVar(&credential, "new-passphrase", "", "passphrase to enroll")
	cmd.AddCommand(enable)

	cmd.AddCommand(&cobra.Command{
		Use:   "disable",
		Short: "Disable the app lock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(cmd, rootOpts, func(ctx context.Context, core *app.Core) error {
				if err := core.Gate.Disable(ctx); err != nil {
					return err
				}
				return newFormatter(rootOpts, cmd.OutOrStdout()).Message("App lock disabled.", map[string]bool{"enabled": false})
			})
		},
	})

	return cmd
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every link and the app lock settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete everything without --yes")
			}
			return withCore(cmd, rootOpts, func(ctx context.Context, core *app.Core) error {
				if err := core.Links.Clear(ctx); err != nil {
					return err
				}
				return newFormatter(rootOpts, cmd.OutOrStdout()).Message("All data cleared.", map[string]bool{"cleared": true})
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm")
	return cmd
}
