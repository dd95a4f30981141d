package cli

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/linkvault/internal/app"
	"github.com/MrSnakeDoc/linkvault/internal/config"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
)

// NewServeCommand creates the serve command.
func NewServeCommand(_ *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API until SIGINT or SIGTERM.

Configuration comes from LINKVAULT_* environment variables and an optional .env file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
			defer func() { _ = loggerClient.Sync() }()

			a, err := app.New(cmd.Context(), cfg, loggerClient)
			if err != nil {
				loggerClient.Error("startup failed", logger.Error(err))
				return err
			}
			return a.Run()
		},
	}
}
