package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/server"
)

const shutdownTimeout = 15 * time.Second

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the API server",
	Long: `Starts the API server and the scheduled retention cleanup. Usage:

	cms server --admin-user admin --admin-password s3cret
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetString("admin-user"); v != "" {
			cfg.Bootstrap.AdminUser = v
		}
		if v, _ := cmd.Flags().GetString("admin-password"); v != "" {
			cfg.Bootstrap.AdminPassword = v
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv, err := server.New(ctx, cfg, log)
		if err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start(ctx) }()

		select {
		case err := <-errCh:
			if err != nil {
				return err
			}
		case <-ctx.Done():
			log.Info().Msg("shutdown signal received")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown incomplete")
			return err
		}
		log.Info().Msg("server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().String("admin-user", "", "create this admin account on startup if missing (BOOTSTRAP_ADMIN_USER)")
	serverCmd.Flags().String("admin-password", "", "password for --admin-user (BOOTSTRAP_ADMIN_PASSWORD)")
}
