package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/infrastructure/db/postgres"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/pkg/config"
)

// migrateCmd represents the migrate command.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run PostgreSQL schema migrations",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		if cfg.StoreDriver != config.DriverPostgres {
			return fmt.Errorf("migrations apply to the postgres driver only (STORE_DRIVER=%s)", cfg.StoreDriver)
		}
		return nil
	},
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := postgres.MigrateUp(cfg.Postgres.DSN); err != nil {
			return err
		}
		log.Info().Msg("migrations applied")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert all migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := postgres.MigrateDown(cfg.Postgres.DSN); err != nil {
			return err
		}
		log.Info().Msg("migrations reverted")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}
