package cmd

import (
	"github.com/spf13/cobra"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/infrastructure/db"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/server"
)

// cleanupCmd runs one retention purge and exits.
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Permanently delete posts and comments past the retention window",
	Long: `Runs a single retention purge outside the server. Usage:

	cms cleanup --days 30
	cms cleanup --dry-run
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		days, _ := cmd.Flags().GetInt("days")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if days > 0 {
			cfg.Cleanup.RetentionDays = days
		}

		repos, err := db.Open(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = repos.Close(ctx) }()

		backend := server.OpenCache(ctx, cfg, log)
		if backend.Close != nil {
			defer func() { _ = backend.Close() }()
		}
		svc := server.NewServices(cfg, repos, backend.Cache, log)

		if dryRun {
			stats, err := svc.Retention.Stats(ctx)
			if err != nil {
				return err
			}
			log.Info().
				Int64("posts", stats.PostsToDelete).
				Int64("comments", stats.CommentsToDelete).
				Int("retention_days", stats.RetentionDays).
				Time("threshold", stats.Threshold).
				Msg("dry run: nothing deleted")
			return nil
		}

		_, err = svc.Retention.Run(ctx)
		return err
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)

	cleanupCmd.Flags().Int("days", 0, "retention window in days (defaults to CLEANUP_RETENTION_DAYS)")
	cleanupCmd.Flags().Bool("dry-run", false, "report what would be purged without deleting")
}
