package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/pkg/config"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/pkg/logger"
)

var (
	cfg *config.Config
	log zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cms",
	Short: "Blog content management API",
	Long: `Blog content management API: posts, comments and users with JWT
authentication, ownership checks, soft delete and a Redis-backed cache.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cmd.Context())
		if err != nil {
			return err
		}
		cfg = loaded
		log = logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
