package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/userservice/userservice/internal/daemon"
	"github.com/userservice/userservice/internal/logger"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:     "seed",
	Short:   "Migrate the database and seed permissions, roles and demo users",
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := logger.Init(cfg.Log); err != nil {
			return err
		}

		// the seed command always seeds, independent of seed.enabled
		cfg.Seed.Enabled = true

		if _, err := daemon.Prepare(cmd.Context(), &cfg); err != nil {
			return err
		}

		log.Info().Str("engine", cfg.DB.GormEngine).Msg("database is migrated and seeded")

		return nil
	},
}
