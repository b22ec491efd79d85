// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/userservice/userservice/internal/config"
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "Path to the configuration directory")
}

var (
	configPath string // Path to the configuration directory
	cfg        config.Config

	rootCmd = &cobra.Command{
		Use:   "userservice",
		Short: "userservice is an identity and access control service",
		Long: `userservice registers users, verifies their credentials and issues signed
bearer tokens. Every protected request is checked against the roles and
permissions carried by the token.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	cfg, err = config.ReadConfig(configPath)

	return err
}
