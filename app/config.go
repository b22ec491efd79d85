package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/userservice/userservice/internal/config"
)

func init() { //nolint: gochecknoinits
	dumpCmd.Flags().BoolVar(&dumpJSON, "json", false, "Dump as JSON instead of TOML")

	configCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(configCmd)
}

var (
	dumpJSON bool

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	dumpCmd = &cobra.Command{
		Use:     "dump",
		Short:   "Print the effective configuration with secrets redacted",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dump := config.DumpConfig
			if dumpJSON {
				dump = config.DumpConfigJSON
			}

			out, err := dump(&cfg)
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), out)

			return err //nolint:wrapcheck
		},
	}
)
