package main

import (
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings as editor configuration",
		Long: `Print the configuration resulting from defaults, the config file and flags
as the JSON object the language server accepts in initializationOptions or
workspace/didChangeConfiguration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			settings, err := cfg.Settings()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(pretty.Pretty(settings))
			return err
		},
	}
}
