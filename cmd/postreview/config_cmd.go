package main

import (
	"github.com/HerbHall/postreview/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func configCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with credentials redacted",
		Long: `Print the configuration the server would run with, after defaults,
the config file, .env and environment overrides are applied. API keys are
redacted. The configuration is not validated, so a missing API key shows
as an empty value instead of an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			cfg, err := config.Decode(v)
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg.Redacted()); err != nil {
				return err
			}
			return enc.Close()
		},
	})
	return cmd
}
