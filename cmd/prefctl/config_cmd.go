package main

import (
	"github.com/spf13/cobra"
)

var configYAML bool

func init() {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `The config command prints the configuration after defaults, the config
file and command-line overrides are applied.

Example:
  prefctl config -c device.jsonc
  prefctl config -c device.jsonc --interval 10s --yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig()
		},
	}
	cmd.Flags().BoolVar(&configYAML, "yaml", false, "Print as YAML")
	rootCmd.AddCommand(cmd)
}

func runConfig() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var out string
	if configYAML {
		out, err = cfg.FormatYAML()
	} else {
		out, err = cfg.Format()
	}
	if err != nil {
		return err
	}
	printInfo("%s\n", out)
	return nil
}
