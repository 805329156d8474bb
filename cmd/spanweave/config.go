package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config [dir]",
		Short: "Print the resolved configuration",
		Long: `Print the configuration in effect for a directory as YAML, with defaults
filled in. Warnings found while resolving it are printed to stderr.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := flags.setup(args)
			if err != nil {
				return err
			}

			for _, w := range cfg.Warnings() {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", w.Code, w)
			}

			data, err := yaml.Marshal(cfg.Partial())
			if err != nil {
				return fmt.Errorf("encode configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
