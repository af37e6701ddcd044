package main

import (
	"fmt"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var parser koanf.Parser
			switch output {
			case "", "yaml":
				parser = yaml.Parser()
			case "toml":
				parser = toml.Parser()
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
			data, err := a.koanf.Marshal(parser)
			if err != nil {
				return fmt.Errorf("marshal configuration: %w", err)
			}
			_, err = a.stdout.Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&output, "output-format", "yaml", "yaml or toml")
	return cmd
}
