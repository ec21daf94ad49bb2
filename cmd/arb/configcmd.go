package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pittcat/sui-arb-core/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "inspect configuration"}

	var name string
	show := &cobra.Command{
		Use:   "show",
		Short: "load configuration and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(name)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	show.Flags().StringVar(&name, "name", "", "config file base name (default \"arb\")")
	cmd.AddCommand(show)
	return cmd
}
