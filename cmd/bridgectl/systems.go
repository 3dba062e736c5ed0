package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSystemsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "systems",
		Short: "List the available bidding systems",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range reg.Names() {
				sys, err := reg.Get(name)
				if err != nil {
					return err
				}
				marker := " "
				if name == a.cfg.DefaultSystem {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-8s %s\n", marker, sys.Name, sys.Title)
			}
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show [name]",
		Short: "Print a system the way the external advisor sees it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := a.cfg.DefaultSystem
			if len(args) == 1 {
				name = args[0]
			}
			reg, err := a.registry()
			if err != nil {
				return err
			}
			sys, err := reg.Get(name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sys.PromptText())
			return nil
		},
	})
	return cmd
}
