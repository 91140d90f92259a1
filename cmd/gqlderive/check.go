package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "check reports diagnostics without writing any file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := c.compile(cmd.Context(), false)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d definitions, %d resolvers\n",
				len(res.Project.Definitions), len(res.Project.Resolvers()))
			return nil
		},
	}
}
