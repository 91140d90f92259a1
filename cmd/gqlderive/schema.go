package main

import (
	"io"

	"github.com/spf13/cobra"
)

func (c *cli) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "schema",
		Short:   "schema prints the derived SDL to stdout",
		Example: "gqlderive schema > schema.graphql",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := c.compile(cmd.Context(), true)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), res.SDL)
			return err
		},
	}
}
