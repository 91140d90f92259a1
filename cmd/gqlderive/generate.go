package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func (c *cli) generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Short:   "generate writes the schema SDL and the graphql-go schema constructor",
		Example: "gqlderive generate --packages ./graph/... --schema-out graph/schema.graphql",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, cfg, err := c.compile(cmd.Context(), false)
			if err != nil {
				return err
			}
			for _, out := range []struct {
				name string
				data []byte
			}{
				{outputPath(cfg, cfg.SchemaOutput), []byte(res.SDL)},
				{outputPath(cfg, cfg.CodegenOutput), res.Code},
			} {
				if err := writeFile(out.name, out.data); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out.name)
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.String("schema-out", "schema.graphql", "SDL output file, relative to --dir")
	flags.String("codegen-out", "schema_gen.go", "Go output file, relative to --dir")
	flags.String("package", "", "package name of the generated Go file")
	flags.String("package-path", "", "import path of the generated Go file's package")
	c.bind(flags.Lookup, map[string]string{
		"schema-out":   "schemaOutput",
		"codegen-out":  "codegenOutput",
		"package":      "codegenPackage",
		"package-path": "codegenPackagePath",
	})
	return cmd
}

func writeFile(name string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(name, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
