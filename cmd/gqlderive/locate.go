package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hanpama/gqlderive/internal/ir"
)

func (c *cli) locateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "locate <Type>[.<field>]",
		Short:   "locate prints where a GraphQL type or field is declared in Go",
		Example: "gqlderive locate User.posts",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := c.compile(cmd.Context(), true)
			if err != nil {
				return err
			}
			loc, err := locate(res.Project, args[0])
			if err != nil {
				return err
			}
			wd, _ := os.Getwd()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", displayPosition(wd, loc.pos), loc.what)
			return nil
		},
	}
}

type location struct {
	pos  ir.Position
	what string
}

func locate(p *ir.Project, target string) (*location, error) {
	typeName, member, hasMember := strings.Cut(target, ".")
	def := p.Lookup(typeName)
	if def == nil {
		return nil, fmt.Errorf("type %q is not defined", typeName)
	}
	if !hasMember {
		what := fmt.Sprintf("%s %s", strings.ToLower(string(def.Kind())), typeName)
		if g := def.Go(); g != nil {
			what += fmt.Sprintf(" (%s.%s)", g.Package, g.Name)
		}
		return &location{pos: def.Position(), what: what}, nil
	}

	if f := ir.FieldByName(def.Fields(), member); f != nil {
		what := "field " + target
		if f.Resolver != nil {
			what += " (" + describeResolver(f.Resolver) + ")"
		}
		return &location{pos: f.Position, what: what}, nil
	}
	if def.Input != nil {
		for _, f := range def.Input.Fields {
			if f.Name == member {
				return &location{pos: f.Position, what: fmt.Sprintf("input field %s (%s)", target, f.GoName)}, nil
			}
		}
	}
	if def.Enum != nil {
		for _, v := range def.Enum.Values {
			if v.Name == member {
				return &location{pos: v.Position, what: fmt.Sprintf("enum value %s (%s)", target, v.GoName)}, nil
			}
		}
	}
	return nil, fmt.Errorf("%s %s has no member %q", strings.ToLower(string(def.Kind())), typeName, member)
}

func describeResolver(r *ir.Resolver) string {
	var path []string
	for _, step := range r.Path {
		path = append(path, step.Field)
	}
	selector := strings.Join(append(path, r.Name), ".")
	switch r.Kind {
	case ir.ResolverKindProperty:
		return "struct field " + selector
	case ir.ResolverKindMethod:
		return "method " + selector
	case ir.ResolverKindFunction:
		return fmt.Sprintf("function %s.%s", r.Package, r.Name)
	case ir.ResolverKindStaticMethod:
		recv := r.Receiver
		if r.ReceiverPointer {
			recv = "*" + recv
		}
		return fmt.Sprintf("method (%s.%s).%s", r.Package, recv, r.Name)
	}
	return string(r.Kind)
}
