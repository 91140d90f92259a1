package schema

import (
	"errors"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"

	"github.com/hanpama/gqlderive/internal/ir"
)

type checker struct {
	project    *ir.Project
	violations []*ir.Violation
}

// Validate checks the project and returns the validated schema.
//
// Checks that need only the project run first. When they pass, the lowered document is
// validated by gqlparser, and literals (directive arguments and defaults) are type-checked
// against the result. Failures are returned as ir.ValidationError.
func Validate(p *ir.Project) (*ast.Schema, error) {
	c := &checker{project: p}
	c.checkFields()
	c.checkIdentity()
	c.checkSingletons()
	c.checkInterfaceDeclarations()
	if len(c.violations) > 0 {
		return nil, ir.ValidationError(c.violations)
	}

	doc := BuildFromIR(p)
	schema, err := ValidateDocument(doc)
	if err != nil {
		return nil, err
	}

	c.checkDirectiveUses(schema, doc)
	c.checkDefaults(schema, doc)
	if len(c.violations) > 0 {
		return nil, ir.ValidationError(c.violations)
	}
	return schema, nil
}

// ValidateDocument validates doc together with the GraphQL prelude. The first gqlparser
// error is returned as a single violation.
func ValidateDocument(doc *ast.SchemaDocument) (*ast.Schema, error) {
	prelude, err := parser.ParseSchema(validator.Prelude)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prelude: %w", err)
	}
	full := &ast.SchemaDocument{}
	full.Merge(prelude)
	full.Merge(doc)

	schema, err := validator.ValidateSchemaDocument(full)
	if err != nil {
		return nil, ir.ValidationError{violationFromGQL(err)}
	}
	return schema, nil
}

func violationFromGQL(err error) *ir.Violation {
	var gerr *gqlerror.Error
	var list gqlerror.List
	switch {
	case errors.As(err, &list) && len(list) > 0:
		gerr = list[0]
	case errors.As(err, &gerr):
	default:
		return ir.NewViolation(err.Error(), ir.Position{})
	}

	var pos ir.Position
	if file, ok := gerr.Extensions["file"].(string); ok {
		pos.File = file
	}
	if len(gerr.Locations) > 0 {
		pos.Line = gerr.Locations[0].Line
		pos.Column = gerr.Locations[0].Column
	}
	return ir.NewViolation(gerr.Message, pos)
}

func (c *checker) checkFields() {
	for _, def := range c.project.Definitions {
		switch {
		case def.Object != nil && len(def.Object.Fields) == 0:
			c.violations = append(c.violations, violationNoFields("Type", def.Object.Name, def.Object.Position))
		case def.Interface != nil && len(def.Interface.Fields) == 0:
			c.violations = append(c.violations, violationNoFields("Interface", def.Interface.Name, def.Interface.Position))
		}
	}
}

// checkIdentity makes sure every union member and interface implementor can report its
// GraphQL type name at runtime, either through a Typename method or a type switch case.
func (c *checker) checkIdentity() {
	objects := make(map[string]*ir.ObjectDefinition)
	for _, def := range c.project.Definitions {
		if def.Object != nil {
			objects[def.Object.Name] = def.Object
		}
	}
	for _, def := range c.project.Definitions {
		switch {
		case def.Union != nil:
			for _, name := range def.Union.Types {
				if obj := objects[name]; obj != nil {
					c.checkMember(def.Union.Name, def.Union.Position, obj)
				}
			}
		case def.Interface != nil:
			for _, obj := range implementors(c.project, def.Interface.Name) {
				c.checkMember(def.Interface.Name, def.Interface.Position, obj)
			}
		}
	}
}

func (c *checker) checkMember(abstract string, abstractPos ir.Position, obj *ir.ObjectDefinition) {
	if reason := identityProblem(obj); reason != "" {
		c.violations = append(c.violations, violationNoIdentity(abstract, obj.Name, reason, obj.Position, abstractPos))
	}
}

func identityProblem(obj *ir.ObjectDefinition) string {
	g := obj.Go
	switch {
	case g == nil:
		return "it has no Go type"
	case g.Instance != "":
		return "it is a materialized generic type"
	case obj.Typename != nil && obj.Typename.Literal != "" && obj.Typename.Literal != obj.Name:
		return fmt.Sprintf("its Typename method returns %q", obj.Typename.Literal)
	case obj.Typename != nil:
		return ""
	case !g.Exported:
		return "its Go type is not exported and it has no Typename method"
	}
	return ""
}

// implementors returns the objects implementing the named interface in document order.
func implementors(p *ir.Project, iface string) []*ir.ObjectDefinition {
	var out []*ir.ObjectDefinition
	for _, def := range p.Definitions {
		if def.Object == nil {
			continue
		}
		for _, name := range def.Object.Interfaces {
			if name == iface {
				out = append(out, def.Object)
				break
			}
		}
	}
	return out
}

func (c *checker) checkSingletons() {
	for _, group := range []struct {
		tag   string
		names []*ir.NameDefinition
	}{
		{"gqlContext", c.project.Contexts},
		{"gqlInfo", c.project.Infos},
	} {
		for _, nd := range group.names[min(1, len(group.names)):] {
			c.violations = append(c.violations, violationDuplicateSingleton(group.tag, nd.Position, group.names[0].Position))
		}
	}
}

func (c *checker) checkInterfaceDeclarations() {
	first := make(map[string]*ir.NameDefinition)
	for _, nd := range c.project.Interfaces {
		if prev, ok := first[nd.Name]; ok {
			c.violations = append(c.violations, violationMergedInterface(nd.Name, nd.Position, prev.Position))
			continue
		}
		first[nd.Name] = nd
	}
}

func (c *checker) checkDirectiveUses(schema *ast.Schema, doc *ast.SchemaDocument) {
	check := func(dirs ast.DirectiveList) {
		for _, d := range dirs {
			def := schema.Directives[d.Name]
			if def == nil {
				continue
			}
			pos := fromPosition(d.Position)
			for _, arg := range d.Arguments {
				argDef := def.Arguments.ForName(arg.Name)
				if argDef == nil {
					c.violations = append(c.violations, violationDirectiveArgument(d.Name, arg.Name, "unknown argument", pos))
					continue
				}
				if msg := checkValue(schema, arg.Value, argDef.Type); msg != "" {
					c.violations = append(c.violations, violationDirectiveArgument(d.Name, arg.Name, msg, pos))
				}
			}
			for _, argDef := range def.Arguments {
				if argDef.Type.NonNull && argDef.DefaultValue == nil && d.Arguments.ForName(argDef.Name) == nil {
					c.violations = append(c.violations, violationMissingDirectiveArgument(d.Name, argDef.Name, pos))
				}
			}
		}
	}
	for _, def := range doc.Definitions {
		check(def.Directives)
		for _, f := range def.Fields {
			check(f.Directives)
			for _, a := range f.Arguments {
				check(a.Directives)
			}
		}
		for _, v := range def.EnumValues {
			check(v.Directives)
		}
	}
}

func (c *checker) checkDefaults(schema *ast.Schema, doc *ast.SchemaDocument) {
	for _, def := range doc.Definitions {
		for _, f := range def.Fields {
			if f.DefaultValue != nil {
				if msg := checkValue(schema, f.DefaultValue, f.Type); msg != "" {
					c.violations = append(c.violations, violationInvalidDefault(def.Name, f.Name, msg, fromPosition(f.Position)))
				}
			}
			for _, a := range f.Arguments {
				if a.DefaultValue == nil {
					continue
				}
				if msg := checkValue(schema, a.DefaultValue, a.Type); msg != "" {
					owner := def.Name + "." + f.Name
					c.violations = append(c.violations, violationInvalidDefault(owner, a.Name, msg, fromPosition(a.Position)))
				}
			}
		}
	}
	for _, d := range doc.Directives {
		for _, a := range d.Arguments {
			if a.DefaultValue == nil {
				continue
			}
			if msg := checkValue(schema, a.DefaultValue, a.Type); msg != "" {
				c.violations = append(c.violations, violationInvalidDefault("@"+d.Name, a.Name, msg, fromPosition(a.Position)))
			}
		}
	}
}

func fromPosition(p *ast.Position) ir.Position {
	if p == nil {
		return ir.Position{}
	}
	pos := ir.Position{Line: p.Line, Column: p.Column}
	if p.Src != nil {
		pos.File = p.Src.Name
	}
	return pos
}
