// Package schema lowers a derived project to a gqlparser schema document, validates it and
// prints it as SDL.
package schema

import (
	"sort"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/hanpama/gqlderive/internal/ir"
)

// kindOrder fixes the order definitions are printed in.
var kindOrder = map[ast.DefinitionKind]int{
	ast.Object:      0,
	ast.Interface:   1,
	ast.Union:       2,
	ast.Enum:        3,
	ast.InputObject: 4,
	ast.Scalar:      5,
}

// BuildFromIR lowers the project to a schema document. Every node carries the Go source
// position it was derived from, so gqlparser errors point at Go code.
func BuildFromIR(p *ir.Project) *ast.SchemaDocument {
	doc := &ast.SchemaDocument{}
	for _, def := range p.Definitions {
		if def.Object != nil {
			doc.Definitions = append(doc.Definitions, buildObject(def.Object))
		} else if def.Interface != nil {
			doc.Definitions = append(doc.Definitions, buildInterface(def.Interface))
		} else if def.Enum != nil {
			doc.Definitions = append(doc.Definitions, buildEnum(def.Enum))
		} else if def.Input != nil {
			doc.Definitions = append(doc.Definitions, buildInput(def.Input))
		} else if def.Union != nil {
			doc.Definitions = append(doc.Definitions, buildUnion(def.Union))
		} else if def.Scalar != nil {
			doc.Definitions = append(doc.Definitions, buildScalar(def.Scalar))
		}
	}
	for _, dir := range p.Directives {
		doc.Directives = append(doc.Directives, buildDirective(dir))
	}
	sortDocument(doc)
	return doc
}

// sortDocument orders definitions by kind and name and directives by name. Fields keep
// their declaration order.
func sortDocument(doc *ast.SchemaDocument) {
	sort.SliceStable(doc.Definitions, func(i, j int) bool {
		a, b := doc.Definitions[i], doc.Definitions[j]
		if kindOrder[a.Kind] != kindOrder[b.Kind] {
			return kindOrder[a.Kind] < kindOrder[b.Kind]
		}
		return a.Name < b.Name
	})
	sort.SliceStable(doc.Directives, func(i, j int) bool {
		return doc.Directives[i].Name < doc.Directives[j].Name
	})
}

func buildObject(def *ir.ObjectDefinition) *ast.Definition {
	t := &ast.Definition{
		Kind:        ast.Object,
		Name:        def.Name,
		Description: def.Description,
		Interfaces:  sortedStrings(def.Interfaces),
		Directives:  buildDirectiveUses(def.Directives, nil),
		Position:    position(def.Position),
	}
	for _, fieldDef := range def.Fields {
		t.Fields = append(t.Fields, buildField(fieldDef))
	}
	return t
}

func buildInterface(def *ir.InterfaceDefinition) *ast.Definition {
	t := &ast.Definition{
		Kind:        ast.Interface,
		Name:        def.Name,
		Description: def.Description,
		Interfaces:  sortedStrings(def.Interfaces),
		Directives:  buildDirectiveUses(def.Directives, nil),
		Position:    position(def.Position),
	}
	for _, fieldDef := range def.Fields {
		t.Fields = append(t.Fields, buildField(fieldDef))
	}
	return t
}

func buildField(def *ir.FieldDefinition) *ast.FieldDefinition {
	pos := position(def.Position)
	f := &ast.FieldDefinition{
		Name:        def.Name,
		Description: def.Description,
		Type:        buildTypeRef(def.Type, pos),
		Directives:  buildDirectiveUses(def.Directives, def.Deprecation),
		Position:    pos,
	}
	for _, arg := range def.Args {
		f.Arguments = append(f.Arguments, buildArgument(arg))
	}
	return f
}

func buildEnum(def *ir.EnumDefinition) *ast.Definition {
	t := &ast.Definition{
		Kind:        ast.Enum,
		Name:        def.Name,
		Description: def.Description,
		Directives:  buildDirectiveUses(def.Directives, nil),
		Position:    position(def.Position),
	}
	for _, v := range def.Values {
		t.EnumValues = append(t.EnumValues, buildEnumValue(v))
	}
	return t
}

func buildEnumValue(v *ir.EnumValueDefinition) *ast.EnumValueDefinition {
	return &ast.EnumValueDefinition{
		Name:        v.Name,
		Description: v.Description,
		Directives:  buildDirectiveUses(v.Directives, v.Deprecation),
		Position:    position(v.Position),
	}
}

func buildTypeRef(t *ir.TypeExpr, pos *ast.Position) *ast.Type {
	switch t.Kind {
	case ir.TypeExprKindNonNull:
		inner := buildTypeRef(t.OfType, pos)
		inner.NonNull = true
		return inner
	case ir.TypeExprKindList:
		return &ast.Type{Elem: buildTypeRef(t.OfType, pos), Position: pos}
	}
	return &ast.Type{NamedType: t.Named, Position: pos}
}

func buildInputValue(v *ir.InputValueDefinition) *ast.FieldDefinition {
	pos := position(v.Position)
	return &ast.FieldDefinition{
		Name:         v.Name,
		Description:  v.Description,
		Type:         buildTypeRef(v.Type, pos),
		DefaultValue: v.DefaultValue,
		Directives:   buildDirectiveUses(v.Directives, v.Deprecation),
		Position:     pos,
	}
}

func buildArgument(a *ir.ArgumentDefinition) *ast.ArgumentDefinition {
	pos := position(a.Position)
	return &ast.ArgumentDefinition{
		Name:         a.Name,
		Description:  a.Description,
		Type:         buildTypeRef(a.Type, pos),
		DefaultValue: a.DefaultValue,
		Directives:   buildDirectiveUses(a.Directives, a.Deprecation),
		Position:     pos,
	}
}

func buildInput(def *ir.InputDefinition) *ast.Definition {
	t := &ast.Definition{
		Kind:        ast.InputObject,
		Name:        def.Name,
		Description: def.Description,
		Directives:  buildDirectiveUses(def.Directives, nil),
		Position:    position(def.Position),
	}
	for _, v := range def.Fields {
		t.Fields = append(t.Fields, buildInputValue(v))
	}
	return t
}

func buildUnion(def *ir.UnionDefinition) *ast.Definition {
	return &ast.Definition{
		Kind:        ast.Union,
		Name:        def.Name,
		Description: def.Description,
		// Sort union type names for deterministic output
		Types:      sortedStrings(def.Types),
		Directives: buildDirectiveUses(def.Directives, nil),
		Position:   position(def.Position),
	}
}

func buildScalar(def *ir.ScalarDefinition) *ast.Definition {
	return &ast.Definition{
		Kind:        ast.Scalar,
		Name:        def.Name,
		Description: def.Description,
		Directives:  buildDirectiveUses(def.Directives, nil),
		Position:    position(def.Position),
	}
}

func buildDirective(dir *ir.DirectiveDefinition) *ast.DirectiveDefinition {
	d := &ast.DirectiveDefinition{
		Name:         dir.Name,
		Description:  dir.Description,
		IsRepeatable: dir.Repeatable,
		Position:     position(dir.Position),
	}
	for _, loc := range dir.Locations {
		d.Locations = append(d.Locations, ast.DirectiveLocation(loc))
	}
	for _, arg := range dir.Args {
		d.Arguments = append(d.Arguments, buildArgument(arg))
	}
	return d
}

// buildDirectiveUses lowers @gqlAnnotate applications followed by @deprecated.
func buildDirectiveUses(uses []*ir.DirectiveUse, dep *ir.Deprecation) ast.DirectiveList {
	var out ast.DirectiveList
	for _, use := range uses {
		out = append(out, &ast.Directive{
			Name:      use.Name,
			Arguments: use.Arguments,
			Position:  position(use.Position),
		})
	}
	if dep != nil {
		d := &ast.Directive{Name: "deprecated", Position: position(ir.Position{})}
		if dep.Reason != "" {
			d.Arguments = ast.ArgumentList{{
				Name:  "reason",
				Value: &ast.Value{Kind: ast.StringValue, Raw: dep.Reason},
			}}
		}
		out = append(out, d)
	}
	return out
}

// position converts a Go source position. gqlparser dereferences positions while
// reporting errors, so the result is never nil.
func position(p ir.Position) *ast.Position {
	return &ast.Position{
		Line:   p.Line,
		Column: p.Column,
		Src:    &ast.Source{Name: p.File},
	}
}

func sortedStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
