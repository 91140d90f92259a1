package ir

import (
	"go/types"
	"sort"

	language "github.com/hanpama/gqlderive/internal/language"
)

// Project is the derived schema together with the resolver metadata of every field.
type Project struct {
	Schema      *Schema                `json:"schema"`
	Definitions []*Definition          `json:"definitions"`
	Directives  []*DirectiveDefinition `json:"directives"`

	// Declarations tagged @gqlContext and @gqlInfo, in discovery order.
	Contexts []*NameDefinition `json:"contexts,omitempty"`
	Infos    []*NameDefinition `json:"infos,omitempty"`
	// Every Go declaration tagged @gqlInterface, including ones sharing a GraphQL name.
	Interfaces []*NameDefinition `json:"interfaces,omitempty"`
}

type Schema struct {
	QueryType        string `json:"queryType,omitempty"`
	MutationType     string `json:"mutationType,omitempty"`
	SubscriptionType string `json:"subscriptionType,omitempty"`
}

// Document is the working set threaded through the derive passes.
type Document struct {
	Definitions []*Definition
	Directives  []*DirectiveDefinition
}

type Definition struct {
	Object    *ObjectDefinition    `json:"object,omitempty"`
	Interface *InterfaceDefinition `json:"interface,omitempty"`
	Union     *UnionDefinition     `json:"union,omitempty"`
	Input     *InputDefinition     `json:"input,omitempty"`
	Enum      *EnumDefinition      `json:"enum,omitempty"`
	Scalar    *ScalarDefinition    `json:"scalar,omitempty"`
	Extension *ExtensionDefinition `json:"extension,omitempty"`
}

type ObjectDefinition struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Position    Position           `json:"position"`
	Fields      []*FieldDefinition `json:"fields"`
	Interfaces  []string           `json:"interfaces,omitempty"`
	Directives  []*DirectiveUse    `json:"directives,omitempty"`
	Heritage    []*Heritage        `json:"heritage,omitempty"`
	Typename    *Typename          `json:"typename,omitempty"`
	Go          *GoType            `json:"go"`
}

type InterfaceDefinition struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Position    Position           `json:"position"`
	Fields      []*FieldDefinition `json:"fields"`
	Interfaces  []string           `json:"interfaces,omitempty"`
	Directives  []*DirectiveUse    `json:"directives,omitempty"`
	Heritage    []*Heritage        `json:"heritage,omitempty"`
	Go          *GoType            `json:"go"`
}

type UnionDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Position    Position        `json:"position"`
	Types       []string        `json:"types"`
	Directives  []*DirectiveUse `json:"directives,omitempty"`
	Go          *GoType         `json:"go"`
}

type InputDefinition struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description,omitempty"`
	Position    Position                `json:"position"`
	Fields      []*InputValueDefinition `json:"fields"`
	Directives  []*DirectiveUse         `json:"directives,omitempty"`
	Go          *GoType                 `json:"go"`
}

type EnumDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Position    Position               `json:"position"`
	Values      []*EnumValueDefinition `json:"values"`
	Directives  []*DirectiveUse        `json:"directives,omitempty"`
	Go          *GoType                `json:"go"`
}

type EnumValueDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Position    Position        `json:"position"`
	GoName      string          `json:"goName"`
	Deprecation *Deprecation    `json:"deprecation,omitempty"`
	Directives  []*DirectiveUse `json:"directives,omitempty"`
}

type ScalarDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Position    Position        `json:"position"`
	Directives  []*DirectiveUse `json:"directives,omitempty"`
	Go          *GoType         `json:"go"`
}

// ExtensionDefinition carries fields declared away from their owner: free functions,
// static methods and root operation fields. An ABSTRACT extension has an owner reference
// whose kind (object or interface) is not known until names are resolved.
type ExtensionDefinition struct {
	Kind     ExtensionKind      `json:"kind"`
	Name     string             `json:"name,omitempty"`
	Owner    *TypeExpr          `json:"owner,omitempty"`
	Position Position           `json:"position"`
	Fields   []*FieldDefinition `json:"fields"`
}

type ExtensionKind string

const (
	ExtensionKindObject    ExtensionKind = "OBJECT"
	ExtensionKindInterface ExtensionKind = "INTERFACE"
	ExtensionKindAbstract  ExtensionKind = "ABSTRACT"
)

type FieldDefinition struct {
	Name                   string                `json:"name"`
	Description            string                `json:"description,omitempty"`
	Position               Position              `json:"position"`
	Args                   []*ArgumentDefinition `json:"args,omitempty"`
	Type                   *TypeExpr             `json:"type"`
	Directives             []*DirectiveUse       `json:"directives,omitempty"`
	Deprecation            *Deprecation          `json:"deprecation,omitempty"`
	KillsParentOnException bool                  `json:"killsParentOnException,omitempty"`
	NullCheck              bool                  `json:"nullCheck,omitempty"`
	Stream                 bool                  `json:"stream,omitempty"`
	Fallible               bool                  `json:"fallible,omitempty"`
	Resolver               *Resolver             `json:"resolver"`
}

type ArgumentDefinition struct {
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Position     Position        `json:"position"`
	Type         *TypeExpr       `json:"type"`
	DefaultValue *language.Value `json:"defaultValue,omitempty"`
	Directives   []*DirectiveUse `json:"directives,omitempty"`
	Deprecation  *Deprecation    `json:"deprecation,omitempty"`
}

type InputValueDefinition struct {
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Position     Position        `json:"position"`
	GoName       string          `json:"goName"`
	Type         *TypeExpr       `json:"type"`
	DefaultValue *language.Value `json:"defaultValue,omitempty"`
	Directives   []*DirectiveUse `json:"directives,omitempty"`
	Deprecation  *Deprecation    `json:"deprecation,omitempty"`
}

type DirectiveDefinition struct {
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Position    Position              `json:"position"`
	Args        []*ArgumentDefinition `json:"args,omitempty"`
	Repeatable  bool                  `json:"repeatable,omitempty"`
	Locations   []string              `json:"locations"`
}

// DirectiveUse is a directive application written with @gqlAnnotate.
type DirectiveUse struct {
	Name      string                `json:"name"`
	Arguments language.ArgumentList `json:"arguments,omitempty"`
	Position  Position              `json:"position"`
}

type Deprecation struct {
	Reason string `json:"reason,omitempty"`
}

// Heritage is an embedded type that may contribute inherited fields and interfaces.
// Embeds of types that are not part of the schema are ignored.
type Heritage struct {
	Type     *TypeExpr `json:"type"`
	Field    string    `json:"field,omitempty"`
	Pointer  bool      `json:"pointer,omitempty"`
	Position Position  `json:"position"`
}

// Typename records a `Typename() string` method on the backing Go type.
// Literal is set when the method body is a single string literal return.
type Typename struct {
	Literal  string   `json:"literal,omitempty"`
	Position Position `json:"position"`
}

// GoType identifies the Go type a definition was derived from.
type GoType struct {
	Symbol    *types.TypeName `json:"-"`
	Type      types.Type      `json:"-"`
	Package   string          `json:"package"`
	Name      string          `json:"name"`
	Interface bool            `json:"interface,omitempty"`
	Exported  bool            `json:"exported,omitempty"`
	// Template marks a generic declaration whose fields refer to its type parameters. Each
	// instantiation becomes its own definition.
	Template bool `json:"template,omitempty"`
	// Instance is the template instantiation name (e.g. "UserEdge") of a materialized definition.
	Instance string `json:"instance,omitempty"`
	// Instances are the instantiations backing a generic declaration that is not a template.
	// They all share its one definition.
	Instances []types.Type `json:"-"`
}

func (d *Definition) Name() string {
	switch {
	case d.Object != nil:
		return d.Object.Name
	case d.Interface != nil:
		return d.Interface.Name
	case d.Union != nil:
		return d.Union.Name
	case d.Input != nil:
		return d.Input.Name
	case d.Enum != nil:
		return d.Enum.Name
	case d.Scalar != nil:
		return d.Scalar.Name
	case d.Extension != nil:
		return d.Extension.Name
	}
	return ""
}

func (d *Definition) Position() Position {
	switch {
	case d.Object != nil:
		return d.Object.Position
	case d.Interface != nil:
		return d.Interface.Position
	case d.Union != nil:
		return d.Union.Position
	case d.Input != nil:
		return d.Input.Position
	case d.Enum != nil:
		return d.Enum.Position
	case d.Scalar != nil:
		return d.Scalar.Position
	case d.Extension != nil:
		return d.Extension.Position
	}
	return Position{}
}

// Go returns the backing Go type, or nil for extensions.
func (d *Definition) Go() *GoType {
	switch {
	case d.Object != nil:
		return d.Object.Go
	case d.Interface != nil:
		return d.Interface.Go
	case d.Union != nil:
		return d.Union.Go
	case d.Input != nil:
		return d.Input.Go
	case d.Enum != nil:
		return d.Enum.Go
	case d.Scalar != nil:
		return d.Scalar.Go
	}
	return nil
}

// Fields returns the output fields of an object, interface or extension.
func (d *Definition) Fields() []*FieldDefinition {
	switch {
	case d.Object != nil:
		return d.Object.Fields
	case d.Interface != nil:
		return d.Interface.Fields
	case d.Extension != nil:
		return d.Extension.Fields
	}
	return nil
}

func (d *Definition) Kind() NameKind {
	switch {
	case d.Object != nil:
		return NameKindType
	case d.Interface != nil:
		return NameKindInterface
	case d.Union != nil:
		return NameKindUnion
	case d.Input != nil:
		return NameKindInput
	case d.Enum != nil:
		return NameKindEnum
	case d.Scalar != nil:
		return NameKindScalar
	}
	return ""
}

// Lookup returns the named (non-extension) definition with the given name.
func (p *Project) Lookup(name string) *Definition {
	for _, def := range p.Definitions {
		if def.Extension == nil && def.Name() == name {
			return def
		}
	}
	return nil
}

// ResolverEntry is one row of the resolver metadata table.
type ResolverEntry struct {
	Type     string    `json:"type"`
	Field    string    `json:"field"`
	Resolver *Resolver `json:"resolver"`
}

// Resolvers returns the resolver descriptor of every object field sorted by type and field.
// Interface fields are omitted since they are always executed through an implementor.
func (p *Project) Resolvers() []*ResolverEntry {
	var entries []*ResolverEntry
	for _, def := range p.Definitions {
		if def.Object == nil {
			continue
		}
		for _, f := range def.Object.Fields {
			entries = append(entries, &ResolverEntry{Type: def.Object.Name, Field: f.Name, Resolver: f.Resolver})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Type != entries[j].Type {
			return entries[i].Type < entries[j].Type
		}
		return entries[i].Field < entries[j].Field
	})
	return entries
}

func FieldByName(fields []*FieldDefinition, name string) *FieldDefinition {
	for _, f := range fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}
