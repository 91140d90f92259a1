package ir

import (
	"fmt"
	"go/types"
)

// NameDefinition associates a Go declaration with its GraphQL name.
type NameDefinition struct {
	Name     string       `json:"name"`
	Kind     NameKind     `json:"kind"`
	Symbol   types.Object `json:"-"`
	Position Position     `json:"position"`
}

type NameKind string

const (
	NameKindType      NameKind = "TYPE"
	NameKindInterface NameKind = "INTERFACE"
	NameKindUnion     NameKind = "UNION"
	NameKindScalar    NameKind = "SCALAR"
	NameKindInput     NameKind = "INPUT"
	NameKindEnum      NameKind = "ENUM"
	NameKindContext   NameKind = "CONTEXT"
	NameKindInfo      NameKind = "INFO"
)

// RefID indexes the TypeContext reference table. The zero value means "no reference".
type RefID int

// Reference is the side-table entry of a placeholder TypeExpr.
type Reference struct {
	Symbol   types.Object
	Position Position
}

// TypeContext is the symbol table of one compilation. It is append-only: names are
// recorded during extraction and read by every later pass.
type TypeContext struct {
	names map[types.Object]*NameDefinition
	order []*NameDefinition
	refs  []*Reference
}

func NewTypeContext() *TypeContext {
	return &TypeContext{names: make(map[types.Object]*NameDefinition)}
}

// Define records the GraphQL name of sym. Recording a second definition for the same
// symbol is a bug in the extractor and panics.
func (c *TypeContext) Define(sym types.Object, name string, kind NameKind, pos Position) *NameDefinition {
	if prev, ok := c.names[sym]; ok {
		panic(fmt.Sprintf("ir: symbol %s already defined as %s %q", sym.Name(), prev.Kind, prev.Name))
	}
	def := &NameDefinition{Name: name, Kind: kind, Symbol: sym, Position: pos}
	c.names[sym] = def
	c.order = append(c.order, def)
	return def
}

func (c *TypeContext) Lookup(sym types.Object) (*NameDefinition, bool) {
	def, ok := c.names[sym]
	return def, ok
}

// Definitions returns every name definition in registration order.
func (c *TypeContext) Definitions() []*NameDefinition {
	return append([]*NameDefinition(nil), c.order...)
}

// NewReference returns a placeholder pointing at sym.
func (c *TypeContext) NewReference(sym types.Object, pos Position) *TypeExpr {
	c.refs = append(c.refs, &Reference{Symbol: sym, Position: pos})
	return &TypeExpr{
		Kind:     TypeExprKindNamed,
		Named:    UnresolvedName,
		Ref:      RefID(len(c.refs)),
		Position: pos,
	}
}

func (c *TypeContext) Reference(id RefID) *Reference {
	if id <= 0 || int(id) > len(c.refs) {
		panic(fmt.Sprintf("ir: dangling reference %d", id))
	}
	return c.refs[id-1]
}
