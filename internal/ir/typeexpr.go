package ir

import (
	"go/types"
	"strings"
)

// TypeExpr represents a GraphQL type expression (e.g. String, [String!], String!).
//
// A NAMED expression whose Named is UnresolvedName is a placeholder: Ref points into the
// TypeContext reference table until name resolution rewrites it. Args carries the type
// arguments of a generic reference, and a PARAM expression stands for the Param-th type
// parameter of the enclosing declaration.
type TypeExpr struct {
	Kind     TypeExprKind `json:"kind"`
	OfType   *TypeExpr    `json:"ofType,omitempty"`
	Named    string       `json:"named,omitempty"`
	Args     []*TypeExpr  `json:"args,omitempty"`
	Param    int          `json:"param,omitempty"`
	Ref      RefID        `json:"-"`
	Go       types.Type   `json:"-"`
	Position Position     `json:"-"`
}

type TypeExprKind string

const (
	TypeExprKindNamed   TypeExprKind = "NAMED"
	TypeExprKindList    TypeExprKind = "LIST"
	TypeExprKindNonNull TypeExprKind = "NON_NULL"
	TypeExprKindParam   TypeExprKind = "PARAM"
)

// UnresolvedName is the sentinel name of a placeholder. It is not a legal GraphQL name.
const UnresolvedName = "<unresolved>"

func NamedType(name string) *TypeExpr { return &TypeExpr{Kind: TypeExprKindNamed, Named: name} }
func ListType(t *TypeExpr) *TypeExpr  { return &TypeExpr{Kind: TypeExprKindList, OfType: t} }

func NonNullType(t *TypeExpr) *TypeExpr {
	if t.Kind == TypeExprKindNonNull {
		return t
	}
	return &TypeExpr{Kind: TypeExprKindNonNull, OfType: t, Position: t.Position}
}

// Nullable strips one top-level non-null wrapper.
func Nullable(t *TypeExpr) *TypeExpr {
	if t != nil && t.Kind == TypeExprKindNonNull {
		return t.OfType
	}
	return t
}

func (t *TypeExpr) IsNonNull() bool { return t != nil && t.Kind == TypeExprKindNonNull }

func (t *TypeExpr) IsUnresolved() bool {
	return t != nil && t.Kind == TypeExprKindNamed && t.Ref != 0
}

// NamedType returns the innermost NAMED or PARAM expression.
func (t *TypeExpr) NamedType() *TypeExpr {
	for t != nil && (t.Kind == TypeExprKindList || t.Kind == TypeExprKindNonNull) {
		t = t.OfType
	}
	return t
}

// Walk calls fn for t and every nested expression including type arguments.
func (t *TypeExpr) Walk(fn func(*TypeExpr)) {
	if t == nil {
		return
	}
	fn(t)
	t.OfType.Walk(fn)
	for _, a := range t.Args {
		a.Walk(fn)
	}
}

func (t *TypeExpr) String() string {
	if t == nil {
		return "Unknown"
	}

	switch t.Kind {
	case TypeExprKindNamed:
		if len(t.Args) == 0 {
			return t.Named
		}
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = a.String()
		}
		return t.Named + "[" + strings.Join(args, ", ") + "]"
	case TypeExprKindParam:
		return t.Named
	case TypeExprKindList:
		return "[" + t.OfType.String() + "]"
	case TypeExprKindNonNull:
		inner := t.OfType.String()
		if strings.HasSuffix(inner, "!") {
			return inner
		}
		return inner + "!"
	default:
		return "Unknown"
	}
}
