package derive

import (
	"go/types"

	"github.com/hanpama/gqlderive/internal/ir"
)

// resolveNames replaces every placeholder with the GraphQL name of its symbol. Heritage
// references are left alone; the heritage pass looks them up itself and ignores embeds
// that are not part of the schema.
func (b *builder) resolveNames(doc *ir.Document) *ir.Document {
	out := doc.Clone()
	for _, def := range out.Definitions {
		eachTypeExpr(def, b.resolveExpr)
	}
	eachDirectiveTypeExpr(out.Directives, b.resolveExpr)
	return out
}

func (b *builder) resolveExpr(root *ir.TypeExpr) {
	root.Walk(func(t *ir.TypeExpr) {
		if !t.IsUnresolved() {
			return
		}
		ref := b.types.Reference(t.Ref)
		if tp, ok := ref.Symbol.Type().(*types.TypeParam); ok {
			t.Kind = ir.TypeExprKindParam
			t.Param = tp.Index()
			t.Named = ref.Symbol.Name()
			t.Ref = 0
			return
		}
		nd, v := b.lookup(ref)
		if v != nil {
			b.addViolation(v)
			return
		}
		t.Named = nd.Name
		t.Ref = 0
	})
}

// lookup finds the name definition of a reference's symbol. Untagged aliases are followed
// one step at a time so that a tagged alias in the middle of a chain wins.
func (b *builder) lookup(ref *ir.Reference) (*ir.NameDefinition, *ir.Violation) {
	sym := ref.Symbol
	if _, err := b.oracle.ResolveAlias(sym); err != nil {
		return nil, violationAliasCycle(ref.Symbol.Name(), ref.Position)
	}
	for {
		if nd, ok := b.types.Lookup(sym); ok {
			return nd, nil
		}
		if name := builtinScalar(sym); name != "" {
			return &ir.NameDefinition{Name: name, Kind: ir.NameKindScalar, Symbol: sym}, nil
		}

		next := b.oracle.AliasTarget(sym)
		if next == nil {
			return nil, violationUnresolvedType(ref.Symbol.Name(), ref.Position)
		}
		sym = next
	}
}

// lookupSymbol is lookup without diagnostics.
func (b *builder) lookupSymbol(ref *ir.Reference) *ir.NameDefinition {
	nd, _ := b.lookup(ref)
	return nd
}

func builtinScalar(sym types.Object) string {
	if sym == nil || sym.Parent() != types.Universe {
		return ""
	}
	basic, ok := sym.Type().(*types.Basic)
	if !ok {
		return ""
	}
	switch info := basic.Info(); {
	case info&types.IsString != 0:
		return ir.StringScalar
	case info&types.IsBoolean != 0:
		return ir.BooleanScalar
	case info&types.IsInteger != 0:
		return ir.IntScalar
	case info&types.IsFloat != 0:
		return ir.FloatScalar
	}
	return ""
}
