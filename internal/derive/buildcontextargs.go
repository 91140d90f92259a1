package derive

import (
	"go/types"

	"github.com/hanpama/gqlderive/internal/ir"
)

// filterContextArgs reclassifies named resolver arguments whose type carries @gqlContext
// or @gqlInfo and drops them from the GraphQL arguments. Context types found anywhere else
// are reported.
func (b *builder) filterContextArgs(doc *ir.Document) *ir.Document {
	out := doc.Clone()
	for _, def := range out.Definitions {
		for _, f := range def.Fields() {
			b.filterFieldArgs(f)
		}
	}

	special := make(map[string]bool)
	for _, nd := range append(append([]*ir.NameDefinition(nil), b.result.Contexts...), b.result.Infos...) {
		special[nd.Name] = true
	}
	if len(special) == 0 {
		return out
	}
	idx := namedIndex(out)
	check := func(t *ir.TypeExpr) {
		named := t.NamedType()
		if special[named.Named] && idx[named.Named] == nil {
			b.addViolation(violationContextPosition(named.Named, named.Position))
		}
	}
	for _, def := range out.Definitions {
		eachTypeExpr(def, check)
	}
	eachDirectiveTypeExpr(out.Directives, check)
	return out
}

func (b *builder) filterFieldArgs(f *ir.FieldDefinition) {
	if f.Resolver == nil {
		return
	}
	removed := make(map[string]bool)
	for _, ra := range f.Resolver.Args {
		if ra.Kind != ir.ResolverArgKindNamed {
			continue
		}
		switch b.contextKind(ra.Go) {
		case ir.NameKindContext:
			ra.Kind = ir.ResolverArgKindContext
		case ir.NameKindInfo:
			ra.Kind = ir.ResolverArgKindInfo
		default:
			continue
		}
		removed[ra.Name] = true
	}
	if len(removed) == 0 {
		return
	}
	args := f.Args[:0:0]
	for _, a := range f.Args {
		if !removed[a.Name] {
			args = append(args, a)
		}
	}
	f.Args = args
}

func (b *builder) contextKind(t types.Type) ir.NameKind {
	if ptr, ok := types.Unalias(t).(*types.Pointer); ok {
		t = ptr.Elem()
	}
	var obj types.Object
	switch t := t.(type) {
	case *types.Alias:
		obj = t.Obj()
	case *types.Named:
		obj = t.Obj()
	default:
		return ""
	}
	if _, err := b.oracle.ResolveAlias(obj); err != nil {
		return ""
	}
	for obj != nil {
		if nd, ok := b.types.Lookup(obj); ok {
			return nd.Kind
		}
		obj = b.oracle.AliasTarget(obj)
	}
	return ""
}
