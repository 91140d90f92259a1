package derive

import (
	"github.com/hanpama/gqlderive/internal/ir"
)

// resolveOwners turns abstract extensions into object or interface extensions once the
// kind of their first parameter is known.
func (b *builder) resolveOwners(doc *ir.Document) *ir.Document {
	out := doc.Clone()
	idx := namedIndex(out)

	for _, def := range out.Definitions {
		ext := def.Extension
		if ext == nil || ext.Kind != ir.ExtensionKindAbstract {
			continue
		}
		owner := ext.Owner
		if owner.Kind == ir.TypeExprKindParam {
			b.addViolation(violationGenericOwner(owner.Named, owner.Position))
			continue
		}
		target := idx[owner.Named]
		switch {
		case target == nil:
			b.addViolation(violationOwnerKind(owner.Named, "a built-in or context type", owner.Position))
			continue
		case len(owner.Args) > 0 || (target.Go() != nil && isGeneric(target.Go())):
			b.addViolation(violationGenericOwner(owner.Named, owner.Position))
			continue
		case target.Object != nil:
			ext.Kind = ir.ExtensionKindObject
		case target.Interface != nil:
			ext.Kind = ir.ExtensionKindInterface
		default:
			b.addViolation(violationOwnerKind(owner.Named, kindLabel(target), owner.Position))
			continue
		}
		ext.Name = owner.Named

		if target.Go() != nil && target.Go().Interface {
			for _, f := range ext.Fields {
				if src := sourceArg(f.Resolver); src != nil && src.Source == ir.SourceModePointer {
					b.addViolation(violationInterfacePointer(owner.Named, src.Position))
				}
			}
		}
	}
	return out
}

func sourceArg(r *ir.Resolver) *ir.ResolverArg {
	if r == nil {
		return nil
	}
	for _, a := range r.Args {
		if a.Kind == ir.ResolverArgKindSource {
			return a
		}
	}
	return nil
}

func kindLabel(def *ir.Definition) string {
	switch {
	case def.Object != nil:
		return "object type"
	case def.Interface != nil:
		return "interface"
	case def.Union != nil:
		return "union"
	case def.Input != nil:
		return "input type"
	case def.Enum != nil:
		return "enum"
	case def.Scalar != nil:
		return "scalar"
	}
	return "extension"
}
