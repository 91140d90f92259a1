package derive

import (
	"github.com/hanpama/gqlderive/internal/ir"
)

// mergeExtensions moves extension fields into their base definitions. Root operation
// types that only exist as extensions are synthesized.
func (b *builder) mergeExtensions(doc *ir.Document) *ir.Document {
	out := doc.Clone()
	idx := namedIndex(out)

	var defs []*ir.Definition
	var exts []*ir.ExtensionDefinition
	for _, def := range out.Definitions {
		if def.Extension != nil {
			exts = append(exts, def.Extension)
			continue
		}
		defs = append(defs, def)
	}

	for _, ext := range exts {
		target := idx[ext.Name]
		if target == nil {
			if !ir.IsRootType(ext.Name) {
				b.addViolation(violationExtendUnknown(ext.Name, ext.Position))
				continue
			}
			target = &ir.Definition{Object: &ir.ObjectDefinition{Name: ext.Name, Position: ext.Position}}
			idx[ext.Name] = target
			defs = append(defs, target)
		}
		if target.Object == nil && target.Interface == nil {
			b.addViolation(violationExtendKind(ext.Name, kindLabel(target), ext.Position))
			continue
		}
		fields := target.Fields()
		for _, f := range ext.Fields {
			if prev := ir.FieldByName(fields, f.Name); prev != nil {
				b.addViolation(violationDuplicateField(ext.Name, f.Name, f.Position, prev.Position))
				continue
			}
			fields = append(fields, f)
		}
		setFields(target, fields)
	}

	for _, root := range []struct {
		name string
		dst  *string
	}{
		{ir.QueryType, &b.schema.QueryType},
		{ir.MutationType, &b.schema.MutationType},
		{ir.SubscriptionType, &b.schema.SubscriptionType},
	} {
		if def := idx[root.name]; def != nil && def.Object != nil {
			*root.dst = root.name
		}
	}

	out.Definitions = defs
	return out
}
