package derive

import (
	"github.com/hanpama/gqlderive/internal/ir"
	language "github.com/hanpama/gqlderive/internal/language"
)

// coerceEnumDefaults rewrites string defaults in enum positions to enum literals, so
// `default:"\"PUBLIC\""` prints as `= PUBLIC`.
func (b *builder) coerceEnumDefaults(doc *ir.Document) *ir.Document {
	out := doc.Clone()
	idx := namedIndex(out)
	coerceArgs := func(args []*ir.ArgumentDefinition) {
		for _, a := range args {
			if a.DefaultValue != nil {
				a.DefaultValue = coerceValue(idx, a.DefaultValue, a.Type)
			}
		}
	}
	for _, def := range out.Definitions {
		for _, f := range def.Fields() {
			coerceArgs(f.Args)
		}
		if def.Input != nil {
			for _, f := range def.Input.Fields {
				if f.DefaultValue != nil {
					f.DefaultValue = coerceValue(idx, f.DefaultValue, f.Type)
				}
			}
		}
	}
	for _, d := range out.Directives {
		coerceArgs(d.Args)
	}
	return out
}

// coerceValue returns v with string literals in enum positions turned into enum values.
// Values are shared with the parser, so rewritten nodes are copies.
func coerceValue(idx map[string]*ir.Definition, v *language.Value, t *ir.TypeExpr) *language.Value {
	t = ir.Nullable(t)
	if t.Kind == ir.TypeExprKindList {
		if v.Kind != language.ListValue {
			return coerceValue(idx, v, t.OfType)
		}
		c := *v
		c.Children = make(language.ChildValueList, len(v.Children))
		for i, child := range v.Children {
			cc := *child
			cc.Value = coerceValue(idx, child.Value, t.OfType)
			c.Children[i] = &cc
		}
		return &c
	}

	def := idx[t.Named]
	switch {
	case def == nil:
		return v
	case def.Enum != nil && v.Kind == language.StringValue:
		c := *v
		c.Kind = language.EnumValue
		return &c
	case def.Input != nil && v.Kind == language.ObjectValue:
		c := *v
		c.Children = make(language.ChildValueList, len(v.Children))
		for i, child := range v.Children {
			cc := *child
			for _, f := range def.Input.Fields {
				if f.Name == child.Name {
					cc.Value = coerceValue(idx, child.Value, f.Type)
					break
				}
			}
			c.Children[i] = &cc
		}
		return &c
	}
	return v
}
