package derive

import (
	"github.com/hanpama/gqlderive/internal/ir"
)

// applyNullability strips the top-level non-null of output fields when the schema is
// nullable by default. @killsParentOnException opts a field out and asks the runtime to
// check the value instead.
func (b *builder) applyNullability(doc *ir.Document) *ir.Document {
	out := doc.Clone()
	for _, def := range out.Definitions {
		for _, f := range def.Fields() {
			if f.KillsParentOnException {
				switch {
				case !b.opts.NullableByDefault:
					b.addViolation(violationKillsParentDisabled(def.Name(), f.Name, f.Position))
				case !f.Type.IsNonNull():
					b.addViolation(violationKillsParentNullable(def.Name(), f.Name, f.Position))
				default:
					f.NullCheck = true
				}
				continue
			}
			if b.opts.NullableByDefault {
				f.Type = ir.Nullable(f.Type)
			}
		}
	}
	return out
}
