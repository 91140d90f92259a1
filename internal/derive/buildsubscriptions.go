package derive

import (
	"github.com/hanpama/gqlderive/internal/ir"
)

// normalizeSubscriptions unwraps the channel of every Subscription field to its item type.
// The item is nullable when either the channel or its elements were.
func (b *builder) normalizeSubscriptions(doc *ir.Document) *ir.Document {
	out := doc.Clone()
	for _, def := range out.Definitions {
		isSubscription := def.Object != nil && def.Name() == b.schema.SubscriptionType
		for _, f := range def.Fields() {
			if !isSubscription {
				if f.Stream {
					b.addViolation(violationStreamOutsideSubscription(def.Name(), f.Name, f.Position))
				}
				continue
			}
			if !f.Stream {
				b.addViolation(violationNotAsyncIterable(f.Name, f.Position))
				continue
			}
			outerNullable := !f.Type.IsNonNull()
			item := ir.Nullable(f.Type).OfType
			if outerNullable {
				item = ir.Nullable(item)
			}
			f.Type = item
		}
	}
	return out
}
