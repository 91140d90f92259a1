package derive

import (
	"github.com/hanpama/gqlderive/internal/ir"
)

// collectUnionMembers fills every union with the object types whose Go type implements the
// union's interface.
func (b *builder) collectUnionMembers(doc *ir.Document) *ir.Document {
	out := doc.Clone()
	for _, def := range out.Definitions {
		u := def.Union
		if u == nil {
			continue
		}
		iface := interfaceOf(u.Go)
		var members []string
		for _, cand := range out.Definitions {
			if cand.Object == nil || cand.Object.Go == nil {
				continue
			}
			if implements(cand.Object.Go.Type, iface) {
				members = append(members, cand.Object.Name)
			}
		}
		if len(members) == 0 {
			b.addViolation(violationEmptyUnion(u.Name, u.Go.Name, u.Position))
			continue
		}
		u.Types = sortedNames(members)
	}
	return out
}
