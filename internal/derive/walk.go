package derive

import (
	"go/types"
	"sort"

	"github.com/hanpama/gqlderive/internal/ir"
)

// eachTypeExpr calls fn with the root of every type expression of def except its heritage.
func eachTypeExpr(def *ir.Definition, fn func(*ir.TypeExpr)) {
	for _, f := range def.Fields() {
		fn(f.Type)
		for _, a := range f.Args {
			fn(a.Type)
		}
	}
	if def.Input != nil {
		for _, f := range def.Input.Fields {
			fn(f.Type)
		}
	}
	if def.Extension != nil && def.Extension.Owner != nil {
		fn(def.Extension.Owner)
	}
}

func eachDirectiveTypeExpr(dirs []*ir.DirectiveDefinition, fn func(*ir.TypeExpr)) {
	for _, d := range dirs {
		for _, a := range d.Args {
			fn(a.Type)
		}
	}
}

func heritageOf(def *ir.Definition) []*ir.Heritage {
	switch {
	case def.Object != nil:
		return def.Object.Heritage
	case def.Interface != nil:
		return def.Interface.Heritage
	}
	return nil
}

func setName(def *ir.Definition, name string) {
	switch {
	case def.Object != nil:
		def.Object.Name = name
	case def.Interface != nil:
		def.Interface.Name = name
	case def.Union != nil:
		def.Union.Name = name
	case def.Input != nil:
		def.Input.Name = name
	case def.Enum != nil:
		def.Enum.Name = name
	case def.Scalar != nil:
		def.Scalar.Name = name
	}
}

func setFields(def *ir.Definition, fields []*ir.FieldDefinition) {
	switch {
	case def.Object != nil:
		def.Object.Fields = fields
	case def.Interface != nil:
		def.Interface.Fields = fields
	case def.Extension != nil:
		def.Extension.Fields = fields
	}
}

// namedIndex maps GraphQL names to the first non-extension definition carrying them.
func namedIndex(doc *ir.Document) map[string]*ir.Definition {
	idx := make(map[string]*ir.Definition, len(doc.Definitions))
	for _, def := range doc.Definitions {
		if def.Extension != nil {
			continue
		}
		if _, ok := idx[def.Name()]; !ok {
			idx[def.Name()] = def
		}
	}
	return idx
}

// implements reports whether t or *t satisfies iface.
func implements(t types.Type, iface *types.Interface) bool {
	if t == nil || iface == nil {
		return false
	}
	if types.Implements(t, iface) {
		return true
	}
	if types.IsInterface(t) {
		return false
	}
	return types.Implements(types.NewPointer(t), iface)
}

func interfaceOf(g *ir.GoType) *types.Interface {
	if g == nil || g.Type == nil {
		return nil
	}
	iface, _ := g.Type.Underlying().(*types.Interface)
	return iface
}

func sortedNames(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}
