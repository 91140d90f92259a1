package derive

import (
	"sort"

	"github.com/hanpama/gqlderive/internal/ir"
)

// ancestor is a definition whose fields flow into a descendant through path.
type ancestor struct {
	def  *ir.Definition
	path []*ir.EmbedStep
}

// propagateHeritage copies inherited fields and interfaces into every object and interface.
// Fields a definition declares itself, including its extension fields, take precedence.
func (b *builder) propagateHeritage(doc *ir.Document) *ir.Document {
	out := doc.Clone()
	b.byName = namedIndex(out)
	b.local = make(map[*ir.Definition][]*ir.FieldDefinition)
	b.extFields = make(map[string][]*ir.FieldDefinition)
	b.ancestors = make(map[*ir.Definition][]*ancestor)
	b.ifaces = nil

	for _, def := range out.Definitions {
		switch {
		case def.Extension != nil:
			if def.Extension.Kind != ir.ExtensionKindAbstract {
				b.extFields[def.Extension.Name] = append(b.extFields[def.Extension.Name], def.Extension.Fields...)
			}
		case def.Object != nil, def.Interface != nil:
			b.local[def] = def.Fields()
			if def.Interface != nil {
				b.ifaces = append(b.ifaces, def)
			}
		}
	}
	sort.SliceStable(b.ifaces, func(i, j int) bool { return b.ifaces[i].Name() < b.ifaces[j].Name() })

	for _, def := range out.Definitions {
		if def.Object == nil && def.Interface == nil {
			continue
		}
		fields, interfaces := b.inherit(def)
		setFields(def, fields)
		if def.Object != nil {
			def.Object.Interfaces = interfaces
		} else {
			def.Interface.Interfaces = interfaces
		}
	}
	return out
}

func (b *builder) inherit(def *ir.Definition) ([]*ir.FieldDefinition, []string) {
	own := b.local[def]
	seen := make(map[string]bool)
	for _, f := range own {
		seen[f.Name] = true
	}
	for _, f := range b.extFields[def.Name()] {
		seen[f.Name] = true
	}
	interfaces := append([]string(nil), interfacesOf(def)...)
	implemented := make(map[string]bool)
	for _, name := range interfaces {
		implemented[name] = true
	}

	fields := append([]*ir.FieldDefinition(nil), own...)
	for _, a := range b.ancestorsOf(def) {
		if a.def.Interface != nil && !implemented[a.def.Name()] {
			implemented[a.def.Name()] = true
			interfaces = append(interfaces, a.def.Name())
		}
		inherited := append(append([]*ir.FieldDefinition(nil), b.local[a.def]...), b.extFields[a.def.Name()]...)
		for _, f := range inherited {
			if seen[f.Name] {
				continue
			}
			seen[f.Name] = true
			c := f.Clone()
			c.Resolver = f.Resolver.WithPath(a.path)
			fields = append(fields, c)
		}
	}
	return fields, interfaces
}

func interfacesOf(def *ir.Definition) []string {
	switch {
	case def.Object != nil:
		return def.Object.Interfaces
	case def.Interface != nil:
		return def.Interface.Interfaces
	}
	return nil
}

// ancestorsOf lists the ancestors of def depth first in embed order, followed by the
// interfaces an object satisfies structurally in name order. Results are cached per run.
func (b *builder) ancestorsOf(def *ir.Definition) []*ancestor {
	if cached, ok := b.ancestors[def]; ok {
		return cached
	}
	// Guards embed cycles such as `type A struct{ *A }`.
	b.ancestors[def] = nil

	var out []*ancestor
	visited := map[*ir.Definition]bool{def: true}
	add := func(a *ancestor) {
		if visited[a.def] {
			return
		}
		visited[a.def] = true
		out = append(out, a)
	}

	viaField := def.Go() != nil && !def.Go().Interface
	for _, h := range heritageOf(def) {
		target := b.heritageTarget(h)
		if target == nil {
			continue
		}
		var path []*ir.EmbedStep
		if viaField {
			path = []*ir.EmbedStep{{Field: h.Field, Pointer: h.Pointer}}
		}
		add(&ancestor{def: target, path: path})
		for _, a := range b.ancestorsOf(target) {
			add(&ancestor{def: a.def, path: append(append([]*ir.EmbedStep(nil), path...), a.path...)})
		}
	}

	if def.Object != nil && def.Object.Go != nil {
		for _, iface := range b.ifaces {
			if implements(def.Object.Go.Type, interfaceOf(iface.Interface.Go)) {
				add(&ancestor{def: iface})
			}
		}
	}

	b.ancestors[def] = out
	return out
}

// heritageTarget returns the object or interface an embed refers to, or nil when the
// embedded type is not part of the schema.
func (b *builder) heritageTarget(h *ir.Heritage) *ir.Definition {
	if !h.Type.IsUnresolved() {
		return nil
	}
	nd := b.lookupSymbol(b.types.Reference(h.Type.Ref))
	if nd == nil {
		return nil
	}
	target := b.byName[nd.Name]
	if target == nil || (target.Object == nil && target.Interface == nil) {
		return nil
	}
	if g := target.Go(); g == nil || g.Symbol == nil || g.Symbol != nd.Symbol {
		return nil
	}
	return target
}
