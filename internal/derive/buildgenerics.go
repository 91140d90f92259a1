package derive

import (
	"go/ast"
	"go/types"
	"strings"

	"github.com/hanpama/gqlderive/internal/ir"
)

// maxInstantiationDepth bounds chains of instances created while materializing other
// instances. Only templates that feed themselves ever-growing arguments reach it.
const maxInstantiationDepth = 32

type template struct {
	def    *ir.Definition
	params []*types.TypeName
	// position of the type parameter list
	paramsPos ir.Position
}

// materializeGenerics removes generic templates from the document and adds one concrete
// definition for every distinct instantiation reachable from non-generic definitions.
// A generic declaration is a template only when one of its fields or arguments refers to a
// type parameter; otherwise all of its instantiations share a single definition.
func (b *builder) materializeGenerics(doc *ir.Document) *ir.Document {
	out := doc.Clone()
	b.templates = make(map[string]*template)
	b.instances = make(map[string]*ir.Definition)
	b.shared = make(map[string]*ir.Definition)
	b.depth = make(map[*ir.Definition]int)
	b.unbounded = make(map[*template]bool)

	var defs []*ir.Definition
	for _, def := range out.Definitions {
		if g := def.Go(); g != nil && isGeneric(g) {
			if usesTypeParam(def) {
				g.Template = true
				b.templates[def.Name()] = b.newTemplate(def)
				continue
			}
			b.shared[def.Name()] = def
		}
		defs = append(defs, def)
	}

	b.queue = append([]*ir.Definition(nil), defs...)
	var materialized []*ir.Definition
	for len(b.queue) > 0 {
		def := b.queue[0]
		b.queue = b.queue[1:]
		if def.Go() != nil && def.Go().Instance != "" {
			materialized = append(materialized, def)
		}
		eachTypeExpr(def, func(t *ir.TypeExpr) { b.instantiate(t, b.depth[def]) })
		for _, h := range heritageOf(def) {
			b.checkHeritageTarget(h)
		}
	}
	eachDirectiveTypeExpr(out.Directives, func(t *ir.TypeExpr) { b.instantiate(t, 0) })

	out.Definitions = append(defs, materialized...)
	return out
}

// isGeneric reports whether g is a generic type declaration. Aliases of instantiations
// are not.
func isGeneric(g *ir.GoType) bool {
	if g.Symbol == nil {
		return false
	}
	named, ok := types.Unalias(g.Symbol.Type()).(*types.Named)
	return ok && named.Obj() == g.Symbol && named.TypeParams().Len() > 0
}

func usesTypeParam(def *ir.Definition) bool {
	found := false
	eachTypeExpr(def, func(root *ir.TypeExpr) {
		root.Walk(func(t *ir.TypeExpr) {
			if t.Kind == ir.TypeExprKindParam {
				found = true
			}
		})
	})
	return found
}

func (b *builder) newTemplate(def *ir.Definition) *template {
	g := def.Go()
	t := &template{def: def, params: b.oracle.TypeParametersOf(g.Symbol), paramsPos: def.Position()}
	if decl := b.oracle.DeclarationOf(g.Symbol); decl != nil {
		if spec, ok := decl.Node.(*ast.TypeSpec); ok && spec.TypeParams != nil {
			t.paramsPos = ir.PositionOf(b.oracle.Position(spec.TypeParams.Opening))
		}
	}
	return t
}

// instantiate rewrites every generic reference inside t to the derived name of its
// instance, materializing the instance on first use. depth is the instantiation depth of
// the definition holding t.
func (b *builder) instantiate(t *ir.TypeExpr, depth int) {
	switch t.Kind {
	case ir.TypeExprKindList, ir.TypeExprKindNonNull:
		b.instantiate(t.OfType, depth)
		return
	case ir.TypeExprKindParam:
		return
	}

	tmpl := b.templates[t.Named]
	if len(t.Args) == 0 {
		if tmpl != nil {
			b.addViolation(violationTemplateWithoutArgs(t.Named, t.Position, tmpl.paramsPos))
		}
		return
	}
	if tmpl == nil {
		if def := b.shared[t.Named]; def != nil {
			b.shareInstance(def, t)
		}
		return
	}
	for _, a := range t.Args {
		b.instantiate(a, depth)
	}

	if len(t.Args) != len(tmpl.params) {
		b.addViolation(violationTypeArgCount(t.Named, len(tmpl.params), len(t.Args), t.Position, tmpl.paramsPos))
		return
	}
	names := make([]string, len(t.Args))
	goArgs := make([]types.Type, len(t.Args))
	for i, a := range t.Args {
		named := a.OfType
		if a.Kind != ir.TypeExprKindNonNull || named.Kind != ir.TypeExprKindNamed || len(named.Args) > 0 {
			b.addViolation(violationTypeArgNotReference(t.Named, a.String(), a.Position, tmpl.paramsPos))
			return
		}
		names[i] = named.Named
		goArgs[i] = named.Go
	}
	name := strings.Join(names, "") + t.Named

	inst, ok := b.instances[name]
	if !ok {
		if depth+1 > maxInstantiationDepth {
			if !b.unbounded[tmpl] {
				b.unbounded[tmpl] = true
				b.addViolation(violationUnboundedInstantiation(t.Named, t.Position, tmpl.paramsPos))
			}
			return
		}
		inst = b.materialize(tmpl, name, t.Args, goArgs, t.Position)
		if inst == nil {
			return
		}
		// Memoized before its fields are visited so self-references find it.
		b.instances[name] = inst
		b.depth[inst] = depth + 1
		b.queue = append(b.queue, inst)
	}

	t.Named = name
	t.Args = nil
	t.Go = inst.Go().Type
}

func (b *builder) materialize(tmpl *template, name string, args []*ir.TypeExpr, goArgs []types.Type, pos ir.Position) *ir.Definition {
	inst := tmpl.def.Clone()
	g := inst.Go()
	typ, err := types.Instantiate(nil, tmpl.def.Go().Type, goArgs, true)
	if err != nil {
		b.addViolation(violationInstantiate(tmpl.def.Name(), err, pos, tmpl.paramsPos))
		return nil
	}
	g.Type = typ
	g.Template = false
	g.Instance = name
	setName(inst, name)
	if inst.Object != nil {
		// A literal typename names the template, never the instance.
		inst.Object.Typename = nil
	}

	eachTypeExpr(inst, func(root *ir.TypeExpr) {
		root.Walk(func(t *ir.TypeExpr) {
			if t.Kind != ir.TypeExprKindParam || t.Param >= len(args) {
				return
			}
			pos := t.Position
			*t = *args[t.Param].OfType.Clone()
			t.Position = pos
		})
	})
	return inst
}

// shareInstance records the Go instantiation behind a reference to a shared generic and
// drops the reference's arguments. Inside a materialized template the reference still
// names the template's type parameters, so its Go type is rebuilt from the arguments.
func (b *builder) shareInstance(def *ir.Definition, t *ir.TypeExpr) {
	typ := t.Go
	if hasTypeParam(typ) {
		goArgs := make([]types.Type, len(t.Args))
		for i, a := range t.Args {
			named := a.OfType
			if a.Kind != ir.TypeExprKindNonNull || named.Kind != ir.TypeExprKindNamed || named.Go == nil {
				b.addViolation(violationTypeArgNotReference(t.Named, a.String(), a.Position, def.Position()))
				return
			}
			goArgs[i] = named.Go
		}
		inst, err := types.Instantiate(nil, def.Go().Type, goArgs, true)
		if err != nil {
			b.addViolation(violationInstantiate(def.Name(), err, t.Position, def.Position()))
			return
		}
		typ = inst
		t.Go = inst
	}
	t.Args = nil
	if typ == nil {
		return
	}
	g := def.Go()
	for _, known := range g.Instances {
		if types.Identical(known, typ) {
			return
		}
	}
	g.Instances = append(g.Instances, typ)
}

func hasTypeParam(t types.Type) bool {
	switch t := t.(type) {
	case *types.TypeParam:
		return true
	case *types.Pointer:
		return hasTypeParam(t.Elem())
	case *types.Slice:
		return hasTypeParam(t.Elem())
	case *types.Named:
		for i := range t.TypeArgs().Len() {
			if hasTypeParam(t.TypeArgs().At(i)) {
				return true
			}
		}
	}
	return false
}

// checkHeritageTarget reports embeds of generic templates; heritage only follows concrete
// definitions.
func (b *builder) checkHeritageTarget(h *ir.Heritage) {
	if !h.Type.IsUnresolved() {
		return
	}
	nd := b.lookupSymbol(b.types.Reference(h.Type.Ref))
	if nd == nil {
		return
	}
	if tmpl := b.templates[nd.Name]; tmpl != nil && tmpl.def.Go().Symbol == nd.Symbol {
		b.addViolation(violationTemplateHeritage(nd.Name, h.Position, tmpl.paramsPos))
	}
}
