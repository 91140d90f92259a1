// Package codegen emits an executable graphql-go schema for a derived project.
package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"go/types"
	"sort"

	"github.com/dave/jennifer/jen"

	"github.com/hanpama/gqlderive/internal/ir"
)

const (
	graphqlPkg      = "github.com/graphql-go/graphql"
	graphqlASTPkg   = "github.com/graphql-go/graphql/language/ast"
	mapstructurePkg = "github.com/go-viper/mapstructure/v2"
)

const generatedNotice = "Code generated by gqlderive. DO NOT EDIT."

type Options struct {
	// PackagePath and PackageName identify the package the file is generated into.
	// Types of that package are referenced unqualified.
	PackagePath string
	PackageName string
	// Header is an extra comment placed above the generated-code notice.
	Header string
}

// Generate returns the formatted Go source of NewSchema for p.
func Generate(p *ir.Project, opts Options) ([]byte, error) {
	if opts.PackageName == "" {
		return nil, errors.New("codegen: package name is required")
	}
	g := newGenerator(p, opts)
	f := g.file()
	if len(g.errs) > 0 {
		return nil, errors.Join(g.errs...)
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render generated code: %w", err)
	}
	return buf.Bytes(), nil
}

type generator struct {
	project *ir.Project
	opts    Options
	defs    map[string]*ir.Definition
	emitted map[string]bool
	helpers map[string]bool
	errs    []error
}

func newGenerator(p *ir.Project, opts Options) *generator {
	g := &generator{
		project: p,
		opts:    opts,
		defs:    make(map[string]*ir.Definition),
		emitted: make(map[string]bool),
		helpers: make(map[string]bool),
	}
	for _, def := range p.Definitions {
		if def.Extension != nil {
			continue
		}
		if _, ok := g.defs[def.Name()]; !ok {
			g.defs[def.Name()] = def
		}
	}
	return g
}

func (g *generator) fail(format string, args ...any) {
	g.errs = append(g.errs, fmt.Errorf(format, args...))
}

func (g *generator) use(helper string) { g.helpers[helper] = true }

func (g *generator) file() *jen.File {
	f := jen.NewFilePathName(g.opts.PackagePath, g.opts.PackageName)
	if g.opts.Header != "" {
		f.HeaderComment(g.opts.Header)
	}
	f.HeaderComment(generatedNotice)
	f.ImportName(graphqlPkg, "graphql")
	f.ImportName(mapstructurePkg, "mapstructure")

	f.Comment("NewSchema builds the executable schema.")
	f.Add(g.newSchema())
	if len(g.project.Contexts) > 0 {
		f.Line()
		f.Add(g.withContext(g.project.Contexts[0]))
		g.use(helperContextKey)
	}
	g.emitHelpers(f)
	return f
}

var kindRank = map[ir.NameKind]int{
	ir.NameKindScalar:    0,
	ir.NameKindEnum:      1,
	ir.NameKindInput:     2,
	ir.NameKindInterface: 3,
	ir.NameKindType:      4,
	ir.NameKindUnion:     5,
}

// ordered returns the named definitions in emission order. Interfaces precede objects
// and objects precede unions, so config literals only refer to assigned variables.
func (g *generator) ordered() []*ir.Definition {
	var defs []*ir.Definition
	for _, def := range g.defs {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool {
		ri, rj := kindRank[defs[i].Kind()], kindRank[defs[j].Kind()]
		if ri != rj {
			return ri < rj
		}
		return defs[i].Name() < defs[j].Name()
	})
	return defs
}

func varName(name string) string { return "type" + name }

func configType(def *ir.Definition) string {
	switch {
	case def.Object != nil:
		return "Object"
	case def.Interface != nil:
		return "Interface"
	case def.Union != nil:
		return "Union"
	case def.Enum != nil:
		return "Enum"
	case def.Input != nil:
		return "InputObject"
	}
	return "Scalar"
}

func (g *generator) newSchema() jen.Code {
	defs := g.ordered()

	var body []jen.Code
	if len(defs) > 0 {
		body = append(body, jen.Var().DefsFunc(func(grp *jen.Group) {
			for _, def := range defs {
				grp.Id(varName(def.Name())).Op("*").Qual(graphqlPkg, configType(def))
			}
		}))
	}

	var all []jen.Code
	for _, def := range defs {
		name := def.Name()
		if g.emitted[name] {
			continue
		}
		g.emitted[name] = true
		body = append(body, jen.Id(varName(name)).Op("=").Add(g.typeDecl(def)))
		all = append(all, jen.Id(varName(name)))
	}

	var directives []jen.Code
	for _, d := range sortedDirectives(g.project.Directives) {
		directives = append(directives, g.directiveDecl(d))
	}

	config := jen.Dict{
		jen.Id("Types"): jen.Index().Qual(graphqlPkg, "Type").Values(all...),
	}
	for field, name := range map[string]string{
		"Query":        g.project.Schema.QueryType,
		"Mutation":     g.project.Schema.MutationType,
		"Subscription": g.project.Schema.SubscriptionType,
	} {
		if name != "" && g.defs[name] != nil {
			config[jen.Id(field)] = jen.Id(varName(name))
		}
	}
	if len(directives) > 0 {
		specified := jen.Append(
			jen.Index().Op("*").Qual(graphqlPkg, "Directive").Values(),
			jen.Qual(graphqlPkg, "SpecifiedDirectives").Op("..."),
		)
		config[jen.Id("Directives")] = jen.Append(append([]jen.Code{specified}, directives...)...)
	}
	body = append(body, jen.Return(jen.Qual(graphqlPkg, "NewSchema").Call(
		jen.Qual(graphqlPkg, "SchemaConfig").Values(config),
	)))

	return jen.Func().Id("NewSchema").Params().Params(jen.Qual(graphqlPkg, "Schema"), jen.Error()).Block(body...)
}

func (g *generator) typeDecl(def *ir.Definition) jen.Code {
	switch {
	case def.Object != nil:
		return g.objectDecl(def.Object)
	case def.Interface != nil:
		return g.interfaceDecl(def.Interface)
	case def.Union != nil:
		return g.unionDecl(def.Union)
	case def.Enum != nil:
		return g.enumDecl(def.Enum)
	case def.Input != nil:
		return g.inputDecl(def.Input)
	}
	return g.scalarDecl(def.Scalar)
}

func describe(d jen.Dict, description string) {
	if description != "" {
		d[jen.Id("Description")] = jen.Lit(description)
	}
}

func deprecate(d jen.Dict, dep *ir.Deprecation) {
	if dep == nil {
		return
	}
	reason := dep.Reason
	if reason == "" {
		reason = "No longer supported"
	}
	d[jen.Id("DeprecationReason")] = jen.Lit(reason)
}

func (g *generator) objectDecl(obj *ir.ObjectDefinition) jen.Code {
	cfg := jen.Dict{jen.Id("Name"): jen.Lit(obj.Name)}
	describe(cfg, obj.Description)
	if len(obj.Interfaces) > 0 {
		var ifaces []jen.Code
		for _, name := range sortedStrings(obj.Interfaces) {
			ifaces = append(ifaces, jen.Id(varName(name)))
		}
		cfg[jen.Id("Interfaces")] = jen.Index().Op("*").Qual(graphqlPkg, "Interface").Values(ifaces...)
	}
	cfg[jen.Id("Fields")] = g.fieldsThunk(obj.Fields, func(f *ir.FieldDefinition, d jen.Dict) {
		g.fieldResolvers(obj, f, d)
	})
	return jen.Qual(graphqlPkg, "NewObject").Call(jen.Qual(graphqlPkg, "ObjectConfig").Values(cfg))
}

func (g *generator) interfaceDecl(iface *ir.InterfaceDefinition) jen.Code {
	cfg := jen.Dict{jen.Id("Name"): jen.Lit(iface.Name)}
	describe(cfg, iface.Description)
	cfg[jen.Id("Fields")] = g.fieldsThunk(iface.Fields, nil)
	cfg[jen.Id("ResolveType")] = g.resolveType(g.implementors(iface.Name))
	return jen.Qual(graphqlPkg, "NewInterface").Call(jen.Qual(graphqlPkg, "InterfaceConfig").Values(cfg))
}

func (g *generator) unionDecl(u *ir.UnionDefinition) jen.Code {
	cfg := jen.Dict{jen.Id("Name"): jen.Lit(u.Name)}
	describe(cfg, u.Description)
	var members []*ir.ObjectDefinition
	var refs []jen.Code
	for _, name := range sortedStrings(u.Types) {
		if def := g.defs[name]; def != nil && def.Object != nil {
			members = append(members, def.Object)
		}
		refs = append(refs, jen.Id(varName(name)))
	}
	cfg[jen.Id("Types")] = jen.Index().Op("*").Qual(graphqlPkg, "Object").Values(refs...)
	cfg[jen.Id("ResolveType")] = g.resolveType(members)
	return jen.Qual(graphqlPkg, "NewUnion").Call(jen.Qual(graphqlPkg, "UnionConfig").Values(cfg))
}

func (g *generator) enumDecl(e *ir.EnumDefinition) jen.Code {
	cfg := jen.Dict{jen.Id("Name"): jen.Lit(e.Name)}
	describe(cfg, e.Description)
	values := jen.Dict{}
	for _, v := range e.Values {
		vc := jen.Dict{jen.Id("Value"): jen.Qual(e.Go.Package, v.GoName)}
		describe(vc, v.Description)
		deprecate(vc, v.Deprecation)
		values[jen.Lit(v.Name)] = jen.Op("&").Qual(graphqlPkg, "EnumValueConfig").Values(vc)
	}
	cfg[jen.Id("Values")] = jen.Qual(graphqlPkg, "EnumValueConfigMap").Values(values)
	return jen.Qual(graphqlPkg, "NewEnum").Call(jen.Qual(graphqlPkg, "EnumConfig").Values(cfg))
}

func (g *generator) inputDecl(in *ir.InputDefinition) jen.Code {
	cfg := jen.Dict{jen.Id("Name"): jen.Lit(in.Name)}
	describe(cfg, in.Description)
	fields := jen.Dict{}
	for _, f := range in.Fields {
		fc := jen.Dict{jen.Id("Type"): g.typeRef(f.Type)}
		describe(fc, f.Description)
		if f.DefaultValue != nil {
			fc[jen.Id("DefaultValue")] = g.valueCode(f.DefaultValue, f.Type)
		}
		fields[jen.Lit(f.Name)] = jen.Op("&").Qual(graphqlPkg, "InputObjectFieldConfig").Values(fc)
	}
	cfg[jen.Id("Fields")] = jen.Qual(graphqlPkg, "InputObjectConfigFieldMapThunk").Call(
		jen.Func().Params().Qual(graphqlPkg, "InputObjectConfigFieldMap").Block(
			jen.Return(jen.Qual(graphqlPkg, "InputObjectConfigFieldMap").Values(fields)),
		),
	)
	return jen.Qual(graphqlPkg, "NewInputObject").Call(jen.Qual(graphqlPkg, "InputObjectConfig").Values(cfg))
}

func (g *generator) scalarDecl(s *ir.ScalarDefinition) jen.Code {
	g.use(helperIdentity)
	g.use(helperParseLiteral)
	cfg := jen.Dict{
		jen.Id("Name"):         jen.Lit(s.Name),
		jen.Id("Serialize"):    jen.Id("gqlIdentity"),
		jen.Id("ParseValue"):   jen.Id("gqlIdentity"),
		jen.Id("ParseLiteral"): jen.Id("gqlParseLiteral"),
	}
	describe(cfg, s.Description)
	return jen.Qual(graphqlPkg, "NewScalar").Call(jen.Qual(graphqlPkg, "ScalarConfig").Values(cfg))
}

func (g *generator) directiveDecl(d *ir.DirectiveDefinition) jen.Code {
	cfg := jen.Dict{jen.Id("Name"): jen.Lit(d.Name)}
	describe(cfg, d.Description)
	var locs []jen.Code
	for _, loc := range d.Locations {
		locs = append(locs, jen.Lit(loc))
	}
	cfg[jen.Id("Locations")] = jen.Index().String().Values(locs...)
	if len(d.Args) > 0 {
		cfg[jen.Id("Args")] = g.arguments(d.Args)
	}
	return jen.Qual(graphqlPkg, "NewDirective").Call(jen.Qual(graphqlPkg, "DirectiveConfig").Values(cfg))
}

// fieldsThunk declares fields lazily so object and interface types may refer to each other.
func (g *generator) fieldsThunk(fields []*ir.FieldDefinition, resolvers func(*ir.FieldDefinition, jen.Dict)) jen.Code {
	entries := jen.Dict{}
	for _, f := range fields {
		typ := f.Type
		if f.NullCheck {
			typ = ir.NonNullType(typ)
		}
		fc := jen.Dict{jen.Id("Type"): g.typeRef(typ)}
		describe(fc, f.Description)
		deprecate(fc, f.Deprecation)
		if len(f.Args) > 0 {
			fc[jen.Id("Args")] = g.arguments(f.Args)
		}
		if resolvers != nil {
			resolvers(f, fc)
		}
		entries[jen.Lit(f.Name)] = jen.Op("&").Qual(graphqlPkg, "Field").Values(fc)
	}
	return jen.Qual(graphqlPkg, "FieldsThunk").Call(
		jen.Func().Params().Qual(graphqlPkg, "Fields").Block(
			jen.Return(jen.Qual(graphqlPkg, "Fields").Values(entries)),
		),
	)
}

func (g *generator) arguments(args []*ir.ArgumentDefinition) jen.Code {
	entries := jen.Dict{}
	for _, a := range args {
		ac := jen.Dict{jen.Id("Type"): g.typeRef(a.Type)}
		describe(ac, a.Description)
		if a.DefaultValue != nil {
			ac[jen.Id("DefaultValue")] = g.valueCode(a.DefaultValue, a.Type)
		}
		entries[jen.Lit(a.Name)] = jen.Op("&").Qual(graphqlPkg, "ArgumentConfig").Values(ac)
	}
	return jen.Qual(graphqlPkg, "FieldConfigArgument").Values(entries)
}

func (g *generator) typeRef(t *ir.TypeExpr) jen.Code {
	switch t.Kind {
	case ir.TypeExprKindNonNull:
		return jen.Qual(graphqlPkg, "NewNonNull").Call(g.typeRef(t.OfType))
	case ir.TypeExprKindList:
		return jen.Qual(graphqlPkg, "NewList").Call(g.typeRef(t.OfType))
	case ir.TypeExprKindNamed:
		if ir.IsBuiltinScalar(t.Named) {
			return jen.Qual(graphqlPkg, t.Named)
		}
		if g.defs[t.Named] == nil {
			g.fail("codegen: unknown type %s", t.Named)
		}
		return jen.Id(varName(t.Named))
	}
	g.fail("codegen: unexpected type expression %s", t)
	return jen.Nil()
}

// resolveType asks the value for its Typename first and falls back to a type switch over
// the Go types of members.
func (g *generator) resolveType(members []*ir.ObjectDefinition) jen.Code {
	var body []jen.Code

	body = append(body, jen.If(
		jen.List(jen.Id("v"), jen.Id("ok")).Op(":=").Id("p").Dot("Value").Assert(
			jen.Interface(jen.Id("Typename").Params().String()),
		),
		jen.Id("ok"),
	).Block(jen.Switch(jen.Id("v").Dot("Typename").Call()).BlockFunc(func(grp *jen.Group) {
		for _, m := range members {
			grp.Case(jen.Lit(m.Name)).Block(jen.Return(jen.Id(varName(m.Name))))
		}
	})))

	var concrete, ifaces []jen.Code
	for _, m := range members {
		if !g.referable(m.Go) {
			continue
		}
		ret := jen.Return(jen.Id(varName(m.Name)))
		for _, t := range backingTypes(m.Go) {
			if m.Go.Interface {
				ifaces = append(ifaces, jen.Case(g.goType(t)).Block(ret))
				continue
			}
			concrete = append(concrete, jen.Case(jen.Op("*").Add(g.goType(t)), g.goType(t)).Block(ret))
		}
	}
	if cases := append(concrete, ifaces...); len(cases) > 0 {
		body = append(body, jen.Switch(jen.Id("p").Dot("Value").Assert(jen.Type())).Block(cases...))
	}
	body = append(body, jen.Return(jen.Nil()))

	return jen.Func().Params(jen.Id("p").Qual(graphqlPkg, "ResolveTypeParams")).Op("*").Qual(graphqlPkg, "Object").Block(body...)
}

// referable reports whether generated code can name the Go type.
func (g *generator) referable(t *ir.GoType) bool {
	if t == nil || t.Type == nil {
		return false
	}
	return t.Exported || t.Package == g.opts.PackagePath
}

func (g *generator) implementors(iface string) []*ir.ObjectDefinition {
	var out []*ir.ObjectDefinition
	for _, def := range g.ordered() {
		if def.Object == nil {
			continue
		}
		for _, name := range def.Object.Interfaces {
			if name == iface {
				out = append(out, def.Object)
				break
			}
		}
	}
	return out
}

// withContext declares the setter for the @gqlContext value read by resolvers.
func (g *generator) withContext(nd *ir.NameDefinition) jen.Code {
	typ := nd.Symbol.Type()
	param := g.goType(typ)
	if !types.IsInterface(typ) {
		param = jen.Op("*").Add(param)
	}
	return jen.Comment("WithGraphQLContext returns a copy of ctx carrying the value resolvers receive as their context parameter.").Line().
		Func().Id("WithGraphQLContext").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("value").Add(param),
	).Qual("context", "Context").Block(
		jen.Return(jen.Qual("context", "WithValue").Call(jen.Id("ctx"), jen.Id("gqlContextKey").Values(), jen.Id("value"))),
	)
}

func sortedDirectives(ds []*ir.DirectiveDefinition) []*ir.DirectiveDefinition {
	out := append([]*ir.DirectiveDefinition(nil), ds...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sortedStrings(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
