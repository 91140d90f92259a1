package extract

import (
	"go/ast"
	"go/constant"
	"go/types"

	"github.com/hanpama/gqlderive/internal/host"
	"github.com/hanpama/gqlderive/internal/ir"
)

func (e *extractor) inputObject(pkg *host.Package, ts *ast.TypeSpec, sym *types.TypeName, info *docInfo, primary *tag) {
	e.allow(info, primary, "input types", tagAnnotate)
	st, ok := ts.Type.(*ast.StructType)
	if !ok || ts.Assign.IsValid() || ts.TypeParams != nil {
		e.report(violationWrongShape(primary.Name, "non-generic struct types", e.pos(primary.Pos)))
		return
	}
	def := &ir.InputDefinition{
		Name:        e.typeName(primary, sym, ts),
		Description: info.Description,
		Position:    e.pos(ts.Name.Pos()),
		Fields:      e.inputFields(pkg, st, "input types"),
		Directives:  e.annotations(info),
		Go:          goType(sym),
	}
	e.types.Define(sym, def.Name, ir.NameKindInput, def.Position)
	e.doc.Definitions = append(e.doc.Definitions, &ir.Definition{Input: def})
}

// enumType collects the typed string constants of sym in declaration order.
func (e *extractor) enumType(ts *ast.TypeSpec, sym *types.TypeName, info *docInfo, primary *tag) {
	e.allow(info, primary, "enum types", tagAnnotate)
	pos := e.pos(ts.Name.Pos())
	if ts.Assign.IsValid() || ts.TypeParams != nil {
		e.report(violationWrongShape(primary.Name, "non-generic defined types", e.pos(primary.Pos)))
		return
	}
	if basic, ok := sym.Type().Underlying().(*types.Basic); !ok || basic.Kind() != types.String {
		e.report(violationEnumNotString(sym.Name(), e.pos(primary.Pos)))
		return
	}
	def := &ir.EnumDefinition{
		Name:        e.typeName(primary, sym, ts),
		Description: info.Description,
		Position:    pos,
		Directives:  e.annotations(info),
		Go:          goType(sym),
	}

	for _, id := range e.consts[sym] {
		c, ok := e.prog.SymbolOf(id).(*types.Const)
		if !ok || c.Val().Kind() != constant.String {
			continue
		}
		vpos := e.pos(id.Pos())
		var cg *ast.CommentGroup
		if decl := e.prog.DeclarationOf(c); decl != nil {
			cg = decl.Doc
		}
		vinfo := parseDoc(cg)
		if vinfo.hasGraphQLTags() {
			vinfo = e.takeDoc(cg)
			e.allow(vinfo, nil, "enum values", tagDeprecated, tagAnnotate)
		}
		value := constant.StringVal(c.Val())
		if !graphQLName.MatchString(value) || value == "true" || value == "false" || value == "null" {
			e.report(violationEnumValueInvalid(value, vpos))
			continue
		}
		if !id.IsExported() {
			e.report(violationNotExported("Enum constant", id.Name, vpos))
			continue
		}
		def.Values = append(def.Values, &ir.EnumValueDefinition{
			Name:        value,
			Description: vinfo.Description,
			Position:    vpos,
			GoName:      id.Name,
			Deprecation: deprecation(vinfo),
			Directives:  e.annotations(vinfo),
		})
	}
	if len(def.Values) == 0 {
		e.report(violationEnumEmpty(sym.Name(), pos))
		return
	}

	e.types.Define(sym, def.Name, ir.NameKindEnum, def.Position)
	e.doc.Definitions = append(e.doc.Definitions, &ir.Definition{Enum: def})
}

// unionType records a union whose members are found once every object is known.
func (e *extractor) unionType(ts *ast.TypeSpec, sym *types.TypeName, info *docInfo, primary *tag) {
	e.allow(info, primary, "union types", tagAnnotate)
	if _, ok := ts.Type.(*ast.InterfaceType); !ok || ts.Assign.IsValid() || ts.TypeParams != nil {
		e.report(violationWrongShape(primary.Name, "non-generic Go interface types", e.pos(primary.Pos)))
		return
	}
	iface := sym.Type().Underlying().(*types.Interface)
	if !iface.IsMethodSet() {
		e.report(violationTypeSetInterface(e.pos(ts.Type.Pos())))
		return
	}
	if iface.NumMethods() == 0 {
		e.report(violationUnionWithoutMethods(sym.Name(), e.pos(primary.Pos)))
		return
	}
	def := &ir.UnionDefinition{
		Name:        e.typeName(primary, sym, ts),
		Description: info.Description,
		Position:    e.pos(ts.Name.Pos()),
		Directives:  e.annotations(info),
		Go:          goType(sym),
	}
	e.types.Define(sym, def.Name, ir.NameKindUnion, def.Position)
	e.doc.Definitions = append(e.doc.Definitions, &ir.Definition{Union: def})
}

// scalarType records a custom scalar. Naming a builtin scalar binds sym to it instead.
func (e *extractor) scalarType(ts *ast.TypeSpec, sym *types.TypeName, info *docInfo, primary *tag) {
	e.allow(info, primary, "scalar types", tagAnnotate)
	if ts.TypeParams != nil {
		e.report(violationWrongShape(primary.Name, "non-generic types", e.pos(primary.Pos)))
		return
	}
	pos := e.pos(ts.Name.Pos())
	name := e.typeName(primary, sym, ts)
	if ir.IsBuiltinScalar(name) {
		e.types.Define(sym, name, ir.NameKindScalar, pos)
		return
	}
	def := &ir.ScalarDefinition{
		Name:        name,
		Description: info.Description,
		Position:    pos,
		Directives:  e.annotations(info),
		Go:          goType(sym),
	}
	e.types.Define(sym, def.Name, ir.NameKindScalar, def.Position)
	e.doc.Definitions = append(e.doc.Definitions, &ir.Definition{Scalar: def})
}

// contextType records a @gqlContext or @gqlInfo declaration.
func (e *extractor) contextType(ts *ast.TypeSpec, sym *types.TypeName, info *docInfo, primary *tag) {
	e.allow(info, primary, "context types")
	if primary.Text != "" {
		e.report(violationTagTakesNoText(primary.Name, e.pos(primary.Pos)))
	}
	pos := e.pos(ts.Name.Pos())
	if primary.Name == tagContext {
		nd := e.types.Define(sym, sym.Name(), ir.NameKindContext, pos)
		e.result.Contexts = append(e.result.Contexts, nd)
		return
	}
	nd := e.types.Define(sym, sym.Name(), ir.NameKindInfo, pos)
	e.result.Infos = append(e.result.Infos, nd)
}
