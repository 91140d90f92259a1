package extract

import (
	"go/ast"
	"go/token"
	"go/types"
	"strconv"

	"github.com/hanpama/gqlderive/internal/host"
	"github.com/hanpama/gqlderive/internal/ir"
)

func (e *extractor) objectType(pkg *host.Package, ts *ast.TypeSpec, sym *types.TypeName, info *docInfo, primary *tag) {
	e.allow(info, primary, "object types", tagAnnotate)
	def := &ir.ObjectDefinition{
		Name:        e.typeName(primary, sym, ts),
		Description: info.Description,
		Position:    e.pos(ts.Name.Pos()),
		Directives:  e.annotations(info),
		Go:          goType(sym),
	}
	if ts.Assign.IsValid() {
		e.report(violationWrongShape(primary.Name, "struct or interface type definitions", e.pos(primary.Pos)))
		return
	}

	switch t := ts.Type.(type) {
	case *ast.StructType:
		def.Fields, def.Heritage = e.structMembers(pkg, t)
		def.Fields = append(def.Fields, e.methodFields(pkg, sym)...)
		def.Typename = e.typenameMethod(sym)
	case *ast.InterfaceType:
		def.Fields, def.Heritage = e.interfaceMembers(pkg, t)
		if pos, ok := interfaceMethod(t, "Typename"); ok {
			def.Typename = &ir.Typename{Position: e.pos(pos)}
		}
	default:
		e.report(violationWrongShape(primary.Name, "struct or interface types", e.pos(primary.Pos)))
		return
	}

	e.types.Define(sym, def.Name, ir.NameKindType, def.Position)
	e.doc.Definitions = append(e.doc.Definitions, &ir.Definition{Object: def})
}

func (e *extractor) interfaceType(pkg *host.Package, ts *ast.TypeSpec, sym *types.TypeName, info *docInfo, primary *tag) {
	e.allow(info, primary, "interface types", tagAnnotate)
	it, ok := ts.Type.(*ast.InterfaceType)
	if !ok || ts.Assign.IsValid() {
		e.report(violationWrongShape(primary.Name, "Go interface types; use @gqlType on structs", e.pos(primary.Pos)))
		return
	}
	def := &ir.InterfaceDefinition{
		Name:        e.typeName(primary, sym, ts),
		Description: info.Description,
		Position:    e.pos(ts.Name.Pos()),
		Directives:  e.annotations(info),
		Go:          goType(sym),
	}
	def.Fields, def.Heritage = e.interfaceMembers(pkg, it)

	nd := e.types.Define(sym, def.Name, ir.NameKindInterface, def.Position)
	e.result.Interfaces = append(e.result.Interfaces, nd)
	e.doc.Definitions = append(e.doc.Definitions, &ir.Definition{Interface: def})
}

func (e *extractor) typeName(primary *tag, sym *types.TypeName, ts *ast.TypeSpec) string {
	name := e.nameOverride(primary)
	if name == "" {
		name = sym.Name()
	}
	e.checkReserved("Type", name, e.pos(ts.Name.Pos()))
	return name
}

// structMembers returns the @gqlField fields of a struct and its untagged embeds.
func (e *extractor) structMembers(pkg *host.Package, st *ast.StructType) ([]*ir.FieldDefinition, []*ir.Heritage) {
	var (
		fields   []*ir.FieldDefinition
		heritage []*ir.Heritage
	)
	for _, f := range st.Fields.List {
		docPrimaries := parseDoc(f.Doc).primaries()
		if len(docPrimaries) == 0 {
			if len(f.Names) == 0 {
				if h := e.heritage(pkg, f.Type); h != nil {
					heritage = append(heritage, h)
				}
			}
			continue
		}
		info := e.takeDoc(f.Doc)
		primary := e.primary(info)
		if primary.Name != tagField {
			e.report(violationTagUnsupported(primary.Name, "struct fields", e.pos(primary.Pos)))
			continue
		}
		fields = append(fields, e.propertyFields(pkg, f, info, primary)...)
	}
	return fields, heritage
}

// interfaceMembers returns the @gqlField methods of a Go interface and its embeds.
func (e *extractor) interfaceMembers(pkg *host.Package, it *ast.InterfaceType) ([]*ir.FieldDefinition, []*ir.Heritage) {
	var (
		fields   []*ir.FieldDefinition
		heritage []*ir.Heritage
	)
	for _, m := range it.Methods.List {
		ft, isMethod := m.Type.(*ast.FuncType)
		if len(m.Names) == 0 || !isMethod {
			switch ast.Unparen(m.Type).(type) {
			case *ast.Ident, *ast.SelectorExpr, *ast.IndexExpr, *ast.IndexListExpr:
				if h := e.heritage(pkg, m.Type); h != nil {
					heritage = append(heritage, h)
				}
			default:
				e.report(violationTypeSetInterface(e.pos(m.Type.Pos())))
			}
			continue
		}
		if len(parseDoc(m.Doc).primaries()) == 0 {
			continue
		}
		info := e.takeDoc(m.Doc)
		primary := e.primary(info)
		if primary.Name != tagField {
			e.report(violationTagUnsupported(primary.Name, "interface methods", e.pos(primary.Pos)))
			continue
		}
		if field := e.methodField(pkg, m.Names[0], ft, info, primary); field != nil {
			fields = append(fields, field)
		}
	}
	return fields, heritage
}

func (e *extractor) heritage(pkg *host.Package, expr ast.Expr) *ir.Heritage {
	id, pointer := embeddedName(expr)
	target := ast.Unparen(expr)
	if star, ok := target.(*ast.StarExpr); ok {
		target = star.X
	}
	ref := e.heritageRef(pkg, target)
	if ref == nil || id == nil {
		return nil
	}
	return &ir.Heritage{
		Type:     ref,
		Field:    id.Name,
		Pointer:  pointer,
		Position: e.pos(expr.Pos()),
	}
}

// methodFields claims the @gqlField methods declared on sym.
func (e *extractor) methodFields(pkg *host.Package, sym *types.TypeName) []*ir.FieldDefinition {
	var fields []*ir.FieldDefinition
	for _, fd := range e.methods[sym] {
		primaries := parseDoc(fd.Doc).primaries()
		if len(primaries) == 0 || primaries[0].Name != tagField {
			continue
		}
		info := e.takeDoc(fd.Doc)
		primary := e.primary(info)
		if field := e.methodField(e.prog.PackageOf(fd.Pos()), fd.Name, fd.Type, info, primary); field != nil {
			fields = append(fields, field)
		}
	}
	return fields
}

// typenameMethod records a `Typename() string` method of sym.
func (e *extractor) typenameMethod(sym *types.TypeName) *ir.Typename {
	for _, fd := range e.methods[sym] {
		if fd.Name.Name != "Typename" || fd.Type.Params.NumFields() != 0 || fd.Type.Results.NumFields() != 1 {
			continue
		}
		return &ir.Typename{
			Literal:  returnedLiteral(fd.Body),
			Position: e.pos(fd.Name.Pos()),
		}
	}
	return nil
}

// returnedLiteral returns s when body is exactly `return "s"`.
func returnedLiteral(body *ast.BlockStmt) string {
	if body == nil || len(body.List) != 1 {
		return ""
	}
	ret, ok := body.List[0].(*ast.ReturnStmt)
	if !ok || len(ret.Results) != 1 {
		return ""
	}
	lit, ok := ast.Unparen(ret.Results[0]).(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return ""
	}
	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return ""
	}
	return s
}

func interfaceMethod(it *ast.InterfaceType, name string) (token.Pos, bool) {
	for _, m := range it.Methods.List {
		for _, n := range m.Names {
			if n.Name == name {
				return n.Pos(), true
			}
		}
	}
	return token.NoPos, false
}

func goType(sym *types.TypeName) *ir.GoType {
	g := &ir.GoType{
		Symbol:   sym,
		Type:     sym.Type(),
		Name:     sym.Name(),
		Exported: sym.Exported(),
	}
	if sym.Pkg() != nil {
		g.Package = sym.Pkg().Path()
	}
	g.Interface = isInterface(sym.Type())
	return g
}
