package extract

import (
	"go/ast"
	"go/types"

	"github.com/hanpama/gqlderive/internal/host"
	"github.com/hanpama/gqlderive/internal/ir"
)

// outputType converts the Go type of a field or resolver result.
func (e *extractor) outputType(pkg *host.Package, expr ast.Expr) *ir.TypeExpr {
	return e.typeExpr(pkg, expr, false)
}

// inputType converts the Go type of an argument or input field.
func (e *extractor) inputType(pkg *host.Package, expr ast.Expr) *ir.TypeExpr {
	return e.typeExpr(pkg, expr, true)
}

// typeExpr maps Go syntax to a GraphQL type expression. Values are non-null unless they
// are pointers. It returns nil after reporting an unsupported type.
func (e *extractor) typeExpr(pkg *host.Package, expr ast.Expr, input bool) *ir.TypeExpr {
	pos := e.pos(expr.Pos())
	switch t := expr.(type) {
	case *ast.ParenExpr:
		return e.typeExpr(pkg, t.X, input)
	case *ast.StarExpr:
		if _, ok := ast.Unparen(t.X).(*ast.StarExpr); ok {
			e.report(violationUnsupportedType("a pointer to a pointer", pos))
			return nil
		}
		inner := e.typeExpr(pkg, t.X, input)
		if inner == nil {
			return nil
		}
		return ir.Nullable(inner)
	case *ast.ArrayType:
		elem := e.typeExpr(pkg, t.Elt, input)
		if elem == nil {
			return nil
		}
		list := ir.ListType(elem)
		list.Position = pos
		list.Go = pkg.Info.TypeOf(expr)
		return ir.NonNullType(list)
	case *ast.Ident, *ast.SelectorExpr, *ast.IndexExpr, *ast.IndexListExpr:
		named := e.namedType(pkg, expr, input)
		if named == nil {
			return nil
		}
		return ir.NonNullType(named)
	case *ast.MapType:
		e.report(violationUnsupportedType("a map", pos))
	case *ast.FuncType:
		e.report(violationUnsupportedType("a function", pos))
	case *ast.ChanType:
		e.report(violationUnsupportedType("a channel outside a resolver result", pos))
	case *ast.InterfaceType:
		e.report(violationUnsupportedType("an interface literal", pos))
	case *ast.StructType:
		e.report(violationUnsupportedType("an anonymous struct", pos))
	default:
		e.report(violationUnsupportedType(types.ExprString(expr), pos))
	}
	return nil
}

// namedType converts a possibly qualified, possibly instantiated type name. Builtin Go
// types map to builtin scalars; everything else becomes a placeholder.
func (e *extractor) namedType(pkg *host.Package, expr ast.Expr, input bool) *ir.TypeExpr {
	pos := e.pos(expr.Pos())
	base, args := splitIndex(expr)
	tn := e.typeNameOf(base)
	if tn == nil {
		e.report(violationMissingType(pos))
		return nil
	}
	if tn.Parent() == types.Universe {
		return e.builtinType(tn, pos)
	}
	if _, ok := tn.Type().(*types.TypeParam); ok && input {
		e.report(violationUnsupportedType("a type parameter in an input position", pos))
		return nil
	}

	ref := e.types.NewReference(tn, pos)
	ref.Go = pkg.Info.TypeOf(expr)
	for _, a := range args {
		at := e.typeExpr(pkg, a, input)
		if at == nil {
			return nil
		}
		ref.Args = append(ref.Args, at)
	}
	return ref
}

func (e *extractor) builtinType(tn *types.TypeName, pos ir.Position) *ir.TypeExpr {
	basic, ok := tn.Type().(*types.Basic)
	if !ok {
		e.report(violationUnsupportedType(tn.Name(), pos))
		return nil
	}
	var name string
	switch info := basic.Info(); {
	case info&types.IsString != 0:
		name = ir.StringScalar
	case info&types.IsBoolean != 0:
		name = ir.BooleanScalar
	case info&types.IsInteger != 0:
		name = ir.IntScalar
	case info&types.IsFloat != 0:
		name = ir.FloatScalar
	default:
		e.report(violationUnsupportedType(basic.Name(), pos))
		return nil
	}
	t := ir.NamedType(name)
	t.Go = basic
	t.Position = pos
	return t
}

// heritageRef converts an embedded type to a placeholder. Builtin embeds such as
// `error` in an interface yield nil.
func (e *extractor) heritageRef(pkg *host.Package, expr ast.Expr) *ir.TypeExpr {
	base, _ := splitIndex(expr)
	tn := e.typeNameOf(base)
	if tn == nil || tn.Parent() == types.Universe {
		return nil
	}
	return e.namedType(pkg, expr, false)
}

func (e *extractor) typeNameOf(expr ast.Expr) *types.TypeName {
	var id *ast.Ident
	switch x := ast.Unparen(expr).(type) {
	case *ast.Ident:
		id = x
	case *ast.SelectorExpr:
		id = x.Sel
	default:
		return nil
	}
	tn, _ := e.prog.SymbolOf(id).(*types.TypeName)
	return tn
}

func splitIndex(expr ast.Expr) (ast.Expr, []ast.Expr) {
	switch x := ast.Unparen(expr).(type) {
	case *ast.IndexExpr:
		return x.X, []ast.Expr{x.Index}
	case *ast.IndexListExpr:
		return x.X, x.Indices
	}
	return expr, nil
}

// embeddedName returns the implicit field name of an embedded type expression.
func embeddedName(expr ast.Expr) (*ast.Ident, bool) {
	pointer := false
	expr = ast.Unparen(expr)
	if star, ok := expr.(*ast.StarExpr); ok {
		pointer = true
		expr = ast.Unparen(star.X)
	}
	base, _ := splitIndex(expr)
	switch x := base.(type) {
	case *ast.Ident:
		return x, pointer
	case *ast.SelectorExpr:
		return x.Sel, pointer
	}
	return nil, pointer
}

func isErrorType(t types.Type) bool {
	return t != nil && types.Identical(t, types.Universe.Lookup("error").Type())
}

func isContextType(t types.Type) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok || named.Obj().Pkg() == nil {
		return false
	}
	return named.Obj().Pkg().Path() == "context" && named.Obj().Name() == "Context"
}
