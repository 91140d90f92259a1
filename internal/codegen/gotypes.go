package codegen

import (
	"go/types"
	"strconv"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/hanpama/gqlderive/internal/ir"
	language "github.com/hanpama/gqlderive/internal/language"
)

// goType renders t as a Go type expression.
func (g *generator) goType(t types.Type) *jen.Statement {
	switch t := t.(type) {
	case *types.Basic:
		return jen.Id(t.Name())
	case *types.Alias:
		return g.typeName(t.Obj(), nil)
	case *types.Named:
		return g.typeName(t.Obj(), t.TypeArgs())
	case *types.Pointer:
		return jen.Op("*").Add(g.goType(t.Elem()))
	case *types.Slice:
		return jen.Index().Add(g.goType(t.Elem()))
	case *types.Array:
		return jen.Index(jen.Lit(int(t.Len()))).Add(g.goType(t.Elem()))
	case *types.Map:
		return jen.Map(g.goType(t.Key())).Add(g.goType(t.Elem()))
	case *types.Chan:
		switch t.Dir() {
		case types.RecvOnly:
			return jen.Op("<-").Chan().Add(g.goType(t.Elem()))
		case types.SendOnly:
			return jen.Chan().Op("<-").Add(g.goType(t.Elem()))
		}
		return jen.Chan().Add(g.goType(t.Elem()))
	case *types.Struct:
		return jen.StructFunc(func(grp *jen.Group) {
			for i := range t.NumFields() {
				f := t.Field(i)
				var field *jen.Statement
				if f.Embedded() {
					field = grp.Add(g.goType(f.Type()))
				} else {
					field = grp.Id(f.Name()).Add(g.goType(f.Type()))
				}
				if tag := t.Tag(i); tag != "" {
					field.Add(rawTag(tag))
				}
			}
		})
	case *types.Interface:
		if t.Empty() {
			return jen.Any()
		}
	case *types.TypeParam:
		return jen.Id(t.Obj().Name())
	}
	g.fail("codegen: cannot render Go type %s", t)
	return jen.Any()
}

// backingTypes returns the Go types values of a definition can have. A generic definition
// shared by its instantiations is backed by each of them.
func backingTypes(t *ir.GoType) []types.Type {
	if len(t.Instances) > 0 {
		return t.Instances
	}
	if named, ok := t.Type.(*types.Named); ok && named.TypeParams().Len() > named.TypeArgs().Len() {
		return nil
	}
	return []types.Type{t.Type}
}

func (g *generator) typeName(obj *types.TypeName, args *types.TypeList) *jen.Statement {
	var s *jen.Statement
	if obj.Pkg() == nil {
		s = jen.Id(obj.Name())
	} else {
		s = jen.Qual(obj.Pkg().Path(), obj.Name())
	}
	if args.Len() > 0 {
		var targs []jen.Code
		for i := range args.Len() {
			targs = append(targs, g.goType(args.At(i)))
		}
		s = s.Types(targs...)
	}
	return s
}

// rawTag renders a struct tag exactly as declared. Struct types with differently ordered
// tags are not identical, so the keys must not be rearranged.
func rawTag(tag string) jen.Code {
	if strings.Contains(tag, "`") {
		return jen.Lit(tag)
	}
	return jen.Op("`" + tag + "`")
}

// valueCode renders a GraphQL literal as the Go value graphql-go expects at runtime.
// Enum values become their Go constants.
func (g *generator) valueCode(v *language.Value, t *ir.TypeExpr) jen.Code {
	t = ir.Nullable(t)
	if t.Kind == ir.TypeExprKindList {
		if v.Kind == language.ListValue {
			var items []jen.Code
			for _, c := range v.Children {
				items = append(items, g.valueCode(c.Value, t.OfType))
			}
			return jen.Index().Any().Values(items...)
		}
		if v.Kind != language.NullValue {
			return jen.Index().Any().Values(g.valueCode(v, t.OfType))
		}
	}

	def := g.defs[t.NamedType().Named]
	switch v.Kind {
	case language.NullValue:
		return jen.Nil()
	case language.IntValue:
		n, err := strconv.ParseInt(v.Raw, 10, 64)
		if err != nil {
			g.fail("codegen: invalid Int literal %s", v.Raw)
		}
		if t.NamedType().Named == ir.FloatScalar {
			return jen.Lit(float64(n))
		}
		return jen.Lit(int(n))
	case language.FloatValue:
		f, err := strconv.ParseFloat(v.Raw, 64)
		if err != nil {
			g.fail("codegen: invalid Float literal %s", v.Raw)
		}
		return jen.Lit(f)
	case language.BooleanValue:
		return jen.Lit(v.Raw == "true")
	case language.EnumValue:
		if def != nil && def.Enum != nil {
			for _, ev := range def.Enum.Values {
				if ev.Name == v.Raw {
					return jen.Qual(def.Enum.Go.Package, ev.GoName)
				}
			}
		}
		return jen.Lit(v.Raw)
	case language.ObjectValue:
		entries := jen.Dict{}
		for _, c := range v.Children {
			var ft *ir.TypeExpr
			if def != nil && def.Input != nil {
				for _, f := range def.Input.Fields {
					if f.Name == c.Name {
						ft = f.Type
					}
				}
			}
			if ft == nil {
				g.fail("codegen: unknown input field %s", c.Name)
				continue
			}
			entries[jen.Lit(c.Name)] = g.valueCode(c.Value, ft)
		}
		return jen.Map(jen.String()).Any().Values(entries)
	}
	return jen.Lit(v.Raw)
}
