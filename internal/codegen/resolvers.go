package codegen

import (
	"fmt"
	"go/types"

	"github.com/dave/jennifer/jen"

	"github.com/hanpama/gqlderive/internal/ir"
)

func resolveParams() jen.Code {
	return jen.Id("p").Qual(graphqlPkg, "ResolveParams")
}

func resolveFunc(body ...jen.Code) jen.Code {
	return jen.Func().Params(resolveParams()).Params(jen.Any(), jen.Error()).Block(body...)
}

// fieldResolvers sets Resolve (and Subscribe for streams) of an object field.
func (g *generator) fieldResolvers(obj *ir.ObjectDefinition, f *ir.FieldDefinition, d jen.Dict) {
	r := f.Resolver
	if r == nil {
		g.fail("codegen: field %s.%s has no resolver", obj.Name, f.Name)
		return
	}
	args, body := g.callArgs(obj, r)
	call := g.call(r, args)

	fn := func(body []jen.Code) jen.Code {
		if needsSource(r) {
			body = g.withSource(obj, body)
		}
		return resolveFunc(body...)
	}

	if f.Stream {
		g.use(helperPipeStream)
		if f.Fallible {
			body = append(body,
				jen.List(jen.Id("v"), jen.Err()).Op(":=").Add(call),
				jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
			)
		} else {
			body = append(body, jen.Id("v").Op(":=").Add(call))
		}
		body = append(body, jen.Return(jen.Id("gqlPipeStream").Call(jen.Id("p").Dot("Context"), jen.Id("v")), jen.Nil()))
		d[jen.Id("Subscribe")] = fn(body)
		event := jen.Return(jen.Id("p").Dot("Source"), jen.Nil())
		if f.NullCheck {
			g.use(helperAssertNonNull)
			event = jen.Return(jen.Id("gqlAssertNonNull").Call(jen.Id("p").Dot("Source"), jen.Nil(), jen.Lit(obj.Name+"."+f.Name)))
		}
		d[jen.Id("Resolve")] = resolveFunc(event)
		return
	}

	switch {
	case f.Fallible && f.NullCheck:
		g.use(helperAssertNonNull)
		body = append(body,
			jen.List(jen.Id("v"), jen.Err()).Op(":=").Add(call),
			jen.Return(jen.Id("gqlAssertNonNull").Call(jen.Id("v"), jen.Err(), jen.Lit(obj.Name+"."+f.Name))),
		)
	case f.Fallible:
		body = append(body, jen.Return(call))
	case f.NullCheck:
		g.use(helperAssertNonNull)
		body = append(body, jen.Return(jen.Id("gqlAssertNonNull").Call(call, jen.Nil(), jen.Lit(obj.Name+"."+f.Name))))
	default:
		body = append(body, jen.Return(call, jen.Nil()))
	}
	d[jen.Id("Resolve")] = fn(body)
}

func needsSource(r *ir.Resolver) bool {
	if r.Kind == ir.ResolverKindProperty || r.Kind == ir.ResolverKindMethod {
		return true
	}
	for _, a := range r.Args {
		if a.Kind == ir.ResolverArgKindSource && a.Source != ir.SourceModeInterface {
			return true
		}
	}
	return false
}

// withSource binds src to the parent value before body. Struct-backed parents are
// normalized to a pointer; a nil parent resolves to null.
func (g *generator) withSource(obj *ir.ObjectDefinition, body []jen.Code) []jen.Code {
	if obj.Go == nil || obj.Go.Type == nil {
		g.fail("codegen: %s has no Go type to resolve fields on", obj.Name)
		return nil
	}
	backing := backingTypes(obj.Go)
	if len(obj.Go.Instances) == 0 && len(backing) == 1 {
		return append(g.bindSource(obj, backing[0]), body...)
	}
	// A generic parent shared by several instantiations tries each of them in turn.
	var out []jen.Code
	for _, inst := range backing {
		typ := g.goType(inst)
		if obj.Go.Interface {
			out = append(out, jen.If(
				jen.List(jen.Id("src"), jen.Id("ok")).Op(":=").Id("p").Dot("Source").Assert(typ),
				jen.Id("ok"),
			).Block(body...))
			continue
		}
		g.use(helperAs)
		out = append(out, jen.If(
			jen.Id("src").Op(":=").Id("gqlAs").Types(typ).Call(jen.Id("p").Dot("Source")),
			jen.Id("src").Op("!=").Nil(),
		).Block(body...))
	}
	return append(out, jen.Return(jen.Nil(), jen.Nil()))
}

func (g *generator) bindSource(obj *ir.ObjectDefinition, t types.Type) []jen.Code {
	typ := g.goType(t)
	if obj.Go.Interface {
		return []jen.Code{
			jen.List(jen.Id("src"), jen.Id("ok")).Op(":=").Id("p").Dot("Source").Assert(typ),
			jen.If(jen.Op("!").Id("ok")).Block(jen.Return(jen.Nil(), jen.Nil())),
		}
	}
	g.use(helperAs)
	return []jen.Code{
		jen.Id("src").Op(":=").Id("gqlAs").Types(typ).Call(jen.Id("p").Dot("Source")),
		jen.If(jen.Id("src").Op("==").Nil()).Block(jen.Return(jen.Nil(), jen.Nil())),
	}
}

func selector(path []*ir.EmbedStep) *jen.Statement {
	s := jen.Id("src")
	for _, step := range path {
		s = s.Dot(step.Field)
	}
	return s
}

// callArgs returns the positional arguments of the resolver call and the statements that
// prepare them.
func (g *generator) callArgs(obj *ir.ObjectDefinition, r *ir.Resolver) ([]jen.Code, []jen.Code) {
	var args, stmts []jen.Code
	for i, a := range r.Args {
		name := fmt.Sprintf("arg%d", i)
		switch a.Kind {
		case ir.ResolverArgKindSource:
			args = append(args, g.sourceArg(obj, a, name, &stmts))
		case ir.ResolverArgKindArgs:
			g.use(helperDecode)
			decode := func(target jen.Code) jen.Code {
				return jen.If(
					jen.Err().Op(":=").Id("gqlDecode").Call(jen.Id("p").Dot("Args"), target),
					jen.Err().Op("!=").Nil(),
				).Block(jen.Return(jen.Nil(), jen.Err()))
			}
			if ptr, ok := a.Go.(*types.Pointer); ok {
				stmts = append(stmts,
					jen.Id(name).Op(":=").New(g.goType(ptr.Elem())),
					decode(jen.Id(name)),
				)
			} else {
				stmts = append(stmts,
					jen.Var().Id(name).Add(g.goType(a.Go)),
					decode(jen.Op("&").Id(name)),
				)
			}
			args = append(args, jen.Id(name))
		case ir.ResolverArgKindNamed:
			g.use(helperArg)
			stmts = append(stmts,
				jen.List(jen.Id(name), jen.Err()).Op(":=").Id("gqlArg").Types(g.goType(a.Go)).Call(jen.Id("p").Dot("Args"), jen.Lit(a.Name)),
				jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
			)
			args = append(args, jen.Id(name))
		case ir.ResolverArgKindContext:
			if isStdContext(a.Go) {
				args = append(args, jen.Id("p").Dot("Context"))
				continue
			}
			g.use(helperContextValue)
			args = append(args, jen.Id("gqlContextValue").Types(g.goType(a.Go)).Call(jen.Id("p").Dot("Context")))
		case ir.ResolverArgKindInfo:
			g.use(helperInfo)
			args = append(args, jen.Id("gqlInfo").Types(g.goType(a.Go)).Call(jen.Id("p").Dot("Info")))
		default:
			g.fail("codegen: unknown resolver argument kind %q", a.Kind)
		}
	}
	return args, stmts
}

func (g *generator) sourceArg(obj *ir.ObjectDefinition, a *ir.ResolverArg, name string, stmts *[]jen.Code) jen.Code {
	switch a.Source {
	case ir.SourceModeInterface:
		*stmts = append(*stmts,
			jen.List(jen.Id(name), jen.Id("ok")).Op(":=").Id("p").Dot("Source").Assert(g.goType(a.Go)),
			jen.If(jen.Op("!").Id("ok")).Block(jen.Return(jen.Nil(), jen.Nil())),
		)
		return jen.Id(name)
	case ir.SourceModePointer:
		if len(a.Path) == 0 {
			return jen.Id("src")
		}
		if a.Path[len(a.Path)-1].Pointer {
			return selector(a.Path)
		}
		return jen.Op("&").Add(selector(a.Path))
	}
	if len(a.Path) == 0 {
		if obj.Go != nil && obj.Go.Interface {
			return jen.Id("src")
		}
		return jen.Op("*").Id("src")
	}
	if a.Path[len(a.Path)-1].Pointer {
		return jen.Op("*").Add(selector(a.Path))
	}
	return selector(a.Path)
}

func (g *generator) call(r *ir.Resolver, args []jen.Code) jen.Code {
	switch r.Kind {
	case ir.ResolverKindProperty:
		return selector(r.Path).Dot(r.Name)
	case ir.ResolverKindMethod:
		return selector(r.Path).Dot(r.Name).Call(args...)
	case ir.ResolverKindFunction:
		return jen.Qual(r.Package, r.Name).Call(args...)
	case ir.ResolverKindStaticMethod:
		recv := jen.Qual(r.Package, r.Receiver).Values()
		if r.ReceiverPointer {
			recv = jen.Op("&").Add(recv)
		}
		return jen.Parens(recv).Dot(r.Name).Call(args...)
	}
	g.fail("codegen: unknown resolver kind %q", r.Kind)
	return jen.Nil()
}

func isStdContext(t types.Type) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == "context" && obj.Name() == "Context"
}
