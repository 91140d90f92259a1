package codegen

import (
	"github.com/dave/jennifer/jen"
)

const (
	helperAs            = "as"
	helperDecode        = "decode"
	helperArg           = "arg"
	helperContextKey    = "contextKey"
	helperContextValue  = "contextValue"
	helperInfo          = "info"
	helperAssertNonNull = "assertNonNull"
	helperPipeStream    = "pipeStream"
	helperIdentity      = "identity"
	helperParseLiteral  = "parseLiteral"
)

// helperOrder fixes the position of each helper in the output.
var helperOrder = []string{
	helperAs,
	helperDecode,
	helperArg,
	helperContextKey,
	helperContextValue,
	helperInfo,
	helperAssertNonNull,
	helperPipeStream,
	helperIdentity,
	helperParseLiteral,
}

var helperRequires = map[string][]string{
	helperArg:          {helperDecode},
	helperContextValue: {helperContextKey},
}

// emitHelpers appends every used helper once.
func (g *generator) emitHelpers(f *jen.File) {
	for name, deps := range helperRequires {
		if g.helpers[name] {
			for _, dep := range deps {
				g.use(dep)
			}
		}
	}
	for _, name := range helperOrder {
		if g.helpers[name] {
			f.Line()
			f.Add(helperDecls[name]())
		}
	}
}

var helperDecls = map[string]func() jen.Code{
	helperAs: func() jen.Code {
		return jen.Func().Id("gqlAs").Types(jen.Id("T").Any()).Params(jen.Id("v").Any()).Op("*").Id("T").Block(
			jen.Switch(jen.Id("v").Op(":=").Id("v").Assert(jen.Type())).Block(
				jen.Case(jen.Op("*").Id("T")).Block(jen.Return(jen.Id("v"))),
				jen.Case(jen.Id("T")).Block(jen.Return(jen.Op("&").Id("v"))),
			),
			jen.Return(jen.Nil()),
		)
	},
	helperDecode: func() jen.Code {
		return jen.Func().Id("gqlDecode").Params(jen.List(jen.Id("input"), jen.Id("output")).Any()).Error().Block(
			jen.List(jen.Id("d"), jen.Err()).Op(":=").Qual(mapstructurePkg, "NewDecoder").Call(
				jen.Op("&").Qual(mapstructurePkg, "DecoderConfig").Values(jen.Dict{
					jen.Id("TagName"): jen.Lit("json"),
					jen.Id("Result"):  jen.Id("output"),
				}),
			),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())),
			jen.Return(jen.Id("d").Dot("Decode").Call(jen.Id("input"))),
		)
	},
	helperArg: func() jen.Code {
		return jen.Func().Id("gqlArg").Types(jen.Id("T").Any()).Params(
			jen.Id("args").Map(jen.String()).Any(),
			jen.Id("name").String(),
		).Params(jen.Id("T"), jen.Error()).Block(
			jen.Var().Id("v").Id("T"),
			jen.Err().Op(":=").Id("gqlDecode").Call(jen.Id("args").Index(jen.Id("name")), jen.Op("&").Id("v")),
			jen.Return(jen.Id("v"), jen.Err()),
		)
	},
	helperContextKey: func() jen.Code {
		return jen.Type().Id("gqlContextKey").Struct()
	},
	helperContextValue: func() jen.Code {
		return jen.Func().Id("gqlContextValue").Types(jen.Id("T").Any()).Params(jen.Id("ctx").Qual("context", "Context")).Id("T").Block(
			jen.Switch(jen.Id("v").Op(":=").Id("ctx").Dot("Value").Call(jen.Id("gqlContextKey").Values()).Assert(jen.Type())).Block(
				jen.Case(jen.Id("T")).Block(jen.Return(jen.Id("v"))),
				jen.Case(jen.Op("*").Id("T")).Block(
					jen.If(jen.Id("v").Op("!=").Nil()).Block(jen.Return(jen.Op("*").Id("v"))),
				),
			),
			jen.Var().Id("zero").Id("T"),
			jen.Return(jen.Id("zero")),
		)
	},
	helperInfo: func() jen.Code {
		return jen.Func().Id("gqlInfo").Types(jen.Id("T").Any()).Params(jen.Id("info").Qual(graphqlPkg, "ResolveInfo")).Id("T").Block(
			jen.If(jen.List(jen.Id("v"), jen.Id("ok")).Op(":=").Any().Call(jen.Id("info")).Assert(jen.Id("T")), jen.Id("ok")).Block(
				jen.Return(jen.Id("v")),
			),
			jen.If(jen.List(jen.Id("v"), jen.Id("ok")).Op(":=").Any().Call(jen.Op("&").Id("info")).Assert(jen.Id("T")), jen.Id("ok")).Block(
				jen.Return(jen.Id("v")),
			),
			jen.Var().Id("zero").Id("T"),
			jen.Return(jen.Id("zero")),
		)
	},
	helperAssertNonNull: func() jen.Code {
		return jen.Func().Id("gqlAssertNonNull").Params(
			jen.Id("v").Any(),
			jen.Err().Error(),
			jen.Id("field").String(),
		).Params(jen.Any(), jen.Error()).Block(
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
			jen.Id("rv").Op(":=").Qual("reflect", "ValueOf").Call(jen.Id("v")),
			jen.Switch(jen.Id("rv").Dot("Kind").Call()).Block(
				jen.Case(
					jen.Qual("reflect", "Invalid"),
				).Block(jen.Return(jen.Nil(), jen.Qual("fmt", "Errorf").Call(jen.Lit("%s: unexpected null"), jen.Id("field")))),
				jen.Case(
					jen.Qual("reflect", "Pointer"),
					jen.Qual("reflect", "Interface"),
					jen.Qual("reflect", "Map"),
					jen.Qual("reflect", "Slice"),
					jen.Qual("reflect", "Chan"),
					jen.Qual("reflect", "Func"),
				).Block(
					jen.If(jen.Id("rv").Dot("IsNil").Call()).Block(
						jen.Return(jen.Nil(), jen.Qual("fmt", "Errorf").Call(jen.Lit("%s: unexpected null"), jen.Id("field"))),
					),
				),
			),
			jen.Return(jen.Id("v"), jen.Nil()),
		)
	},
	helperPipeStream: func() jen.Code {
		return jen.Func().Id("gqlPipeStream").Types(jen.Id("T").Any()).Params(
			jen.Id("ctx").Qual("context", "Context"),
			jen.Id("in").Op("<-").Chan().Id("T"),
		).Chan().Any().Block(
			jen.Id("out").Op(":=").Make(jen.Chan().Any()),
			jen.Go().Func().Params().Block(
				jen.Defer().Close(jen.Id("out")),
				jen.For().Block(
					jen.Select().Block(
						jen.Case(jen.Op("<-").Id("ctx").Dot("Done").Call()).Block(jen.Return()),
						jen.Case(jen.List(jen.Id("v"), jen.Id("ok")).Op(":=").Op("<-").Id("in")).Block(
							jen.If(jen.Op("!").Id("ok")).Block(jen.Return()),
							jen.Select().Block(
								jen.Case(jen.Id("out").Op("<-").Id("v")),
								jen.Case(jen.Op("<-").Id("ctx").Dot("Done").Call()).Block(jen.Return()),
							),
						),
					),
				),
			).Call(),
			jen.Return(jen.Id("out")),
		)
	},
	helperIdentity: func() jen.Code {
		return jen.Func().Id("gqlIdentity").Params(jen.Id("v").Any()).Any().Block(jen.Return(jen.Id("v")))
	},
	helperParseLiteral: func() jen.Code {
		return jen.Func().Id("gqlParseLiteral").Params(jen.Id("v").Qual(graphqlASTPkg, "Value")).Any().Block(
			jen.Return(jen.Id("v").Dot("GetValue").Call()),
		)
	},
}
