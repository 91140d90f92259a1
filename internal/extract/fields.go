package extract

import (
	"go/ast"
	"go/types"
	"reflect"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/hanpama/gqlderive/internal/host"
	"github.com/hanpama/gqlderive/internal/ir"
	language "github.com/hanpama/gqlderive/internal/language"
)

// signature is the GraphQL view of a resolver's parameters and results.
type signature struct {
	owner    *ir.TypeExpr
	args     []*ir.ArgumentDefinition
	params   []*ir.ResolverArg
	result   *ir.TypeExpr
	stream   bool
	fallible bool
}

type param struct {
	name *ast.Ident
	typ  ast.Expr
}

func flatten(list *ast.FieldList) []param {
	if list == nil {
		return nil
	}
	var out []param
	for _, f := range list.List {
		if len(f.Names) == 0 {
			out = append(out, param{typ: f.Type})
			continue
		}
		for _, n := range f.Names {
			out = append(out, param{name: n, typ: f.Type})
		}
	}
	return out
}

// signature classifies parameters as source, context, arguments struct or named
// arguments and unwraps the result. withSource takes the first parameter as the parent.
func (e *extractor) signature(pkg *host.Package, name *ast.Ident, ft *ast.FuncType, withSource bool) *signature {
	sig := &signature{}
	ok := true
	params := flatten(ft.Params)

	if withSource {
		if len(params) == 0 {
			e.report(violationMissingSource(name.Name, e.pos(name.Pos())))
			return nil
		}
		owner, arg := e.sourceParam(pkg, params[0])
		if owner == nil {
			e.report(violationMissingSource(name.Name, e.pos(params[0].typ.Pos())))
			return nil
		}
		sig.owner = owner
		sig.params = append(sig.params, arg)
		params = params[1:]
	}

	var argsStruct *ast.StructType
	for _, p := range params {
		pos := e.pos(p.typ.Pos())
		goType := pkg.Info.TypeOf(p.typ)
		if _, variadic := p.typ.(*ast.Ellipsis); variadic {
			e.report(violationVariadicParameter(pos))
			ok = false
			continue
		}
		if isContextType(goType) {
			sig.params = append(sig.params, &ir.ResolverArg{Kind: ir.ResolverArgKindContext, Go: goType, Position: pos})
			continue
		}
		if st, isStruct := p.typ.(*ast.StructType); isStruct {
			if argsStruct != nil {
				e.report(violationDuplicateArgsStruct(pos, e.pos(argsStruct.Pos())))
				ok = false
				continue
			}
			argsStruct = st
			for _, v := range e.inputFields(pkg, st, "argument structs") {
				sig.args = append(sig.args, &ir.ArgumentDefinition{
					Name:         v.Name,
					Description:  v.Description,
					Position:     v.Position,
					Type:         v.Type,
					DefaultValue: v.DefaultValue,
					Directives:   v.Directives,
					Deprecation:  v.Deprecation,
				})
			}
			sig.params = append(sig.params, &ir.ResolverArg{Kind: ir.ResolverArgKindArgs, Go: goType, Position: pos})
			continue
		}
		if p.name == nil || p.name.Name == "_" {
			e.report(violationUnnamedParameter(pos))
			ok = false
			continue
		}
		typ := e.inputType(pkg, p.typ)
		if typ == nil {
			ok = false
			continue
		}
		argPos := e.pos(p.name.Pos())
		e.checkReserved("Argument", p.name.Name, argPos)
		sig.args = append(sig.args, &ir.ArgumentDefinition{Name: p.name.Name, Position: argPos, Type: typ})
		sig.params = append(sig.params, &ir.ResolverArg{
			Kind:     ir.ResolverArgKindNamed,
			Name:     p.name.Name,
			Go:       goType,
			Position: argPos,
		})
	}

	if !e.results(pkg, name, ft, sig) || !ok {
		return nil
	}
	return sig
}

func (e *extractor) results(pkg *host.Package, name *ast.Ident, ft *ast.FuncType, sig *signature) bool {
	results := flatten(ft.Results)
	pos := e.pos(name.Pos())
	switch len(results) {
	case 0:
		e.report(violationNoResult(name.Name, pos))
		return false
	case 1, 2:
	default:
		e.report(violationBadResults(name.Name, pos))
		return false
	}
	if len(results) == 2 {
		if !isErrorType(pkg.Info.TypeOf(results[1].typ)) {
			e.report(violationBadResults(name.Name, e.pos(results[1].typ.Pos())))
			return false
		}
		sig.fallible = true
	}

	res := ast.Unparen(results[0].typ)
	if isErrorType(pkg.Info.TypeOf(res)) {
		e.report(violationErrorResult(e.pos(res.Pos())))
		return false
	}
	if ch, ok := res.(*ast.ChanType); ok {
		if ch.Dir == ast.SEND {
			e.report(violationSendOnlyChannel(e.pos(ch.Pos())))
			return false
		}
		item := e.outputType(pkg, ch.Value)
		if item == nil {
			return false
		}
		list := ir.ListType(item)
		list.Position = e.pos(ch.Pos())
		sig.result = ir.NonNullType(list)
		sig.stream = true
		return true
	}
	sig.result = e.outputType(pkg, res)
	return sig.result != nil
}

// sourceParam converts the parent parameter of a field function.
func (e *extractor) sourceParam(pkg *host.Package, p param) (*ir.TypeExpr, *ir.ResolverArg) {
	expr := ast.Unparen(p.typ)
	mode := ir.SourceModeValue
	if star, ok := expr.(*ast.StarExpr); ok {
		mode = ir.SourceModePointer
		expr = star.X
	}
	owner := e.heritageRef(pkg, expr)
	if owner == nil {
		return nil, nil
	}
	if mode == ir.SourceModeValue && isInterface(owner.Go) {
		mode = ir.SourceModeInterface
	}
	return owner, &ir.ResolverArg{
		Kind:     ir.ResolverArgKindSource,
		Source:   mode,
		Go:       pkg.Info.TypeOf(p.typ),
		Position: e.pos(p.typ.Pos()),
	}
}

// propertyFields converts a struct field declaration tagged @gqlField.
func (e *extractor) propertyFields(pkg *host.Package, f *ast.Field, info *docInfo, primary *tag) []*ir.FieldDefinition {
	e.allow(info, primary, "struct fields", tagDeprecated, tagKillsParent, tagAnnotate)
	override := e.nameOverride(primary)

	names := f.Names
	if len(names) == 0 {
		id, _ := embeddedName(f.Type)
		if id == nil {
			e.report(violationMissingType(e.pos(f.Type.Pos())))
			return nil
		}
		names = []*ast.Ident{id}
	}
	if override != "" && len(names) > 1 {
		e.report(violationMultipleNames(e.pos(primary.Pos)))
		return nil
	}
	if _, ok := ast.Unparen(f.Type).(*ast.ChanType); ok {
		e.report(violationUnsupportedType("a channel outside a resolver result", e.pos(f.Type.Pos())))
		return nil
	}
	typ := e.outputType(pkg, f.Type)
	if typ == nil {
		return nil
	}

	var fields []*ir.FieldDefinition
	for _, id := range names {
		pos := e.pos(id.Pos())
		if !id.IsExported() {
			e.report(violationNotExported("Field", id.Name, pos))
			continue
		}
		field := &ir.FieldDefinition{
			Name:        fieldName(override, id.Name),
			Description: info.Description,
			Position:    pos,
			Type:        typ.Clone(),
			Resolver:    &ir.Resolver{Kind: ir.ResolverKindProperty, Name: id.Name},
		}
		e.checkReserved("Field", field.Name, pos)
		e.fieldModifiers(info, field)
		fields = append(fields, field)
	}
	return fields
}

// methodField converts a method of a tagged type or a method of a Go interface.
func (e *extractor) methodField(pkg *host.Package, name *ast.Ident, ft *ast.FuncType, info *docInfo, primary *tag) *ir.FieldDefinition {
	e.allow(info, primary, "methods", tagDeprecated, tagKillsParent, tagAnnotate)
	if !name.IsExported() {
		e.report(violationNotExported("Method", name.Name, e.pos(name.Pos())))
		return nil
	}
	sig := e.signature(pkg, name, ft, false)
	if sig == nil {
		return nil
	}
	field := e.newField(info, primary, name, sig)
	field.Resolver = &ir.Resolver{Kind: ir.ResolverKindMethod, Name: name.Name, Args: sig.params}
	return field
}

func (e *extractor) newField(info *docInfo, primary *tag, name *ast.Ident, sig *signature) *ir.FieldDefinition {
	pos := e.pos(name.Pos())
	field := &ir.FieldDefinition{
		Name:        fieldName(e.nameOverride(primary), name.Name),
		Description: info.Description,
		Position:    pos,
		Args:        sig.args,
		Type:        sig.result,
		Stream:      sig.stream,
		Fallible:    sig.fallible,
	}
	e.checkReserved("Field", field.Name, pos)
	e.fieldModifiers(info, field)
	return field
}

func (e *extractor) fieldModifiers(info *docInfo, field *ir.FieldDefinition) {
	field.Deprecation = deprecation(info)
	if t := info.lookup(tagKillsParent); t != nil {
		if t.Text != "" {
			e.report(violationTagTakesNoText(t.Name, e.pos(t.Pos)))
		}
		field.KillsParentOnException = true
	}
	field.Directives = e.annotations(info)
}

func deprecation(info *docInfo) *ir.Deprecation {
	if t := info.lookup(tagDeprecated); t != nil {
		return &ir.Deprecation{Reason: t.Text}
	}
	return nil
}

func (e *extractor) annotations(info *docInfo) []*ir.DirectiveUse {
	var uses []*ir.DirectiveUse
	for _, t := range info.all(tagAnnotate) {
		pos := e.pos(t.Pos)
		d, err := language.ParseDirective(t.Text)
		if err != nil {
			e.report(violationInvalidAnnotation(t.Text, err, pos))
			continue
		}
		uses = append(uses, &ir.DirectiveUse{Name: d.Name, Arguments: d.Arguments, Position: pos})
	}
	return uses
}

// inputFields converts the exported fields of an input or arguments struct. Names come
// from the json tag, defaults from the default tag.
func (e *extractor) inputFields(pkg *host.Package, st *ast.StructType, element string) []*ir.InputValueDefinition {
	var values []*ir.InputValueDefinition
	for _, f := range st.Fields.List {
		if len(f.Names) == 0 {
			e.report(violationEmbeddedField(element, e.pos(f.Type.Pos())))
			continue
		}
		info := parseDoc(f.Doc)
		if info.hasGraphQLTags() {
			info = e.takeDoc(f.Doc)
			e.allow(info, nil, element, tagDeprecated, tagAnnotate)
		}
		tags, ok := e.structTag(f)
		if !ok {
			continue
		}
		for _, id := range f.Names {
			if !id.IsExported() {
				continue
			}
			pos := e.pos(id.Pos())
			name, skip := jsonName(tags, id.Name)
			if skip {
				continue
			}
			if !graphQLName.MatchString(name) {
				e.report(violationInvalidInputName(name, pos))
				continue
			}
			e.checkReserved("Argument", name, pos)
			typ := e.inputType(pkg, f.Type)
			if typ == nil {
				continue
			}
			v := &ir.InputValueDefinition{
				Name:        name,
				Description: info.Description,
				Position:    pos,
				GoName:      id.Name,
				Type:        typ,
				Directives:  e.annotations(info),
				Deprecation: deprecation(info),
			}
			if literal, ok := tags.Lookup("default"); ok {
				value, err := language.ParseValue(literal)
				if err != nil {
					e.report(violationInvalidDefault(literal, err, pos))
				} else {
					v.DefaultValue = value
				}
			}
			values = append(values, v)
		}
	}
	return values
}

func (e *extractor) structTag(f *ast.Field) (reflect.StructTag, bool) {
	if f.Tag == nil {
		return "", true
	}
	raw, err := strconv.Unquote(f.Tag.Value)
	if err != nil {
		e.report(violationInvalidStructTag(err, e.pos(f.Tag.Pos())))
		return "", false
	}
	return reflect.StructTag(raw), true
}

func jsonName(tags reflect.StructTag, goName string) (string, bool) {
	name, _, _ := strings.Cut(tags.Get("json"), ",")
	if name == "-" {
		return "", true
	}
	if name == "" {
		return strcase.ToLowerCamel(goName), false
	}
	return name, false
}

func isInterface(t types.Type) bool {
	if t == nil {
		return false
	}
	_, ok := t.Underlying().(*types.Interface)
	return ok
}

func fieldName(override, goName string) string {
	if override != "" {
		return override
	}
	return strcase.ToLowerCamel(goName)
}
