package extract

import (
	"go/ast"
	"go/types"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/hanpama/gqlderive/internal/host"
	"github.com/hanpama/gqlderive/internal/ir"
)

var rootTags = map[string]string{
	tagQueryField:        ir.QueryType,
	tagMutationField:     ir.MutationType,
	tagSubscriptionField: ir.SubscriptionType,
}

// functionField turns a free function or a method on an untagged receiver into an
// extension field. Root field tags extend an operation type; @gqlField takes the owner
// from the first parameter.
func (e *extractor) functionField(pkg *host.Package, fd *ast.FuncDecl, info *docInfo, primary *tag) {
	e.allow(info, primary, "field functions", tagDeprecated, tagKillsParent, tagAnnotate)
	pos := e.pos(fd.Name.Pos())
	if !fd.Name.IsExported() {
		e.report(violationNotExported("Function", fd.Name.Name, pos))
		return
	}
	if fd.Type.TypeParams != nil {
		e.report(violationGenericFunction(fd.Name.Name, pos))
		return
	}

	resolver := &ir.Resolver{Kind: ir.ResolverKindFunction, Name: fd.Name.Name, Package: pkg.Path}
	if fd.Recv != nil {
		recv, pointer, ok := e.staticReceiver(pkg, fd)
		if !ok {
			return
		}
		resolver.Kind = ir.ResolverKindStaticMethod
		resolver.Receiver = recv.Name()
		resolver.ReceiverPointer = pointer
	}

	root, isRoot := rootTags[primary.Name]
	sig := e.signature(pkg, fd.Name, fd.Type, !isRoot)
	if sig == nil {
		return
	}
	field := e.newField(info, primary, fd.Name, sig)
	resolver.Args = sig.params
	field.Resolver = resolver

	ext := &ir.ExtensionDefinition{Position: pos, Fields: []*ir.FieldDefinition{field}}
	if isRoot {
		ext.Kind = ir.ExtensionKindObject
		ext.Name = root
	} else {
		ext.Kind = ir.ExtensionKindAbstract
		ext.Owner = sig.owner
	}
	e.doc.Definitions = append(e.doc.Definitions, &ir.Definition{Extension: ext})
}

// staticReceiver checks that a method's receiver can be built with a composite literal.
func (e *extractor) staticReceiver(pkg *host.Package, fd *ast.FuncDecl) (*types.TypeName, bool, bool) {
	expr := ast.Unparen(fd.Recv.List[0].Type)
	pointer := false
	if star, ok := expr.(*ast.StarExpr); ok {
		pointer = true
		expr = ast.Unparen(star.X)
	}
	pos := e.pos(expr.Pos())
	id, ok := expr.(*ast.Ident)
	if !ok {
		e.report(violationReceiverNotStruct(types.ExprString(expr), pos))
		return nil, false, false
	}
	tn, _ := pkg.Info.Uses[id].(*types.TypeName)
	if tn == nil || !tn.Exported() {
		e.report(violationReceiverNotStruct(id.Name, pos))
		return nil, false, false
	}
	if _, isStruct := tn.Type().Underlying().(*types.Struct); !isStruct {
		e.report(violationReceiverNotStruct(id.Name, pos))
		return nil, false, false
	}
	return tn, pointer, true
}

var directiveLocations = map[string]bool{
	"QUERY": true, "MUTATION": true, "SUBSCRIPTION": true, "FIELD": true,
	"FRAGMENT_DEFINITION": true, "FRAGMENT_SPREAD": true, "INLINE_FRAGMENT": true,
	"VARIABLE_DEFINITION": true, "SCHEMA": true, "SCALAR": true, "OBJECT": true,
	"FIELD_DEFINITION": true, "ARGUMENT_DEFINITION": true, "INTERFACE": true, "UNION": true,
	"ENUM": true, "ENUM_VALUE": true, "INPUT_OBJECT": true, "INPUT_FIELD_DEFINITION": true,
}

// directive declares a directive whose arguments are the fields of the function's
// inline struct parameter.
func (e *extractor) directive(pkg *host.Package, fd *ast.FuncDecl, info *docInfo, primary *tag) {
	e.allow(info, primary, "directive functions")
	pos := e.pos(fd.Name.Pos())
	name, repeatable, locations, ok := parseDirectiveTag(primary.Text)
	if !ok {
		e.report(violationDirectiveSyntax(primary.Text, e.pos(primary.Pos)))
		return
	}
	if name == "" {
		name = strcase.ToLowerCamel(fd.Name.Name)
	}
	if !graphQLName.MatchString(name) {
		e.report(violationInvalidNameOverride(primary.Name, name, e.pos(primary.Pos)))
		return
	}
	e.checkReserved("Directive", name, pos)
	for _, loc := range locations {
		if !directiveLocations[loc] {
			e.report(violationDirectiveLocation(loc, e.pos(primary.Pos)))
			return
		}
	}

	def := &ir.DirectiveDefinition{
		Name:        name,
		Description: info.Description,
		Position:    pos,
		Repeatable:  repeatable,
		Locations:   locations,
	}
	params := flatten(fd.Type.Params)
	switch {
	case len(params) == 0:
	case len(params) == 1:
		st, ok := params[0].typ.(*ast.StructType)
		if !ok {
			e.report(violationDirectiveParams(fd.Name.Name, e.pos(params[0].typ.Pos())))
			return
		}
		for _, v := range e.inputFields(pkg, st, "directive arguments") {
			def.Args = append(def.Args, &ir.ArgumentDefinition{
				Name:         v.Name,
				Description:  v.Description,
				Position:     v.Position,
				Type:         v.Type,
				DefaultValue: v.DefaultValue,
				Directives:   v.Directives,
				Deprecation:  v.Deprecation,
			})
		}
	default:
		e.report(violationDirectiveParams(fd.Name.Name, pos))
		return
	}
	e.doc.Directives = append(e.doc.Directives, def)
}

// parseDirectiveTag parses `[name] [repeatable] on LOC | LOC`.
func parseDirectiveTag(text string) (name string, repeatable bool, locations []string, ok bool) {
	toks := strings.Fields(strings.ReplaceAll(text, "|", " | "))
	i := 0
	if i < len(toks) && toks[i] != "on" && toks[i] != "repeatable" {
		name = toks[i]
		i++
	}
	if i < len(toks) && toks[i] == "repeatable" {
		repeatable = true
		i++
	}
	if i >= len(toks) || toks[i] != "on" {
		return "", false, nil, false
	}
	i++
	expectLocation := true
	for ; i < len(toks); i++ {
		if toks[i] == "|" {
			if expectLocation {
				return "", false, nil, false
			}
			expectLocation = true
			continue
		}
		if !expectLocation {
			return "", false, nil, false
		}
		locations = append(locations, toks[i])
		expectLocation = false
	}
	if expectLocation {
		return "", false, nil, false
	}
	return name, repeatable, locations, true
}
