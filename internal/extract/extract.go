// Package extract turns tagged Go declarations into provisional GraphQL definitions.
//
// Type references are left as placeholders pointing at Go symbols; the derive passes
// resolve them once every tagged declaration has been named.
package extract

import (
	"go/ast"
	"go/token"
	"go/types"

	"github.com/hanpama/gqlderive/internal/host"
	"github.com/hanpama/gqlderive/internal/ir"
)

// Result is the provisional output of extraction.
type Result struct {
	Document   *ir.Document
	Contexts   []*ir.NameDefinition
	Infos      []*ir.NameDefinition
	Interfaces []*ir.NameDefinition
}

type extractor struct {
	prog   *host.Program
	types  *ir.TypeContext
	doc    *ir.Document
	result *Result

	methods map[*types.TypeName][]*ast.FuncDecl
	consts  map[*types.TypeName][]*ast.Ident
	// tagged records the primary tag of every tagged type declaration.
	tagged   map[*types.TypeName]string
	docs     map[*ast.CommentGroup]bool
	consumed map[*ast.CommentGroup]bool

	violations []*ir.Violation
}

// Extract walks every declaration of prog and records the names of tagged types in tc.
// All independent problems are reported together as an ir.ValidationError.
func Extract(prog *host.Program, tc *ir.TypeContext) (*Result, error) {
	e := &extractor{
		prog:     prog,
		types:    tc,
		doc:      &ir.Document{},
		methods:  make(map[*types.TypeName][]*ast.FuncDecl),
		consts:   make(map[*types.TypeName][]*ast.Ident),
		tagged:   make(map[*types.TypeName]string),
		docs:     make(map[*ast.CommentGroup]bool),
		consumed: make(map[*ast.CommentGroup]bool),
	}
	e.result = &Result{Document: e.doc}

	e.index()
	e.extractTypes()
	e.extractFuncs()
	e.checkStrayTags()

	if len(e.violations) > 0 {
		return nil, ir.ValidationError(e.violations)
	}
	return e.result, nil
}

func (e *extractor) report(v *ir.Violation) {
	e.violations = append(e.violations, v)
}

func (e *extractor) pos(p token.Pos) ir.Position {
	return ir.PositionOf(e.prog.Position(p))
}

// index collects methods by receiver, typed constants by type and the set of comment
// groups attached as doc comments outside function bodies.
func (e *extractor) index() {
	for _, pkg := range e.prog.Packages {
		for _, file := range pkg.Files {
			ast.Inspect(file, func(n ast.Node) bool {
				switch n := n.(type) {
				case *ast.BlockStmt:
					return false
				case *ast.FuncDecl:
					e.markDoc(n.Doc)
				case *ast.GenDecl:
					e.markDoc(n.Doc)
				case *ast.TypeSpec:
					e.markDoc(n.Doc)
				case *ast.ValueSpec:
					e.markDoc(n.Doc)
				case *ast.Field:
					e.markDoc(n.Doc)
				}
				return true
			})

			for _, decl := range file.Decls {
				switch d := decl.(type) {
				case *ast.FuncDecl:
					if recv := receiverType(pkg, d); recv != nil {
						e.methods[recv] = append(e.methods[recv], d)
					}
				case *ast.GenDecl:
					if d.Tok == token.CONST {
						e.indexConsts(pkg, d)
					}
				}
			}
		}
	}
}

func (e *extractor) markDoc(cg *ast.CommentGroup) {
	if cg != nil {
		e.docs[cg] = true
	}
}

func (e *extractor) indexConsts(pkg *host.Package, d *ast.GenDecl) {
	for _, spec := range d.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}
		for _, id := range vs.Names {
			c, ok := pkg.Info.Defs[id].(*types.Const)
			if !ok {
				continue
			}
			if named, ok := types.Unalias(c.Type()).(*types.Named); ok {
				e.consts[named.Obj()] = append(e.consts[named.Obj()], id)
			}
		}
	}
}

// receiverType returns the base type of a method receiver, or nil for free functions.
func receiverType(pkg *host.Package, fd *ast.FuncDecl) *types.TypeName {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return nil
	}
	expr := ast.Unparen(fd.Recv.List[0].Type)
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = ast.Unparen(star.X)
	}
	switch x := expr.(type) {
	case *ast.IndexExpr:
		expr = x.X
	case *ast.IndexListExpr:
		expr = x.X
	}
	id, ok := expr.(*ast.Ident)
	if !ok {
		return nil
	}
	tn, _ := pkg.Info.Uses[id].(*types.TypeName)
	return tn
}

func (e *extractor) extractTypes() {
	for _, pkg := range e.prog.Packages {
		for _, file := range pkg.Files {
			for _, decl := range file.Decls {
				gd, ok := decl.(*ast.GenDecl)
				if !ok || gd.Tok != token.TYPE {
					continue
				}
				for _, spec := range gd.Specs {
					e.typeSpec(pkg, gd, spec.(*ast.TypeSpec))
				}
			}
		}
	}
}

func (e *extractor) typeSpec(pkg *host.Package, gd *ast.GenDecl, ts *ast.TypeSpec) {
	cg := host.SpecDoc(gd, ts.Doc)
	if len(parseDoc(cg).primaries()) == 0 {
		return
	}
	info := e.takeDoc(cg)
	primary := e.primary(info)
	sym, ok := pkg.Info.Defs[ts.Name].(*types.TypeName)
	if !ok {
		return
	}
	e.tagged[sym] = primary.Name

	switch primary.Name {
	case tagType:
		e.objectType(pkg, ts, sym, info, primary)
	case tagInterface:
		e.interfaceType(pkg, ts, sym, info, primary)
	case tagInput:
		e.inputObject(pkg, ts, sym, info, primary)
	case tagEnum:
		e.enumType(ts, sym, info, primary)
	case tagUnion:
		e.unionType(ts, sym, info, primary)
	case tagScalar:
		e.scalarType(ts, sym, info, primary)
	case tagContext, tagInfo:
		e.contextType(ts, sym, info, primary)
	default:
		e.report(violationTagUnsupported(primary.Name, "type declarations", e.pos(primary.Pos)))
	}
}

func (e *extractor) extractFuncs() {
	for _, pkg := range e.prog.Packages {
		for _, file := range pkg.Files {
			for _, decl := range file.Decls {
				if fd, ok := decl.(*ast.FuncDecl); ok {
					e.funcDecl(pkg, fd)
				}
			}
		}
	}
}

func (e *extractor) funcDecl(pkg *host.Package, fd *ast.FuncDecl) {
	if e.consumed[fd.Doc] {
		// Claimed by the object owning the method.
		return
	}
	primaries := parseDoc(fd.Doc).primaries()
	if len(primaries) == 0 {
		return
	}
	recv := receiverType(pkg, fd)
	if recv != nil && primaries[0].Name == tagField {
		if kind, ok := e.tagged[recv]; ok {
			e.takeDoc(fd.Doc)
			if kind != tagType {
				e.report(violationFieldNeedsTaggedReceiver(fd.Name.Name, recv.Name(), e.pos(fd.Name.Pos())))
			}
			return
		}
	}

	info := e.takeDoc(fd.Doc)
	primary := e.primary(info)
	switch primary.Name {
	case tagField, tagQueryField, tagMutationField, tagSubscriptionField:
		e.functionField(pkg, fd, info, primary)
	case tagDirective:
		if fd.Recv != nil {
			e.report(violationTagUnsupported(primary.Name, "methods", e.pos(primary.Pos)))
			return
		}
		e.directive(pkg, fd, info, primary)
	default:
		e.report(violationTagUnsupported(primary.Name, "functions", e.pos(primary.Pos)))
	}
}

// takeDoc parses a doc comment that a declaration claims and reports its malformed tags.
func (e *extractor) takeDoc(cg *ast.CommentGroup) *docInfo {
	info := parseDoc(cg)
	if cg == nil || e.consumed[cg] {
		return info
	}
	e.consumed[cg] = true
	e.reportInvalid(info)
	for _, t := range info.all(tagImplements) {
		e.report(violationImplementsRemoved(e.pos(t.Pos)))
	}
	return info
}

func (e *extractor) reportInvalid(info *docInfo) {
	for _, tok := range info.Invalid {
		if canonical, _ := classifyTag(tok.Word); canonical != "" {
			e.report(violationIncorrectCasing(tok.Word, canonical, e.pos(tok.Pos)))
		} else {
			e.report(violationUnknownTag(tok.Word, e.pos(tok.Pos)))
		}
	}
}

// primary returns the first primary tag and reports any other.
func (e *extractor) primary(info *docInfo) *tag {
	ps := info.primaries()
	if len(ps) == 0 {
		return nil
	}
	first := ps[0]
	for _, t := range ps[1:] {
		if t.Name == first.Name {
			e.report(violationDuplicateTag(t.Name, e.pos(t.Pos), e.pos(first.Pos)))
		} else {
			e.report(violationConflictingTags(t.Name, first.Name, e.pos(t.Pos), e.pos(first.Pos)))
		}
	}
	return first
}

// allow reports modifier tags that element does not accept. Primary tags other than
// primary are reported as unsupported when no primary applies.
func (e *extractor) allow(info *docInfo, primary *tag, element string, allowed ...string) {
	seen := make(map[string]*tag)
	for _, t := range info.Tags {
		if t == primary || t.Name == tagImplements {
			continue
		}
		if primaryTags[t.Name] && primary != nil {
			continue
		}
		if !contains(allowed, t.Name) {
			e.report(violationTagUnsupported(t.Name, element, e.pos(t.Pos)))
			continue
		}
		if first, dup := seen[t.Name]; dup && t.Name != tagAnnotate {
			e.report(violationDuplicateTag(t.Name, e.pos(t.Pos), e.pos(first.Pos)))
			continue
		}
		seen[t.Name] = t
	}
}

// checkStrayTags reports tags in comment groups no declaration claimed.
func (e *extractor) checkStrayTags() {
	for _, pkg := range e.prog.Packages {
		for _, file := range pkg.Files {
			for _, cg := range file.Comments {
				if e.consumed[cg] {
					continue
				}
				info := parseDoc(cg)
				e.reportInvalid(info)
				for _, t := range info.Tags {
					pos := e.pos(t.Pos)
					switch {
					case t.Name == tagImplements:
						e.report(violationImplementsRemoved(pos))
					case !e.docs[cg]:
						e.report(violationTagNotInDoc(t.Name, pos))
					default:
						e.report(violationTagUnsupported(t.Name, "this declaration", pos))
					}
				}
			}
		}
	}
}

// nameOverride returns the GraphQL name written after a primary tag, if any.
func (e *extractor) nameOverride(t *tag) string {
	if t.Text == "" {
		return ""
	}
	if !graphQLName.MatchString(t.Text) {
		e.report(violationInvalidNameOverride(t.Name, t.Text, e.pos(t.Pos)))
		return ""
	}
	return t.Text
}

func (e *extractor) checkReserved(kind, name string, pos ir.Position) {
	if len(name) >= 2 && name[:2] == "__" {
		e.report(violationReservedName(kind, name, pos))
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
