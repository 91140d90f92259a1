// Package host loads Go packages and answers the declaration questions the extractor and
// the derive passes ask about them.
package host

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
)

// Program is a set of type-checked packages sharing one file set.
type Program struct {
	Fset     *token.FileSet
	Packages []*Package
	// Errors holds load and type-check errors of the packages.
	Errors []*PackageError

	byFile map[*token.File]*Package
	decls  map[token.Pos]*Declaration
}

type Package struct {
	Path  string
	Name  string
	Files []*ast.File
	Types *types.Package
	Info  *types.Info
}

type PackageError struct {
	Position token.Position
	Message  string
}

func (e *PackageError) Error() string {
	if !e.Position.IsValid() {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Position, e.Message)
}

// Declaration is the syntax that declares a symbol.
type Declaration struct {
	// Node is an *ast.TypeSpec, *ast.FuncDecl or *ast.ValueSpec.
	Node ast.Node
	// Doc is the doc comment attached to the declaration, if any. For a single-spec
	// GenDecl without a spec doc, the GenDecl doc is used.
	Doc     *ast.CommentGroup
	File    *ast.File
	Package *Package
}

// NewProgram indexes the declarations of pkgs.
func NewProgram(fset *token.FileSet, pkgs []*Package, errs []*PackageError) *Program {
	p := &Program{
		Fset:     fset,
		Packages: pkgs,
		Errors:   errs,
		byFile:   make(map[*token.File]*Package),
		decls:    make(map[token.Pos]*Declaration),
	}
	for _, pkg := range pkgs {
		for _, file := range pkg.Files {
			if tf := fset.File(file.Pos()); tf != nil {
				p.byFile[tf] = pkg
			}
			p.indexFile(pkg, file)
		}
	}
	return p
}

func (p *Program) indexFile(pkg *Package, file *ast.File) {
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			p.decls[d.Name.Pos()] = &Declaration{Node: d, Doc: d.Doc, File: file, Package: pkg}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					p.decls[s.Name.Pos()] = &Declaration{Node: s, Doc: SpecDoc(d, s.Doc), File: file, Package: pkg}
				case *ast.ValueSpec:
					for _, name := range s.Names {
						p.decls[name.Pos()] = &Declaration{Node: s, Doc: SpecDoc(d, s.Doc), File: file, Package: pkg}
					}
				}
			}
		}
	}
}

// SpecDoc returns the doc comment of a spec inside decl. An unparenthesized GenDecl
// carries the comment on the GenDecl itself.
func SpecDoc(decl *ast.GenDecl, doc *ast.CommentGroup) *ast.CommentGroup {
	if doc != nil {
		return doc
	}
	if !decl.Lparen.IsValid() && len(decl.Specs) == 1 {
		return decl.Doc
	}
	return nil
}

// PackageOf returns the loaded package containing pos.
func (p *Program) PackageOf(pos token.Pos) *Package {
	if tf := p.Fset.File(pos); tf != nil {
		return p.byFile[tf]
	}
	return nil
}

func (p *Program) Position(pos token.Pos) token.Position {
	return p.Fset.Position(pos)
}
