package host

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/scanner"
	"go/token"
	"go/types"
)

type InMemoryFile struct {
	// import path of the package the file belongs to
	Package string
	Name    string
	Content string
}

// InMemoryDiscovery is a test implementation of Discovery that type-checks sources held
// in memory. Imports of other in-memory packages are resolved first; everything else is
// imported from the Go installation's source.
type InMemoryDiscovery struct {
	order []string
	files map[string][]InMemoryFile
}

// NewInMemoryDiscovery creates a new InMemoryDiscovery instance
func NewInMemoryDiscovery(files []InMemoryFile) *InMemoryDiscovery {
	discovery := &InMemoryDiscovery{files: make(map[string][]InMemoryFile)}
	for _, f := range files {
		if _, ok := discovery.files[f.Package]; !ok {
			discovery.order = append(discovery.order, f.Package)
		}
		discovery.files[f.Package] = append(discovery.files[f.Package], f)
	}
	return discovery
}

// Load implements Discovery interface
func (d *InMemoryDiscovery) Load(ctx context.Context) (*Program, error) {
	l := &inMemoryLoader{
		fset:     token.NewFileSet(),
		sources:  d.files,
		checked:  make(map[string]*Package),
		checking: make(map[string]bool),
	}
	l.fallback = importer.ForCompiler(l.fset, "source", nil)

	var pkgs []*Package
	for _, path := range d.order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pkg, err := l.check(path)
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, pkg)
	}
	return NewProgram(l.fset, pkgs, l.errs), nil
}

type inMemoryLoader struct {
	fset     *token.FileSet
	sources  map[string][]InMemoryFile
	checked  map[string]*Package
	checking map[string]bool
	fallback types.Importer
	errs     []*PackageError
}

func (l *inMemoryLoader) Import(path string) (*types.Package, error) {
	if _, ok := l.sources[path]; !ok {
		return l.fallback.Import(path)
	}
	pkg, err := l.check(path)
	if err != nil {
		return nil, err
	}
	return pkg.Types, nil
}

func (l *inMemoryLoader) check(path string) (*Package, error) {
	if pkg, ok := l.checked[path]; ok {
		return pkg, nil
	}
	if l.checking[path] {
		return nil, fmt.Errorf("import cycle through %q", path)
	}
	l.checking[path] = true
	defer delete(l.checking, path)

	var files []*ast.File
	for _, src := range l.sources[path] {
		f, err := parser.ParseFile(l.fset, src.Name, src.Content, parser.ParseComments)
		if err != nil {
			var list scanner.ErrorList
			if errors.As(err, &list) {
				for _, e := range list {
					l.errs = append(l.errs, &PackageError{Position: e.Pos, Message: e.Msg})
				}
				continue
			}
			return nil, fmt.Errorf("failed to parse %s: %w", src.Name, err)
		}
		files = append(files, f)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("package %q has no parsable files", path)
	}

	info := &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Instances:  make(map[*ast.Ident]types.Instance),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
	}
	conf := types.Config{
		Importer: l,
		Error: func(err error) {
			var terr types.Error
			if errors.As(err, &terr) {
				l.errs = append(l.errs, &PackageError{Position: terr.Fset.Position(terr.Pos), Message: terr.Msg})
				return
			}
			l.errs = append(l.errs, &PackageError{Message: err.Error()})
		},
	}
	tpkg, _ := conf.Check(path, l.fset, files, info)

	pkg := &Package{
		Path:  path,
		Name:  files[0].Name.Name,
		Files: files,
		Types: tpkg,
		Info:  info,
	}
	l.checked[path] = pkg
	return pkg, nil
}
