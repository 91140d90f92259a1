package host

import (
	"context"
	"fmt"
	"go/token"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// FileSystemDiscovery implements Discovery for packages on disk.
type FileSystemDiscovery struct {
	dir      string
	patterns []string
}

// NewFileSystemDiscovery creates a FileSystemDiscovery loading patterns relative to dir.
func NewFileSystemDiscovery(dir string, patterns []string) (*FileSystemDiscovery, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("at least one package pattern is required")
	}
	return &FileSystemDiscovery{dir: dir, patterns: patterns}, nil
}

// Load loads and type-checks the packages matching the discovery patterns.
func (d *FileSystemDiscovery) Load(ctx context.Context) (*Program, error) {
	fset := token.NewFileSet()
	cfg := &packages.Config{
		Context: ctx,
		Dir:     d.dir,
		Fset:    fset,
		Mode:    loadMode,
	}
	loaded, err := packages.Load(cfg, d.patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages %v: %w", d.patterns, err)
	}
	if len(loaded) == 0 {
		return nil, fmt.Errorf("no packages matched %v", d.patterns)
	}

	var (
		pkgs []*Package
		errs []*PackageError
	)
	for _, lp := range loaded {
		for _, e := range lp.Errors {
			errs = append(errs, &PackageError{Position: parseErrorPos(e.Pos), Message: e.Msg})
		}
		if lp.Types == nil {
			continue
		}
		pkgs = append(pkgs, &Package{
			Path:  lp.PkgPath,
			Name:  lp.Name,
			Files: lp.Syntax,
			Types: lp.Types,
			Info:  lp.TypesInfo,
		})
	}
	return NewProgram(fset, pkgs, errs), nil
}

// parseErrorPos parses the "file:line:col" form used by packages.Error.
func parseErrorPos(s string) token.Position {
	if s == "" || s == "-" {
		return token.Position{}
	}
	parts := strings.Split(s, ":")
	pos := token.Position{Filename: s}
	if len(parts) >= 3 {
		line, err1 := strconv.Atoi(parts[len(parts)-2])
		col, err2 := strconv.Atoi(parts[len(parts)-1])
		if err1 == nil && err2 == nil {
			pos.Filename = strings.Join(parts[:len(parts)-2], ":")
			pos.Line, pos.Column = line, col
		}
	} else if len(parts) == 2 {
		if line, err := strconv.Atoi(parts[1]); err == nil {
			pos.Filename, pos.Line = parts[0], line
		}
	}
	return pos
}
