package host

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
)

// Oracle answers declaration questions about a Program.
type Oracle interface {
	// SymbolOf returns the object an identifier denotes or declares.
	SymbolOf(id *ast.Ident) types.Object
	// DeclarationOf returns the syntax declaring obj, or nil when obj was not loaded
	// from source (standard library, export data).
	DeclarationOf(obj types.Object) *Declaration
	// ResolveAlias follows `type A = B` chains to the first non-alias declaration.
	ResolveAlias(obj types.Object) (types.Object, error)
	// AliasTarget takes a single step along an alias chain. It returns nil when obj is not
	// an alias of a named type.
	AliasTarget(obj types.Object) types.Object
	// TypeParametersOf returns the ordered type parameters of a generic type declaration.
	TypeParametersOf(obj types.Object) []*types.TypeName
	Position(pos token.Pos) token.Position
}

var _ Oracle = (*Program)(nil)

func (p *Program) SymbolOf(id *ast.Ident) types.Object {
	pkg := p.PackageOf(id.Pos())
	if pkg == nil || pkg.Info == nil {
		return nil
	}
	if obj := pkg.Info.Uses[id]; obj != nil {
		return obj
	}
	return pkg.Info.Defs[id]
}

func (p *Program) DeclarationOf(obj types.Object) *Declaration {
	if obj == nil {
		return nil
	}
	return p.decls[obj.Pos()]
}

// ErrAliasCycle reports an alias chain that refers back to itself.
type ErrAliasCycle struct {
	Chain []types.Object
}

func (e *ErrAliasCycle) Error() string {
	return fmt.Sprintf("alias cycle through %s", e.Chain[0].Name())
}

// ResolveAlias follows alias declarations through their syntax. An alias whose target is
// not a named type (for example `type IDs = []ID`) resolves to itself.
func (p *Program) ResolveAlias(obj types.Object) (types.Object, error) {
	visited := make(map[types.Object]bool)
	var chain []types.Object
	for {
		tn, ok := obj.(*types.TypeName)
		if !ok || !tn.IsAlias() {
			return obj, nil
		}
		if visited[obj] {
			return nil, &ErrAliasCycle{Chain: chain}
		}
		visited[obj] = true
		chain = append(chain, obj)

		next := p.AliasTarget(tn)
		if next == nil {
			return obj, nil
		}
		obj = next
	}
}

func (p *Program) AliasTarget(obj types.Object) types.Object {
	tn, ok := obj.(*types.TypeName)
	if !ok || !tn.IsAlias() {
		return nil
	}
	if decl := p.DeclarationOf(tn); decl != nil {
		if spec, ok := decl.Node.(*ast.TypeSpec); ok {
			switch target := ast.Unparen(spec.Type).(type) {
			case *ast.Ident:
				return p.SymbolOf(target)
			case *ast.SelectorExpr:
				return p.SymbolOf(target.Sel)
			}
			return nil
		}
	}
	// Declared outside the loaded syntax: fall back to the type checker's view.
	if named, ok := types.Unalias(tn.Type()).(*types.Named); ok {
		return named.Obj()
	}
	if basic, ok := types.Unalias(tn.Type()).(*types.Basic); ok {
		return types.Universe.Lookup(basic.Name())
	}
	return nil
}

func (p *Program) TypeParametersOf(obj types.Object) []*types.TypeName {
	tn, ok := obj.(*types.TypeName)
	if !ok {
		return nil
	}
	named, ok := types.Unalias(tn.Type()).(*types.Named)
	if !ok || named.TypeParams() == nil {
		return nil
	}
	params := named.TypeParams()
	out := make([]*types.TypeName, params.Len())
	for i := range params.Len() {
		out[i] = params.At(i).Obj()
	}
	return out
}
