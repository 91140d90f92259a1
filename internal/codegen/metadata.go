package codegen

import "github.com/hanpama/gqlderive/internal/ir"

// FieldKey identifies an object field.
type FieldKey struct {
	Type  string
	Field string
}

// Metadata returns the resolver descriptor behind every generated object field.
func Metadata(p *ir.Project) map[FieldKey]*ir.Resolver {
	m := make(map[FieldKey]*ir.Resolver)
	for _, e := range p.Resolvers() {
		m[FieldKey{Type: e.Type, Field: e.Field}] = e.Resolver
	}
	return m
}
