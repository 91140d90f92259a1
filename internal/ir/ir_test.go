package ir_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/gqlderive/internal/derive"
	"github.com/hanpama/gqlderive/internal/extract"
	"github.com/hanpama/gqlderive/internal/host"
	"github.com/hanpama/gqlderive/internal/ir"
)

func TestGoodSnapshot(t *testing.T) {
	for _, tc := range []struct {
		name    string
		options derive.Options
	}{
		{name: "objects", options: derive.Options{NullableByDefault: true}},
		{name: "generics", options: derive.Options{NullableByDefault: true}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			source := filepath.Join("testdata", "good", tc.name+".go")
			snapshot := filepath.Join("testdata", "good", tc.name+".json")

			prog, err := host.NewInMemoryDiscovery([]host.InMemoryFile{
				{Package: "example.com/app", Name: tc.name + ".go", Content: mustReadData(t, source)},
			}).Load(t.Context())
			require.NoError(t, err)
			require.Empty(t, prog.Errors)

			typeCtx := ir.NewTypeContext()
			res, err := extract.Extract(prog, typeCtx)
			require.NoError(t, err)
			project, err := derive.Build(t.Context(), prog, typeCtx, res, tc.options)
			require.NoError(t, err)

			got, err := json.MarshalIndent(project, "", "  ")
			require.NoError(t, err)
			got = append(got, '\n')

			// if snapshot file does not exist, create it
			if _, err := os.Stat(snapshot); os.IsNotExist(err) {
				require.NoError(t, os.WriteFile(snapshot, got, 0644))
				t.Logf("Snapshot created: %s", snapshot)
				return
			}
			want := mustReadData(t, snapshot)
			if diff := cmp.Diff(want, string(got)); diff != "" {
				t.Errorf("Project mismatch (-expected +got):\n%s", diff)
			}
		})
	}
}

func TestTypeExpr(t *testing.T) {
	named := ir.NamedType("User")
	list := ir.NonNullType(ir.ListType(ir.NonNullType(named)))

	require.Equal(t, "[User!]!", list.String())
	require.Same(t, list, ir.NonNullType(list))
	require.Equal(t, "[User!]", ir.Nullable(list).String())
	require.Same(t, named, list.NamedType())
	require.Equal(t, "Unknown", (*ir.TypeExpr)(nil).String())

	generic := &ir.TypeExpr{Kind: ir.TypeExprKindNamed, Named: "Edge", Args: []*ir.TypeExpr{named, ir.ListType(ir.NamedType("Post"))}}
	require.Equal(t, "Edge[User, [Post]]", generic.String())

	var visited []string
	generic.Walk(func(t *ir.TypeExpr) { visited = append(visited, string(t.Kind)+":"+t.Named) })
	require.Equal(t, []string{"NAMED:Edge", "NAMED:User", "LIST:", "NAMED:Post"}, visited)

	clone := list.Clone()
	clone.NamedType().Named = "Post"
	require.Equal(t, "User", named.Named)
}

func TestResolverWithPath(t *testing.T) {
	path := []*ir.EmbedStep{{Field: "Base", Pointer: true}}

	method := &ir.Resolver{Kind: ir.ResolverKindMethod, Name: "CreatedAt", Path: []*ir.EmbedStep{{Field: "Meta"}}}
	rebased := method.WithPath(path)
	require.Equal(t, []*ir.EmbedStep{{Field: "Base", Pointer: true}, {Field: "Meta"}}, rebased.Path)
	require.Len(t, method.Path, 1)

	fn := &ir.Resolver{Kind: ir.ResolverKindFunction, Name: "Excerpt", Args: []*ir.ResolverArg{
		{Kind: ir.ResolverArgKindSource, Source: ir.SourceModePointer},
		{Kind: ir.ResolverArgKindSource, Source: ir.SourceModeInterface},
		{Kind: ir.ResolverArgKindNamed, Name: "length"},
	}}
	rebased = fn.WithPath(path)
	require.Equal(t, path, rebased.Args[0].Path)
	require.Empty(t, rebased.Args[1].Path)
	require.Empty(t, rebased.Args[2].Path)
	require.Empty(t, fn.Args[0].Path)
}

func TestProjectResolvers(t *testing.T) {
	field := func(name string) *ir.FieldDefinition {
		return &ir.FieldDefinition{Name: name, Resolver: &ir.Resolver{Kind: ir.ResolverKindProperty, Name: name}}
	}
	p := &ir.Project{Definitions: []*ir.Definition{
		{Object: &ir.ObjectDefinition{Name: "User", Fields: []*ir.FieldDefinition{field("name"), field("age")}}},
		{Interface: &ir.InterfaceDefinition{Name: "Node", Fields: []*ir.FieldDefinition{field("id")}}},
		{Object: &ir.ObjectDefinition{Name: "Query", Fields: []*ir.FieldDefinition{field("me")}}},
	}}

	var got []string
	for _, e := range p.Resolvers() {
		got = append(got, e.Type+"."+e.Field)
	}
	require.Equal(t, []string{"Query.me", "User.age", "User.name"}, got)
	require.Equal(t, "Node", p.Lookup("Node").Name())
	require.Nil(t, p.Lookup("Missing"))
}

func TestValidationError(t *testing.T) {
	v := ir.NewViolation("Interface Node is declared by more than one Go type", ir.Position{File: "a.go", Line: 3, Column: 6})
	v.Relate("also declared here", ir.Position{File: "b.go", Line: 9, Column: 6})
	err := ir.ValidationError{v, ir.NewViolation("no position", ir.Position{})}

	require.Equal(t, strings.Join([]string{
		"violations found:",
		"- Interface Node is declared by more than one Go type a.go:3:6",
		"    also declared here b.go:9:6",
		"- no position",
		"",
	}, "\n"), err.Error())
}

func mustReadData(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
