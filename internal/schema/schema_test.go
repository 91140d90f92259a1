package schema

import (
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
	language "github.com/hanpama/gqlderive/internal/language"
)

func buildProject(t *testing.T, src string, opts derive.Options) *ir.Project {
	t.Helper()
	prog, err := host.NewInMemoryDiscovery([]host.InMemoryFile{
		{Package: "example.com/app", Name: "app.go", Content: src},
	}).Load(t.Context())
	require.NoError(t, err)
	require.Empty(t, prog.Errors)

	tc := ir.NewTypeContext()
	res, err := extract.Extract(prog, tc)
	require.NoError(t, err, "failed to extract")
	proj, err := derive.Build(t.Context(), prog, tc, res, opts)
	require.NoError(t, err, "failed to derive")
	return proj
}

func TestSchemaRenderSnapshot(t *testing.T) {
	proj := buildProject(t, mustReadFile(t, "testdata/app.go"), derive.Options{})

	_, err := Validate(proj)
	require.NoError(t, err, "failed to validate schema")

	// Render schema to SDL
	actual := Render(BuildFromIR(proj))

	// Snapshot file path
	snapshotPath := filepath.Join("testdata", "schema_rendered.graphql")

	// If snapshot doesn't exist, create it
	if _, err := os.Stat(snapshotPath); os.IsNotExist(err) {
		err := os.WriteFile(snapshotPath, []byte(actual), 0644)
		require.NoError(t, err, "failed to write snapshot file")
		t.Logf("Created snapshot file: %s", snapshotPath)
		return
	}

	// Read existing snapshot
	expected, err := os.ReadFile(snapshotPath)
	require.NoError(t, err, "failed to read snapshot file")

	// Compare snapshots
	if diff := cmp.Diff(string(expected), actual); diff != "" {
		t.Errorf("Rendered schema snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderContents(t *testing.T) {
	proj := buildProject(t, mustReadFile(t, "testdata/app.go"), derive.Options{})
	sdl := Render(BuildFromIR(proj))

	for _, want := range []string{
		"directive @cacheControl(maxAge: Int!) on FIELD_DEFINITION | OBJECT",
		"type User implements Node @cacheControl(maxAge: 60) {",
		"posts(first: Int! = 10, visibility: Visibility! = PUBLIC): [Post]!",
		"type PostEdge {",
		"union SearchResult = Post | User",
		"FRIENDS @deprecated(reason: \"use PUBLIC\")",
		"scalar DateTime",
		"postAdded: Post",
	} {
		require.Contains(t, sdl, want)
	}
	require.NotContains(t, sdl, "type Edge ")
	require.NotContains(t, sdl, "scalar ID")

	// Objects come first, scalars last.
	require.Less(t, strings.Index(sdl, "type Post "), strings.Index(sdl, "interface Node"))
	require.Less(t, strings.Index(sdl, "input SearchInput"), strings.Index(sdl, "scalar DateTime"))
}

func TestRenderRoundTrip(t *testing.T) {
	for _, opts := range []derive.Options{{}, {NullableByDefault: true}} {
		proj := buildProject(t, mustReadFile(t, "testdata/app.go"), opts)
		first := Render(BuildFromIR(proj))

		doc, err := language.ParseSchema("schema.graphql", first)
		require.NoError(t, err)
		second := Render(doc)

		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("round trip changed the schema (-first +second):\n%s", diff)
		}
	}
}

func TestValidateViolations(t *testing.T) {
	for _, tc := range []struct {
		name    string
		src     string
		wantErr string
		line    int
	}{
		{
			name: "object without fields",
			src: `// @gqlType
type Empty struct{}

// @gqlQueryField
func E() Empty { return Empty{} }`,
			wantErr: "Type Empty must define one or more fields",
			line:    4,
		},
		{
			name: "unexported member without typename",
			src: `// @gqlUnion
type Result interface{ isResult() }

// @gqlType Thing
type thing struct {
	// @gqlField
	Name string
}

func (thing) isResult() {}

// @gqlQueryField
func R() Result { return nil }`,
			wantErr: "Cannot resolve the runtime type of Result as Thing: its Go type is not exported",
			line:    7,
		},
		{
			name: "mismatched typename literal",
			src: `// @gqlInterface
type Node interface {
	// @gqlField
	ID() string
}

// @gqlType
type User struct{}

func (User) ID() string       { return "" }
func (User) Typename() string { return "Person" }

// @gqlQueryField
func N() Node { return nil }`,
			wantErr: `its Typename method returns "Person"`,
			line:    10,
		},
		{
			name: "generic member",
			src: `// @gqlUnion
type Result interface{ isResult() }

// @gqlType
type Box[T any] struct {
	// @gqlField
	Value T
}

func (Box[T]) isResult() {}

// @gqlQueryField
func R() Result { return nil }

// @gqlQueryField
func B() Box[string] { return Box[string]{} }`,
			wantErr: "StringBox: it is a materialized generic type",
		},
		{
			name: "two contexts",
			src: `// @gqlContext
type A struct{}

// @gqlContext
type B struct{}

// @gqlQueryField
func Q() string { return "" }`,
			wantErr: "Only one declaration may be tagged @gqlContext",
			line:    7,
		},
		{
			name: "merged interface",
			src: `// @gqlInterface Node
type A interface {
	// @gqlField
	ID() string
}

// @gqlInterface Node
type B interface {
	// @gqlField
	Key() string
}

// @gqlQueryField
func Q() A { return nil }`,
			wantErr: "Interface Node is declared by more than one Go type",
			line:    10,
		},
		{
			name: "directive argument type",
			src: `// @gqlDirective on FIELD_DEFINITION
func Limit(args struct {
	Max int ` + "`json:\"max\"`" + `
}) {
}

// @gqlQueryField
// @gqlAnnotate limit(max: "ten")
func Q() string { return "" }`,
			wantErr: `Invalid argument max of @limit: "ten" is not a valid Int`,
			line:    10,
		},
		{
			name: "invalid default",
			src: `// @gqlQueryField
func Q(args struct {
	N int ` + "`json:\"n\" default:\"\\\"x\\\"\"`" + `
}) string {
	return ""
}`,
			wantErr: `Invalid default value for Query.q.n: "x" is not a valid Int`,
			line:    5,
		},
		{
			name: "redeclared type",
			src: `// @gqlType User
type A struct {
	// @gqlField
	Name string
}

// @gqlType User
type B struct {
	// @gqlField
	Name string
}

// @gqlQueryField
func Q() A { return A{} }`,
			wantErr: "Cannot redeclare type User.",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			proj := buildProject(t, "package app\n\n"+tc.src+"\n", derive.Options{})
			_, err := Validate(proj)
			require.Error(t, err)

			var verr ir.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr, 1)
			if !strings.Contains(verr[0].Message, tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
			if tc.line != 0 {
				require.Equal(t, tc.line, verr[0].Line)
				require.Equal(t, "app.go", verr[0].File)
			}
		})
	}
}

func mustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read file: %s", path)
	return string(content)
}
