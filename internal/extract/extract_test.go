package extract_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hanpama/gqlderive/internal/extract"
	"github.com/hanpama/gqlderive/internal/host"
	"github.com/hanpama/gqlderive/internal/ir"
)

func load(t *testing.T, src string) *host.Program {
	t.Helper()
	prog, err := host.NewInMemoryDiscovery([]host.InMemoryFile{
		{Package: "example.com/app", Name: "app.go", Content: src},
	}).Load(t.Context())
	require.NoError(t, err)
	require.Empty(t, prog.Errors)
	return prog
}

func extractSource(t *testing.T, src string) (*extract.Result, error) {
	t.Helper()
	return extract.Extract(load(t, src), ir.NewTypeContext())
}

func TestExtractObject(t *testing.T) {
	res, err := extractSource(t, `package app

import "context"

// User is a person.
// @gqlType
type User struct {
	// @gqlField
	ID string
	// @gqlField handle
	Name *string
	// @gqlField
	// @deprecated use handle
	Tags []string
	secret string
	Base
}

type Base struct{}

// @gqlField
func (u *User) Friends(ctx context.Context, args struct {
	// How many.
	First int `+"`json:\"first\" default:\"10\"`"+`
}) ([]*User, error) {
	return nil, nil
}

func (u *User) Typename() string { return "User" }
`)
	require.NoError(t, err)
	require.Len(t, res.Document.Definitions, 1)

	obj := res.Document.Definitions[0].Object
	require.NotNil(t, obj)
	require.Equal(t, "User", obj.Name)
	require.Equal(t, "User is a person.", obj.Description)
	require.Equal(t, "example.com/app", obj.Go.Package)
	require.True(t, obj.Go.Exported)
	require.NotNil(t, obj.Typename)
	require.Equal(t, "User", obj.Typename.Literal)

	var names []string
	for _, f := range obj.Fields {
		names = append(names, f.Name)
	}
	require.Equal(t, []string{"id", "handle", "tags", "friends"}, names)

	require.Equal(t, "String!", obj.Fields[0].Type.String())
	require.Equal(t, "String", obj.Fields[1].Type.String())
	require.Equal(t, "[String!]!", obj.Fields[2].Type.String())
	require.Equal(t, "use handle", obj.Fields[2].Deprecation.Reason)

	friends := obj.Fields[3]
	require.True(t, friends.Fallible)
	require.Equal(t, ir.ResolverKindMethod, friends.Resolver.Kind)
	require.Len(t, friends.Resolver.Args, 2)
	require.Equal(t, ir.ResolverArgKindContext, friends.Resolver.Args[0].Kind)
	require.Equal(t, ir.ResolverArgKindArgs, friends.Resolver.Args[1].Kind)
	require.Len(t, friends.Args, 1)
	require.Equal(t, "first", friends.Args[0].Name)
	require.Equal(t, "How many.", friends.Args[0].Description)
	require.Equal(t, "10", friends.Args[0].DefaultValue.Raw)
	require.True(t, friends.Type.IsNonNull())
	require.True(t, friends.Type.OfType.OfType.IsUnresolved())

	// Embedding an untagged type is still recorded; it is ignored once names resolve.
	require.Len(t, obj.Heritage, 1)
	require.Equal(t, "Base", obj.Heritage[0].Field)
}

func TestExtractExtensionsAndRoots(t *testing.T) {
	res, err := extractSource(t, `package app

// @gqlType
type User struct{}

// @gqlField
func FullName(u *User, sep string) string { return "" }

type Queries struct{}

// @gqlQueryField
func (Queries) Me() *User { return nil }

// @gqlSubscriptionField
func Ticks() <-chan int { return nil }
`)
	require.NoError(t, err)
	require.Len(t, res.Document.Definitions, 4)

	ext := res.Document.Definitions[1].Extension
	require.Equal(t, ir.ExtensionKindAbstract, ext.Kind)
	require.True(t, ext.Owner.IsUnresolved())
	field := ext.Fields[0]
	require.Equal(t, "fullName", field.Name)
	require.Equal(t, ir.ResolverKindFunction, field.Resolver.Kind)
	require.Equal(t, ir.SourceModePointer, field.Resolver.Args[0].Source)
	require.Equal(t, ir.ResolverArgKindNamed, field.Resolver.Args[1].Kind)
	require.Equal(t, "sep", field.Args[0].Name)

	me := res.Document.Definitions[2].Extension
	require.Equal(t, ir.ExtensionKindObject, me.Kind)
	require.Equal(t, ir.QueryType, me.Name)
	require.Equal(t, ir.ResolverKindStaticMethod, me.Fields[0].Resolver.Kind)
	require.Equal(t, "Queries", me.Fields[0].Resolver.Receiver)

	ticks := res.Document.Definitions[3].Extension
	require.Equal(t, ir.SubscriptionType, ticks.Name)
	require.True(t, ticks.Fields[0].Stream)
	require.Equal(t, "[Int!]!", ticks.Fields[0].Type.String())
}

func TestExtractEnumUnionScalarInput(t *testing.T) {
	res, err := extractSource(t, `package app

// @gqlEnum
type Status string

const (
	// Visible to everyone.
	StatusPublic Status = "PUBLIC"
	// @deprecated
	StatusHidden Status = "HIDDEN"
)

// @gqlUnion
type SearchResult interface{ isSearchResult() }

// @gqlScalar DateTime
type Time = string

// @gqlScalar ID
type UserID string

// @gqlInput
type Filter struct {
	Query  string `+"`json:\"q\"`"+`
	Limit  *int
	Ignore string `+"`json:\"-\"`"+`
	hidden bool
}
`)
	require.NoError(t, err)
	require.Len(t, res.Document.Definitions, 4)

	enum := res.Document.Definitions[0].Enum
	require.Len(t, enum.Values, 2)
	require.Equal(t, "PUBLIC", enum.Values[0].Name)
	require.Equal(t, "StatusPublic", enum.Values[0].GoName)
	require.Equal(t, "Visible to everyone.", enum.Values[0].Description)
	require.NotNil(t, enum.Values[1].Deprecation)

	require.Equal(t, "SearchResult", res.Document.Definitions[1].Union.Name)
	require.Equal(t, "DateTime", res.Document.Definitions[2].Scalar.Name)

	input := res.Document.Definitions[3].Input
	require.Len(t, input.Fields, 2)
	require.Equal(t, "q", input.Fields[0].Name)
	require.Equal(t, "limit", input.Fields[1].Name)
	require.Equal(t, "Int", input.Fields[1].Type.String())
}

func TestExtractContextDeclarations(t *testing.T) {
	tc := ir.NewTypeContext()
	res, err := extract.Extract(load(t, `package app

// @gqlContext
type Ctx struct{}

// @gqlInfo
type Info struct{}

// @gqlInterface
type Node interface {
	// @gqlField
	ID() string
}
`), tc)
	require.NoError(t, err)
	require.Len(t, res.Contexts, 1)
	require.Len(t, res.Infos, 1)
	require.Len(t, res.Interfaces, 1)
	require.Equal(t, "Node", res.Interfaces[0].Name)
	require.Len(t, tc.Definitions(), 3)
}

func TestExtractViolations(t *testing.T) {
	for _, tc := range []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "unknown tag",
			src:     "// @gqlTypo\ntype T struct{}",
			wantErr: "Unknown tag @gqlTypo",
		},
		{
			name:    "incorrect casing",
			src:     "// @GQLType\ntype T struct{}",
			wantErr: "Incorrect casing for tag @GQLType; expected @gqlType",
		},
		{
			name:    "trailing comment",
			src:     "// @gqlType\ntype T struct {\n\tA string // @gqlField\n}",
			wantErr: "must be placed in the doc comment",
		},
		{
			name:    "free floating comment",
			src:     "// @gqlType\n\n\ntype T struct{}",
			wantErr: "must be placed in the doc comment",
		},
		{
			name:    "conflicting tags",
			src:     "// @gqlType\n// @gqlInput\ntype T struct{}",
			wantErr: "conflicts with @gqlType",
		},
		{
			name:    "interface on struct",
			src:     "// @gqlInterface\ntype T struct{}",
			wantErr: "use @gqlType on structs",
		},
		{
			name:    "removed implements",
			src:     "// @gqlType\n// @gqlImplements Node\ntype T struct{}",
			wantErr: "@gqlImplements is not supported",
		},
		{
			name:    "bad name override",
			src:     "// @gqlType Two Words\ntype T struct{}",
			wantErr: "Expected a single GraphQL name after @gqlType",
		},
		{
			name:    "unexported field",
			src:     "// @gqlType\ntype T struct {\n\t// @gqlField\n\tname string\n}",
			wantErr: `Field "name" must be exported`,
		},
		{
			name:    "map field",
			src:     "// @gqlType\ntype T struct {\n\t// @gqlField\n\tM map[string]int\n}",
			wantErr: "a map cannot be represented",
		},
		{
			name:    "unnamed parameter",
			src:     "// @gqlType\ntype T struct{}\n\n// @gqlField\nfunc (T) F(int) string { return \"\" }",
			wantErr: "must be named",
		},
		{
			name:    "bad results",
			src:     "// @gqlType\ntype T struct{}\n\n// @gqlField\nfunc (T) F() (string, int) { return \"\", 0 }",
			wantErr: "must return T or (T, error)",
		},
		{
			name:    "malformed default",
			src:     "// @gqlInput\ntype T struct {\n\tA int `default:\"{\"`\n}",
			wantErr: "Invalid default value",
		},
		{
			name:    "enum not string",
			src:     "// @gqlEnum\ntype E int\n\nconst A E = 1",
			wantErr: "must have string as its underlying type",
		},
		{
			name:    "union without methods",
			src:     "// @gqlUnion\ntype U interface{}",
			wantErr: "at least one method",
		},
		{
			name:    "generic function",
			src:     "// @gqlType\ntype T struct{}\n\n// @gqlField\nfunc F[X any](t T) string { return \"\" }",
			wantErr: "Generic function F",
		},
		{
			name:    "field on untagged field",
			src:     "type T struct {\n\t// @gqlField\n\tA string\n}",
			wantErr: "Tag @gqlField is not supported on this declaration",
		},
		{
			name:    "reserved name",
			src:     "// @gqlType __T\ntype T struct{}",
			wantErr: "reserved prefix",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := extractSource(t, "package app\n\n"+tc.src+"\n")
			require.Error(t, err)
			var verr ir.ValidationError
			require.ErrorAs(t, err, &verr)
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestExtractReportsEveryViolation(t *testing.T) {
	_, err := extractSource(t, `package app

// @gqlTypo
type A struct{}

// @gqlEnum
type B int
`)
	var verr ir.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr, 2)
	lines := []int{verr[0].Line, verr[1].Line}
	require.ElementsMatch(t, []int{3, 6}, lines)
}
