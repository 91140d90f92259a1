package codegen_test

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	_ "github.com/graphql-go/graphql" // resolved by the type-checked generated code
	"github.com/stretchr/testify/require"

	"github.com/hanpama/gqlderive/internal/codegen"
	"github.com/hanpama/gqlderive/internal/derive"
	"github.com/hanpama/gqlderive/internal/extract"
	"github.com/hanpama/gqlderive/internal/host"
	"github.com/hanpama/gqlderive/internal/ir"
)

const appSource = `package app

import (
	"context"
	"errors"
)

// @gqlContext
type Viewer struct {
	UserID string
}

// @gqlEnum
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// @gqlInterface
type Node interface {
	// @gqlField
	ID() string
}

// @gqlType
type Base struct {
	// @gqlField
	CreatedAt string
}

// @gqlType
type User struct {
	Base
	id string
	// @gqlField
	Name string
	// @gqlField
	// @killsParentOnException
	Email string
}

func (u *User) ID() string { return u.id }

// @gqlField
func (u *User) Friends(ctx context.Context, args struct {
	First int  ` + "`json:\"first\" default:\"10\"`" + `
	Role  Role ` + "`json:\"role\" default:\"ADMIN\"`" + `
}) ([]*User, error) {
	return nil, errors.New("not implemented")
}

// @gqlField
func Greeting(u User, viewer *Viewer, prefix string) string { return prefix + u.Name }

// @gqlUnion
type Actor interface{ isActor() }

func (*User) isActor() {}

// @gqlType
type Page[T any] struct {
	// @gqlField
	Items []T
}

// @gqlType
type Tagged[T any] struct {
	// @gqlField
	Label string
	value T
}

type Queries struct{}

// @gqlQueryField
func (Queries) Me(ctx context.Context) (*User, error) { return nil, nil }

// @gqlQueryField
func Actors() []Actor { return nil }

// @gqlQueryField
func Users() Page[User] { return Page[User]{} }

// @gqlQueryField
func UserTag() Tagged[User] { return Tagged[User]{} }

// @gqlQueryField
func NameTag() *Tagged[string] { return nil }

// @gqlSubscriptionField
func UserJoined(ctx context.Context) <-chan *User { return nil }

// @gqlSubscriptionField
// @killsParentOnException
func Heartbeat(ctx context.Context) (<-chan int, error) { return nil, nil }
`

func project(t *testing.T, src string, opts derive.Options) *ir.Project {
	t.Helper()
	prog, err := host.NewInMemoryDiscovery([]host.InMemoryFile{
		{Package: "example.com/app", Name: "app.go", Content: src},
	}).Load(t.Context())
	require.NoError(t, err)
	require.Empty(t, prog.Errors)

	tc := ir.NewTypeContext()
	res, err := extract.Extract(prog, tc)
	require.NoError(t, err)
	proj, err := derive.Build(t.Context(), prog, tc, res, opts)
	require.NoError(t, err)
	return proj
}

func generate(t *testing.T, proj *ir.Project) string {
	t.Helper()
	out, err := codegen.Generate(proj, codegen.Options{
		PackagePath: "example.com/app",
		PackageName: "app",
		Header:      "Schema version 1.",
	})
	require.NoError(t, err)

	_, err = parser.ParseFile(token.NewFileSet(), "schema_gen.go", out, parser.AllErrors)
	require.NoError(t, err, "generated code does not parse:\n%s", out)
	return string(out)
}

func TestGenerate(t *testing.T) {
	src := generate(t, project(t, appSource, derive.Options{NullableByDefault: true}))

	for _, want := range []string{
		"// Schema version 1.",
		"// Code generated by gqlderive. DO NOT EDIT.",
		"package app",
		"func NewSchema() (graphql.Schema, error) {",
		"typeUser = graphql.NewObject(graphql.ObjectConfig{",
		"Interfaces: []*graphql.Interface{typeNode},",
		"Fields: graphql.FieldsThunk(func() graphql.Fields {",
		"typeUserPage = graphql.NewObject(",
		"src := gqlAs[User](p.Source)",
		"src := gqlAs[Page[User]](p.Source)",
		"return src.Base.CreatedAt, nil",
		"return src.Items, nil",
		"typeTagged = graphql.NewObject(",
		"if src := gqlAs[Tagged[User]](p.Source); src != nil {",
		"if src := gqlAs[Tagged[string]](p.Source); src != nil {",
		`return gqlAssertNonNull(src.Email, nil, "User.email")`,
		"Type: graphql.NewNonNull(graphql.String)",
		"var arg1 struct {",
		"`json:\"first\" default:\"10\"`",
		"`json:\"role\" default:\"ADMIN\"`",
		"if err := gqlDecode(p.Args, &arg1); err != nil {",
		"return src.Friends(p.Context, arg1)",
		`"first": &graphql.ArgumentConfig{`,
		"DefaultValue: 10,",
		"DefaultValue: RoleAdmin,",
		"Value: RoleMember",
		`arg2, err := gqlArg[string](p.Args, "prefix")`,
		"return Greeting(*src, gqlContextValue[*Viewer](p.Context), arg2), nil",
		"return (Queries{}).Me(p.Context)",
		"Subscribe: func(p graphql.ResolveParams) (any, error) {",
		"return gqlPipeStream(p.Context, v), nil",
		"return p.Source, nil",
		`return gqlAssertNonNull(p.Source, nil, "Subscription.heartbeat")`,
		"if v, ok := p.Value.(interface {",
		"case *User, User:",
		"Types: []*graphql.Object{typeUser},",
		"func WithGraphQLContext(ctx context.Context, value *Viewer) context.Context {",
		"Query:        typeQuery,",
		"Subscription: typeSubscription,",
	} {
		require.Contains(t, src, want)
	}

	// Helpers are emitted once.
	for _, helper := range []string{"func gqlAs[", "func gqlDecode(", "func gqlArg[", "func gqlAssertNonNull(", "func gqlPipeStream["} {
		require.Equal(t, 1, strings.Count(src, helper), helper)
	}
	require.NotContains(t, src, "func gqlIdentity(")
	require.NotContains(t, src, "func gqlInfo[")
	require.NotContains(t, src, "typePage ")
	require.NotContains(t, src, "typeUserTagged")
}

// The generated file must compile against the package it was derived from.
func TestGenerateTypeChecks(t *testing.T) {
	for _, opts := range []derive.Options{{NullableByDefault: true}, {}} {
		src := appSource
		if !opts.NullableByDefault {
			src = strings.ReplaceAll(src, "// @killsParentOnException\n", "")
		}
		out := generate(t, project(t, src, opts))
		prog, err := host.NewInMemoryDiscovery([]host.InMemoryFile{
			{Package: "example.com/app", Name: "app.go", Content: src},
			{Package: "example.com/app", Name: "schema_gen.go", Content: out},
		}).Load(t.Context())
		require.NoError(t, err)
		var msgs []string
		for _, e := range prog.Errors {
			msgs = append(msgs, e.Error())
		}
		require.Empty(t, msgs, "generated code does not type-check:\n%s", out)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	proj := project(t, appSource, derive.Options{NullableByDefault: true})
	require.Equal(t, generate(t, proj), generate(t, proj))
}

func TestGenerateScalarsAndDirectives(t *testing.T) {
	src := generate(t, project(t, `package app

// Cache hints.
// @gqlDirective on FIELD_DEFINITION
func CacheControl(args struct {
	MaxAge int `+"`json:\"maxAge\"`"+`
}) {
}

// @gqlScalar DateTime
type Time = string

// @gqlInput
type Filter struct {
	Since Time     `+"`json:\"since\"`"+`
	Tags  []string `+"`json:\"tags\" default:\"\\\"go\\\"\"`"+`
}

// @gqlQueryField
// @gqlAnnotate cacheControl(maxAge: 30)
func Now(filter *Filter) Time { return "" }
`, derive.Options{}))

	for _, want := range []string{
		"typeDateTime = graphql.NewScalar(graphql.ScalarConfig{",
		"ParseLiteral: gqlParseLiteral,",
		"Serialize:    gqlIdentity,",
		"typeFilter = graphql.NewInputObject(graphql.InputObjectConfig{",
		"graphql.InputObjectConfigFieldMapThunk(",
		`DefaultValue: []any{"go"},`,
		`arg0, err := gqlArg[*Filter](p.Args, "filter")`,
		"return Now(arg0), nil",
		"graphql.NewDirective(graphql.DirectiveConfig{",
		`Locations:   []string{"FIELD_DEFINITION"},`,
		"append(append([]*graphql.Directive{}, graphql.SpecifiedDirectives...), graphql.NewDirective(",
		`"github.com/graphql-go/graphql/language/ast"`,
	} {
		require.Contains(t, src, want)
	}
	// Scalars are declared before the types that use them.
	require.Less(t, strings.Index(src, "typeDateTime = "), strings.Index(src, "typeFilter = "))
	require.Less(t, strings.Index(src, "typeFilter = "), strings.Index(src, "typeQuery = "))
}

func TestGenerateRequiresPackageName(t *testing.T) {
	_, err := codegen.Generate(&ir.Project{Schema: &ir.Schema{}}, codegen.Options{})
	require.Error(t, err)
}

func TestMetadata(t *testing.T) {
	proj := project(t, appSource, derive.Options{NullableByDefault: true})
	meta := codegen.Metadata(proj)

	friends := meta[codegen.FieldKey{Type: "User", Field: "friends"}]
	require.NotNil(t, friends)
	require.Equal(t, ir.ResolverKindMethod, friends.Kind)

	greeting := meta[codegen.FieldKey{Type: "User", Field: "greeting"}]
	require.NotNil(t, greeting)
	require.Equal(t, ir.ResolverKindFunction, greeting.Kind)
	require.Equal(t, ir.ResolverArgKindContext, greeting.Args[1].Kind)

	createdAt := meta[codegen.FieldKey{Type: "User", Field: "createdAt"}]
	require.NotNil(t, createdAt)
	require.Equal(t, "Base", createdAt.Path[0].Field)

	_, ok := meta[codegen.FieldKey{Type: "Node", Field: "id"}]
	require.False(t, ok)
}
