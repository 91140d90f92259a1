package derive_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hanpama/gqlderive/internal/derive"
	eventbus "github.com/hanpama/gqlderive/internal/eventbus"
	events "github.com/hanpama/gqlderive/internal/events"
	"github.com/hanpama/gqlderive/internal/extract"
	"github.com/hanpama/gqlderive/internal/host"
	"github.com/hanpama/gqlderive/internal/ir"
	language "github.com/hanpama/gqlderive/internal/language"
)

func loadProgram(t *testing.T, src string) *host.Program {
	t.Helper()
	prog, err := host.NewInMemoryDiscovery([]host.InMemoryFile{
		{Package: "example.com/app", Name: "app.go", Content: src},
	}).Load(t.Context())
	require.NoError(t, err)
	return prog
}

func buildProgram(t *testing.T, prog *host.Program, opts derive.Options) (*ir.Project, error) {
	t.Helper()
	tc := ir.NewTypeContext()
	res, err := extract.Extract(prog, tc)
	require.NoError(t, err)
	return derive.Build(t.Context(), prog, tc, res, opts)
}

func build(t *testing.T, src string, opts derive.Options) (*ir.Project, error) {
	t.Helper()
	prog := loadProgram(t, src)
	require.Empty(t, prog.Errors)
	return buildProgram(t, prog, opts)
}

func mustBuild(t *testing.T, src string, opts derive.Options) *ir.Project {
	t.Helper()
	proj, err := build(t, src, opts)
	require.NoError(t, err)
	return proj
}

func field(t *testing.T, proj *ir.Project, typeName, fieldName string) *ir.FieldDefinition {
	t.Helper()
	def := proj.Lookup(typeName)
	require.NotNil(t, def, "type %s", typeName)
	f := ir.FieldByName(def.Fields(), fieldName)
	require.NotNil(t, f, "field %s.%s", typeName, fieldName)
	return f
}

func violations(t *testing.T, err error) ir.ValidationError {
	t.Helper()
	var verr ir.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr
}

const userSource = `package app

// @gqlType
type User struct {
	// @gqlField
	Name string
	// @gqlField
	// @killsParentOnException
	Email string
}

// @gqlQueryField
func Me() *User { return nil }
`

func TestNullability(t *testing.T) {
	t.Run("non-null by default", func(t *testing.T) {
		proj, err := build(t, strings.Replace(userSource, "\t// @killsParentOnException\n", "", 1), derive.Options{})
		require.NoError(t, err)
		require.Equal(t, "String!", field(t, proj, "User", "name").Type.String())
		require.Equal(t, "User", field(t, proj, "Query", "me").Type.String())
	})

	t.Run("nullable by default", func(t *testing.T) {
		proj := mustBuild(t, userSource, derive.Options{NullableByDefault: true})
		require.Equal(t, "String", field(t, proj, "User", "name").Type.String())

		email := field(t, proj, "User", "email")
		require.Equal(t, "String!", email.Type.String())
		require.True(t, email.NullCheck)
	})

	t.Run("kill parent requires nullable default", func(t *testing.T) {
		_, err := build(t, userSource, derive.Options{})
		verr := violations(t, err)
		require.Len(t, verr, 1)
		require.Contains(t, verr[0].Message, "requires nullableByDefault")
	})

	t.Run("kill parent on nullable field", func(t *testing.T) {
		src := strings.Replace(userSource, "Email string", "Email *string", 1)
		_, err := build(t, src, derive.Options{NullableByDefault: true})
		require.ErrorContains(t, err, "already nullable")
	})
}

func TestMaterializeGenerics(t *testing.T) {
	proj := mustBuild(t, `package app

// @gqlType
type User struct {
	// @gqlField
	Name string
}

// @gqlType
type Post struct {
	// @gqlField
	Title string
}

// @gqlType
type Edge[T any] struct {
	// @gqlField
	Node T
	// @gqlField
	Cursor string
}

// @gqlType
type Connection[T any] struct {
	// @gqlField
	Edges []T
}

// @gqlQueryField
func Users() Connection[Edge[User]] { return Connection[Edge[User]]{} }

// @gqlQueryField
func Posts() []*Edge[Post] { return nil }

// @gqlQueryField
func Author() *Edge[User] { return nil }
`, derive.Options{})

	require.Nil(t, proj.Lookup("Edge"))
	require.Nil(t, proj.Lookup("Connection"))

	require.Equal(t, "User!", field(t, proj, "UserEdge", "node").Type.String())
	require.Equal(t, "Post!", field(t, proj, "PostEdge", "node").Type.String())
	require.Equal(t, "[UserEdge!]!", field(t, proj, "UserEdgeConnection", "edges").Type.String())
	require.Equal(t, "UserEdgeConnection!", field(t, proj, "Query", "users").Type.String())
	require.Equal(t, "[PostEdge]!", field(t, proj, "Query", "posts").Type.String())
	require.Equal(t, "UserEdge", field(t, proj, "Query", "author").Type.String())

	edge := proj.Lookup("UserEdge").Object
	require.Equal(t, "UserEdge", edge.Go.Instance)
	require.False(t, edge.Go.Template)
	require.Equal(t, "example.com/app.Edge[example.com/app.User]", edge.Go.Type.String())

	count := 0
	for _, def := range proj.Definitions {
		if def.Name() == "UserEdge" {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestSharedGenericDefinition(t *testing.T) {
	proj := mustBuild(t, `package app

// @gqlType
type User struct {
	// @gqlField
	Name string
}

// @gqlType
type Tagged[T any] struct {
	// @gqlField
	Label string
	value T
}

// @gqlType
type Page[T any] struct {
	// @gqlField
	Items []T
	// @gqlField
	Tag Tagged[T]
}

// @gqlQueryField
func UserTag() Tagged[User] { return Tagged[User]{} }

// @gqlQueryField
func NameTag() *Tagged[string] { return nil }

// @gqlQueryField
func Users() Page[User] { return Page[User]{} }
`, derive.Options{})

	require.Nil(t, proj.Lookup("UserTagged"))
	require.Nil(t, proj.Lookup("StringTagged"))
	require.Nil(t, proj.Lookup("Page"))

	tagged := proj.Lookup("Tagged")
	require.NotNil(t, tagged)
	require.False(t, tagged.Object.Go.Template)
	var instances []string
	for _, inst := range tagged.Object.Go.Instances {
		instances = append(instances, inst.String())
	}
	require.ElementsMatch(t, []string{
		"example.com/app.Tagged[example.com/app.User]",
		"example.com/app.Tagged[string]",
	}, instances)

	require.Equal(t, "Tagged!", field(t, proj, "Query", "userTag").Type.String())
	require.Equal(t, "Tagged", field(t, proj, "Query", "nameTag").Type.String())
	require.Equal(t, "Tagged!", field(t, proj, "UserPage", "tag").Type.String())
	require.Equal(t, "UserPage", proj.Lookup("UserPage").Object.Go.Instance)
}

func TestMaterializeSelfReference(t *testing.T) {
	proj := mustBuild(t, `package app

// @gqlType
type User struct {
	// @gqlField
	Name string
}

// @gqlType
type Box[T any] struct {
	// @gqlField
	Value T
	// @gqlField
	Next *Box[T]
	// @gqlField
	Children []Box[T]
}

// @gqlQueryField
func Box1() Box[User] { return Box[User]{} }
`, derive.Options{})

	var names []string
	for _, def := range proj.Definitions {
		names = append(names, def.Name())
	}
	require.ElementsMatch(t, []string{"User", "Query", "UserBox"}, names)
	require.Equal(t, "UserBox", field(t, proj, "UserBox", "next").Type.String())
	require.Equal(t, "[UserBox!]!", field(t, proj, "UserBox", "children").Type.String())
}

func TestMaterializeGrowingArgumentsTerminates(t *testing.T) {
	// The type checker rejects this declaration as an instantiation cycle, but its
	// syntax and object graph are still complete enough to extract.
	prog := loadProgram(t, `package app

// @gqlType
type User struct {
	// @gqlField
	Name string
}

// @gqlType
type Box[T any] struct {
	// @gqlField
	Next *Box[Box[T]]
}

// @gqlQueryField
func Root() Box[User] { return Box[User]{} }
`)
	_, err := buildProgram(t, prog, derive.Options{})
	verr := violations(t, err)
	require.Len(t, verr, 1)
	require.Contains(t, verr[0].Message, "ever-growing type arguments")
	require.Len(t, verr[0].Related, 1)
}

func TestMaterializeViolations(t *testing.T) {
	for _, tc := range []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name: "pointer type argument",
			src: `// @gqlType
type Edge[T any] struct {
	// @gqlField
	Node T
}

// @gqlType
type User struct {
	// @gqlField
	Name string
}

// @gqlQueryField
func E() Edge[*User] { return Edge[*User]{} }`,
			wantErr: "Type argument User of Edge must be a plain type name",
		},
		{
			name: "generic heritage",
			src: `// @gqlType
type Base[T any] struct {
	// @gqlField
	Value T
}

// @gqlType
type User struct {
	Base[string]
	// @gqlField
	Name string
}

// @gqlQueryField
func U() User { return User{} }`,
			wantErr: "Generic type Base cannot be embedded",
		},
		{
			name: "generic owner",
			src: `// @gqlType
type Edge[T any] struct {
	// @gqlField
	Node T
}

// @gqlField
func Cursor(e Edge[string]) string { return "" }

// @gqlQueryField
func E() Edge[string] { return Edge[string]{} }`,
			wantErr: "Cannot add fields to generic type Edge",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := build(t, "package app\n\n"+tc.src+"\n", derive.Options{})
			verr := violations(t, err)
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
			if tc.name != "generic owner" {
				require.NotEmpty(t, verr[0].Related)
			}
		})
	}
}

func TestHeritageFromStructuralInterface(t *testing.T) {
	proj := mustBuild(t, `package app

// @gqlScalar ID
type ID string

// @gqlInterface
type Node interface {
	// @gqlField
	ID() ID
}

// @gqlType
type Photo struct {
	id ID
	// @gqlField
	URL string
}

func (p *Photo) ID() ID { return p.id }

// @gqlQueryField
func Photos() []*Photo { return nil }
`, derive.Options{})

	photo := proj.Lookup("Photo").Object
	require.Equal(t, []string{"Node"}, photo.Interfaces)

	id := field(t, proj, "Photo", "id")
	nodeID := field(t, proj, "Node", "id")
	require.Equal(t, "ID!", id.Type.String())
	require.Equal(t, nodeID.Type.String(), id.Type.String())
	require.Equal(t, ir.ResolverKindMethod, id.Resolver.Kind)
	require.Equal(t, "ID", id.Resolver.Name)
	require.Empty(t, id.Resolver.Path)
}

func TestHeritagePrecedence(t *testing.T) {
	proj := mustBuild(t, `package app

// @gqlType
type Base struct {
	// @gqlField
	Name string
	// @gqlField
	Created string
}

// @gqlField
func Greeting(b *Base) string { return "hi " + b.Name }

// @gqlType
type Account struct {
	*Base
	// @gqlField
	Name *string
}

// @gqlQueryField
func Accounts() []Account { return nil }
`, derive.Options{})

	account := proj.Lookup("Account").Object
	var names []string
	for _, f := range account.Fields {
		names = append(names, f.Name)
	}
	require.Equal(t, []string{"name", "created", "greeting"}, names)

	// The local field wins over the inherited one.
	require.Equal(t, "String", account.Fields[0].Type.String())
	require.Empty(t, account.Fields[0].Resolver.Path)

	created := account.Fields[1]
	require.Equal(t, []*ir.EmbedStep{{Field: "Base", Pointer: true}}, created.Resolver.Path)

	greeting := account.Fields[2]
	require.Equal(t, ir.ResolverKindFunction, greeting.Resolver.Kind)
	require.Equal(t, []*ir.EmbedStep{{Field: "Base", Pointer: true}}, greeting.Resolver.Args[0].Path)

	// Every parent field is present on the child.
	for _, f := range proj.Lookup("Base").Object.Fields {
		require.NotNil(t, ir.FieldByName(account.Fields, f.Name), f.Name)
	}
}

func TestInterfaceEmbedding(t *testing.T) {
	proj := mustBuild(t, `package app

// @gqlInterface
type Node interface {
	// @gqlField
	ID() string
}

// @gqlInterface
type Entity interface {
	Node
	// @gqlField
	Kind() string
}

// @gqlType
type Thing struct{}

func (Thing) ID() string   { return "" }
func (Thing) Kind() string { return "" }

// @gqlQueryField
func Things() []Thing { return nil }
`, derive.Options{})

	entity := proj.Lookup("Entity").Interface
	require.Equal(t, []string{"Node"}, entity.Interfaces)
	require.NotNil(t, ir.FieldByName(entity.Fields, "id"))

	thing := proj.Lookup("Thing").Object
	require.ElementsMatch(t, []string{"Entity", "Node"}, thing.Interfaces)
	require.Len(t, thing.Fields, 2)

	require.Nil(t, proj.Lookup("Node").Interface.Interfaces)
}

func TestUnresolvedOwner(t *testing.T) {
	_, err := build(t, `package app

type Untagged struct{}

// @gqlField
func Describe(u *Untagged) string { return "" }
`, derive.Options{})
	verr := violations(t, err)
	require.Len(t, verr, 1)
	require.Contains(t, verr[0].Message, "Unresolved type reference")
	require.Equal(t, 6, verr[0].Line)
	require.Equal(t, 18, verr[0].Column)
}

func TestOwnerKinds(t *testing.T) {
	_, err := build(t, `package app

// @gqlEnum
type Status string

const StatusOpen Status = "OPEN"

// @gqlField
func Label(s Status) string { return "" }
`, derive.Options{})
	require.ErrorContains(t, err, "Cannot add fields to Status (enum)")

	proj := mustBuild(t, `package app

// @gqlInterface
type Node interface {
	// @gqlField
	ID() string
}

// @gqlField
func Label(n Node) string { return "" }
`, derive.Options{})
	label := field(t, proj, "Node", "label")
	require.Equal(t, ir.SourceModeInterface, label.Resolver.Args[0].Source)
}

func TestSubscriptions(t *testing.T) {
	t.Run("stream unwrapped", func(t *testing.T) {
		src := `package app

// @gqlSubscriptionField
func Ticks() <-chan int { return nil }

// @gqlSubscriptionField
func Names() chan *string { return nil }

// @gqlQueryField
func Now() int { return 0 }
`
		proj := mustBuild(t, src, derive.Options{})
		require.Equal(t, "Subscription", proj.Schema.SubscriptionType)
		require.Equal(t, "Int!", field(t, proj, "Subscription", "ticks").Type.String())
		require.Equal(t, "String", field(t, proj, "Subscription", "names").Type.String())

		proj = mustBuild(t, src, derive.Options{NullableByDefault: true})
		require.Equal(t, "Int", field(t, proj, "Subscription", "ticks").Type.String())
	})

	t.Run("not async iterable", func(t *testing.T) {
		_, err := build(t, `package app

// @gqlSubscriptionField
func Count() int { return 0 }
`, derive.Options{})
		verr := violations(t, err)
		require.Len(t, verr, 1)
		require.Contains(t, verr[0].Message, "not async-iterable")
	})

	t.Run("stream outside subscription", func(t *testing.T) {
		_, err := build(t, `package app

// @gqlQueryField
func Count() <-chan int { return nil }
`, derive.Options{})
		require.ErrorContains(t, err, "only Subscription fields may stream")
	})
}

func TestImplicitRootsAndExtensions(t *testing.T) {
	proj := mustBuild(t, `package app

// @gqlType
type User struct {
	// @gqlField
	Name string
}

// @gqlField
func Initials(u User) string { return "" }

type Mutations struct{}

// @gqlMutationField
func (Mutations) Rename(name string) *User { return nil }

// @gqlQueryField
func Viewer() *User { return nil }
`, derive.Options{})

	require.Equal(t, &ir.Schema{QueryType: "Query", MutationType: "Mutation"}, proj.Schema)
	require.NotNil(t, proj.Lookup("Query").Object)
	require.Nil(t, proj.Lookup("Query").Object.Go)
	require.Equal(t, ir.ResolverKindStaticMethod, field(t, proj, "Mutation", "rename").Resolver.Kind)
	require.Equal(t, ir.SourceModeValue, field(t, proj, "User", "initials").Resolver.Args[0].Source)
	for _, def := range proj.Definitions {
		require.Nil(t, def.Extension)
	}

	_, err := build(t, `package app

// @gqlType
type User struct {
	// @gqlField
	Name string
}

// @gqlField
func Name(u User) string { return "" }
`, derive.Options{})
	verr := violations(t, err)
	require.Len(t, verr, 1)
	require.Contains(t, verr[0].Message, "Field User.name is defined more than once")
	require.Len(t, verr[0].Related, 1)
}

func TestUnionMembers(t *testing.T) {
	proj := mustBuild(t, `package app

// @gqlUnion
type SearchResult interface{ isSearchResult() }

// @gqlType
type User struct {
	// @gqlField
	Name string
}

func (User) isSearchResult() {}

// @gqlType
type Post struct {
	// @gqlField
	Title string
}

func (*Post) isSearchResult() {}

// @gqlType
type Other struct {
	// @gqlField
	Title string
}

// @gqlQueryField
func Search() []SearchResult { return nil }
`, derive.Options{})
	require.Equal(t, []string{"Post", "User"}, proj.Lookup("SearchResult").Union.Types)
}

func TestContextArguments(t *testing.T) {
	proj := mustBuild(t, `package app

// @gqlContext
type Viewer struct{ ID string }

// @gqlInfo
type Info struct{}

// @gqlType
type User struct{}

// @gqlField
func (u *User) Greeting(v *Viewer, info Info, name string) string { return "" }
`, derive.Options{})

	greeting := field(t, proj, "User", "greeting")
	require.Len(t, greeting.Args, 1)
	require.Equal(t, "name", greeting.Args[0].Name)

	kinds := make([]ir.ResolverArgKind, len(greeting.Resolver.Args))
	for i, a := range greeting.Resolver.Args {
		kinds[i] = a.Kind
	}
	require.Equal(t, []ir.ResolverArgKind{ir.ResolverArgKindContext, ir.ResolverArgKindInfo, ir.ResolverArgKindNamed}, kinds)

	_, err := build(t, `package app

// @gqlContext
type Viewer struct{}

// @gqlType
type User struct {
	// @gqlField
	Viewer *Viewer
}
`, derive.Options{})
	require.ErrorContains(t, err, "Context type Viewer can only be used as a resolver parameter")
}

func TestEnumDefaultCoercion(t *testing.T) {
	proj := mustBuild(t, `package app

// @gqlEnum
type Status string

const (
	StatusPublic Status = "PUBLIC"
	StatusDraft  Status = "DRAFT"
)

// @gqlInput
type Filter struct {
	Status   Status   `+"`json:\"status\" default:\"\\\"PUBLIC\\\"\"`"+`
	Statuses []Status `+"`json:\"statuses\" default:\"[\\\"DRAFT\\\"]\"`"+`
}

// @gqlQueryField
func Count(args struct {
	Filter *Filter `+"`json:\"filter\" default:\"{status: \\\"DRAFT\\\"}\"`"+`
}) int {
	return 0
}
`, derive.Options{})

	input := proj.Lookup("Filter").Input
	require.Equal(t, language.EnumValue, input.Fields[0].DefaultValue.Kind)
	require.Equal(t, "PUBLIC", input.Fields[0].DefaultValue.Raw)
	require.Equal(t, language.EnumValue, input.Fields[1].DefaultValue.Children[0].Value.Kind)

	arg := field(t, proj, "Query", "count").Args[0]
	require.Equal(t, language.ObjectValue, arg.DefaultValue.Kind)
	require.Equal(t, language.EnumValue, arg.DefaultValue.Children[0].Value.Kind)
}

func TestBuildPublishesPassEvents(t *testing.T) {
	eventbus.Use(eventbus.New())
	t.Cleanup(func() { eventbus.Use(nil) })

	var passes []string
	unsubscribe := eventbus.Subscribe(func(_ context.Context, e events.PassFinish) {
		require.NoError(t, e.Err)
		passes = append(passes, e.Pass)
	})
	defer unsubscribe()

	mustBuild(t, userSource, derive.Options{NullableByDefault: true})
	require.Equal(t, []string{
		"resolve", "owners", "generics", "unions", "heritage",
		"merge", "nullability", "context", "enumDefaults", "subscriptions",
	}, passes)
}

func TestBuildStopsAfterFailedPass(t *testing.T) {
	eventbus.Use(eventbus.New())
	t.Cleanup(func() { eventbus.Use(nil) })

	var passes []string
	unsubscribe := eventbus.Subscribe(func(_ context.Context, e events.PassStart) {
		passes = append(passes, e.Pass)
	})
	defer unsubscribe()

	_, err := build(t, `package app

type Untagged struct{}

// @gqlType
type User struct {
	// @gqlField
	Friend *Untagged
}
`, derive.Options{})
	require.Error(t, err)
	require.Equal(t, []string{"resolve"}, passes)
}
