package app

import (
	"context"
	"errors"
)

// Cache hints for a field or type.
// @gqlDirective on FIELD_DEFINITION | OBJECT
func CacheControl(args struct {
	MaxAge int `json:"maxAge"`
}) {
}

// @gqlScalar DateTime
type Time = string

// @gqlScalar ID
type ID string

// Who can see a post.
// @gqlEnum
type Visibility string

const (
	// Everyone.
	VisibilityPublic Visibility = "PUBLIC"
	// @deprecated use PUBLIC
	VisibilityFriends Visibility = "FRIENDS"
)

// @gqlInterface
type Node interface {
	// @gqlField
	ID() ID
}

// A registered person.
// @gqlType
// @gqlAnnotate cacheControl(maxAge: 60)
type User struct {
	id ID
	// @gqlField
	Name string
	// @gqlField
	Joined Time
}

func (u *User) ID() ID { return u.id }

// @gqlField
func (u *User) Posts(ctx context.Context, args struct {
	First      int        `json:"first" default:"10"`
	Visibility Visibility `json:"visibility" default:"\"PUBLIC\""`
}) ([]*Post, error) {
	return nil, errors.New("not implemented")
}

// @gqlType
type Post struct {
	id ID
	// @gqlField
	// @gqlAnnotate cacheControl(maxAge: 5)
	Title string
	// @gqlField
	Author *User
}

func (p *Post) ID() ID { return p.id }

// @gqlUnion
type SearchResult interface{ isSearchResult() }

func (*User) isSearchResult() {}
func (*Post) isSearchResult() {}

// @gqlInput
type SearchInput struct {
	Query string `json:"query"`
	Limit *int   `json:"limit" default:"20"`
}

// @gqlType
type Edge[T any] struct {
	// @gqlField
	Node T
	// @gqlField
	Cursor string
}

// @gqlQueryField
func Search(input SearchInput) []SearchResult { return nil }

// @gqlQueryField
func Feed() []Edge[Post] { return nil }

// @gqlField
func Initials(u *User) string { return "" }

// @gqlSubscriptionField
func PostAdded(ctx context.Context) (<-chan *Post, error) { return nil, nil }
