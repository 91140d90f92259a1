package app

import "context"

// @gqlType
type Post struct {
	// @gqlField
	Title string
}

// @gqlType
type Connection[T any] struct {
	// @gqlField
	Nodes []T
	// @gqlField
	Total int
}

// @gqlField
func Excerpt(p *Post, length int) string { return p.Title }

type Queries struct{}

// @gqlQueryField
func (Queries) Posts() Connection[Post] { return Connection[Post]{} }

// @gqlSubscriptionField
func PostAdded(ctx context.Context) <-chan *Post { return nil }
