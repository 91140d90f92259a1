package app

import "context"

// @gqlEnum
type Role string

const (
	RoleAdmin Role = "ADMIN"
	// @deprecated
	RoleGuest Role = "GUEST"
)

// @gqlInterface
type Node interface {
	// @gqlField
	ID() string
}

// A registered account.
// @gqlType
type User struct {
	id string
	// @gqlField
	Name string
	// @gqlField role
	// @killsParentOnException
	Kind Role
}

func (u *User) ID() string { return u.id }

// @gqlField
func (u *User) Friends(ctx context.Context, args struct {
	First int `json:"first" default:"10"`
}) ([]*User, error) {
	return nil, nil
}

// @gqlQueryField
func Viewer(ctx context.Context) (*User, error) { return nil, nil }
