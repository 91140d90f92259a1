// Package runid tags the context of one compilation so event subscribers can correlate
// the events it emits.
package runid

import (
	"context"
	"math/rand/v2"
)

type key struct{}

// NewContext stores a new random run ID in a copy of parent and returns both.
func NewContext(parent context.Context) (context.Context, int64) {
	id := rand.Int64()
	return context.WithValue(parent, key{}, id), id
}

// Ensure returns ctx unchanged when it already carries a run ID, so a caller can
// correlate its own output with the compilation it starts. Otherwise it behaves like NewContext.
func Ensure(ctx context.Context) (context.Context, int64) {
	if id, ok := FromContext(ctx); ok {
		return ctx, id
	}
	return NewContext(ctx)
}

func FromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(key{}).(int64)
	return id, ok
}
