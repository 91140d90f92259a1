package host

import (
	"context"
)

// Discovery loads the Go packages a compilation reads annotations from.
type Discovery interface {
	Load(ctx context.Context) (*Program, error)
}
