package await

import (
	"context"
)

// Awaiter is a single wait primitive bound to a context.
type Awaiter interface {
	// Await blocks until the awaited event fires, reporting false
	// when the context is done first.
	Await(ctx context.Context) (waited bool)
}

type noAwaiter struct{}

func (noAwaiter) Await(ctx context.Context) bool {
	return true
}
