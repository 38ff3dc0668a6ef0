package api

import (
	"context"

	"github.com/curadda/digestbot/internal/digest"
)

type Server interface {
	Serve(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

type Runner interface {
	TryRun(ctx context.Context) (digest.Report, error)
	Last() (digest.Report, bool)
}
