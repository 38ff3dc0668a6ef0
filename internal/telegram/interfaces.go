package telegram

import (
	"context"

	"github.com/curadda/digestbot/internal/digest"
)

type Runner interface {
	// TryRun runs the digest pipeline unless a run is already in
	// flight, in which case it returns digest.ErrBusy.
	TryRun(ctx context.Context) (digest.Report, error)

	// Last returns the report of the most recent completed run.
	Last() (digest.Report, bool)
}
