package digest

import (
	"context"
	"time"

	"github.com/curadda/digestbot/pkg/errors"
	"github.com/curadda/digestbot/pkg/tools/await"
)

// Watch runs the pipeline every interval until the context is done.
// An in-flight run makes the tick a no-op.
func (s *Service) Watch(ctx context.Context, interval time.Duration) {
	tick := await.Tick(interval)

	for tick.Await(ctx) {
		_, err := s.TryRun(ctx)
		if err != nil {
			if errors.Is(err, ErrBusy) {
				s.log.Infof("skip scheduled run: previous one still in flight")
				continue
			}
			s.log.Error(errors.WrapFail(err, "run scheduled digest"))
		}
	}
}
