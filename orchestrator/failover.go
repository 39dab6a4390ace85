package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/studymesh/tutorcore/core"
)

// GenerateWithFailover attempts the top-scored adapter first and walks the
// remaining adapters in score order on failure. Attempts are sequential,
// never raced, and no adapter is tried twice. Per-adapter model selection
// is preserved on every attempt.
func (o *Orchestrator) GenerateWithFailover(ctx context.Context, req core.Request) (*core.Response, error) {
	ranked := o.rank(req)
	if len(ranked) == 0 {
		return nil, core.NewError(core.ErrNoProvider, "orchestrator: no adapters registered")
	}

	var failures []error
	for _, candidate := range ranked {
		if err := ctx.Err(); err != nil {
			return nil, core.WrapError(err, core.ErrCanceled)
		}

		resp, err := o.generateWith(ctx, candidate.adapter, req)
		if err == nil {
			return resp, nil
		}
		o.log.Warn("adapter failed, failing over",
			zap.String("provider", candidate.adapter.Name()),
			zap.Error(err),
		)
		failures = append(failures, fmt.Errorf("%s: %w", candidate.adapter.Name(), err))
	}

	return nil, core.NewError(core.ErrProvider,
		fmt.Sprintf("orchestrator: all %d adapters failed", len(ranked)),
		core.WithWrapped(errors.Join(failures...)))
}
