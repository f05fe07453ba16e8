package app

import (
	"context"

	"go.uber.org/zap"
)

// postCommitHook is a side effect attached to a lifecycle operation:
// notification dispatch, cache invalidation, counter maintenance beyond the
// primary mutation. Hooks run only after the primary state change committed.
type postCommitHook struct {
	name string
	run  func(ctx context.Context) error
}

// runPostCommit executes hooks in order, each isolated: a failing or
// panicking hook is logged and the remaining hooks still run. Nothing here
// can affect the primary result.
func runPostCommit(ctx context.Context, log *zap.SugaredLogger, hooks ...postCommitHook) {
	for _, hook := range hooks {
		runHook(ctx, log, hook)
	}
}

func runHook(ctx context.Context, log *zap.SugaredLogger, hook postCommitHook) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("post-commit hook panicked", "hook", hook.name, "panic", r)
		}
	}()
	if err := hook.run(ctx); err != nil {
		log.Warnw("post-commit hook failed", "hook", hook.name, "error", err)
	}
}
