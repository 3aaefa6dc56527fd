package database

import (
	"context"
	"sync"
)

type afterCommitKey struct{}

type afterCommitHooks struct {
	mu  sync.Mutex
	fns []func()
}

// WithAfterCommit prepares ctx to collect AfterCommit hooks for a transaction. The returned
// function runs them and must only be called once the transaction has committed. A context
// already collecting hooks is returned as is with a no-op, so hooks of nested calls run at the
// outermost commit.
func WithAfterCommit(ctx context.Context) (context.Context, func()) {
	if _, ok := ctx.Value(afterCommitKey{}).(*afterCommitHooks); ok {
		return ctx, func() {}
	}
	hooks := &afterCommitHooks{}
	return context.WithValue(ctx, afterCommitKey{}, hooks), func() {
		hooks.mu.Lock()
		fns := hooks.fns
		hooks.fns = nil
		hooks.mu.Unlock()
		for _, fn := range fns {
			fn()
		}
	}
}

// AfterCommit defers fn until the transaction carried by ctx commits. Hooks of a rolled back
// transaction never run. Outside a transaction fn runs immediately.
func AfterCommit(ctx context.Context, fn func()) {
	hooks, ok := ctx.Value(afterCommitKey{}).(*afterCommitHooks)
	if !ok {
		fn()
		return
	}
	hooks.mu.Lock()
	hooks.fns = append(hooks.fns, fn)
	hooks.mu.Unlock()
}
