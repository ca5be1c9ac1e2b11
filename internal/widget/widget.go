// Package widget holds the interactive pieces of a post page: the like
// toggle and the comment section. Each widget is a small state machine over
// the content service; callers render its snapshot.
//
// A widget lives between construction and Unmount. Unmount cancels the
// requests still in flight and no state is written after it.
package widget

import "context"

// lifetime tracks whether a widget is still mounted.
type lifetime struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newLifetime() *lifetime {
	ctx, cancel := context.WithCancel(context.Background())
	return &lifetime{ctx: ctx, cancel: cancel}
}

// bind derives a request context that also ends when the widget unmounts.
func (l *lifetime) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (l *lifetime) alive() bool {
	return l.ctx.Err() == nil
}

func (l *lifetime) end() {
	l.cancel()
}
