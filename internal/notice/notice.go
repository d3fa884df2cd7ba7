// Package notice carries short user-facing messages about the outcome of a
// staff action, the way a toast would on a web page.
package notice

import (
	"context"
	"sync"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// Level classifies a notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a single message shown to staff.
type Notice struct {
	Level   Level
	Message string
}

// Success returns a success notice.
func Success(msg string) Notice { return Notice{Level: LevelSuccess, Message: msg} }

// Error returns an error notice.
func Error(msg string) Notice { return Notice{Level: LevelError, Message: msg} }

// Notifier delivers notices.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// Func adapts a function to the Notifier interface.
type Func func(ctx context.Context, n Notice)

// Notify calls f(ctx, n).
func (f Func) Notify(ctx context.Context, n Notice) { f(ctx, n) }

// Multi fans a notice out to every notifier in order.
func Multi(notifiers ...Notifier) Notifier {
	return Func(func(ctx context.Context, n Notice) {
		for _, nt := range notifiers {
			nt.Notify(ctx, n)
		}
	})
}

// Log writes notices to the logger stored in ctx.
type Log struct{}

// Notify logs n at info level for successes and warn level for errors.
func (Log) Notify(ctx context.Context, n Notice) {
	lg := zctx.From(ctx)
	if n.Level == LevelError {
		lg.Warn("Notice", zap.String("message", n.Message))
		return
	}
	lg.Info("Notice", zap.String("message", n.Message))
}

// Recorder keeps the most recent notices until they are drained by a page
// render. When full, the oldest notice is dropped.
type Recorder struct {
	mu    sync.Mutex
	limit int
	queue []Notice
}

// NewRecorder returns a Recorder holding at most limit notices.
func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = 1
	}
	return &Recorder{limit: limit}
}

// Notify queues n.
func (r *Recorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == r.limit {
		r.queue = r.queue[1:]
	}
	r.queue = append(r.queue, n)
}

// Drain returns queued notices, oldest first, and empties the queue.
func (r *Recorder) Drain() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.queue
	r.queue = nil
	return out
}
