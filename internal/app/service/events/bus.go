package events

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/fatflowers/duesledger/pkg/logctx"
	"go.uber.org/zap"
)

// Listener handles one named event.
type Listener func(ctx context.Context, name string, payload any) error

// Bus fans emitted events out to registered listeners. A failing or
// panicking listener is logged and never affects the emitter or the other
// listeners.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]namedListener
	log       *zap.SugaredLogger
}

type namedListener struct {
	id string
	fn Listener
}

func NewBus(log *zap.SugaredLogger) *Bus {
	return &Bus{listeners: make(map[string][]namedListener), log: log}
}

// On registers fn for events named pattern. A pattern ending in "*" matches
// every event with that prefix.
func (b *Bus) On(pattern, id string, fn Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[pattern] = append(b.listeners[pattern], namedListener{id: id, fn: fn})
}

// Emit delivers the event synchronously to every matching listener.
func (b *Bus) Emit(ctx context.Context, name string, payload any) {
	for _, l := range b.match(name) {
		b.deliver(ctx, l, name, payload)
	}
}

func (b *Bus) match(name string) []namedListener {
	b.mu.RLock()
	defer b.mu.RUnlock()
	patterns := make([]string, 0, len(b.listeners))
	for p := range b.listeners {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)

	var out []namedListener
	for _, p := range patterns {
		if p == name || (strings.HasSuffix(p, "*") && strings.HasPrefix(name, strings.TrimSuffix(p, "*"))) {
			out = append(out, b.listeners[p]...)
		}
	}
	return out
}

func (b *Bus) deliver(ctx context.Context, l namedListener, name string, payload any) {
	lg := logctx.FromCtx(ctx, b.log)
	defer func() {
		if r := recover(); r != nil {
			lg.Errorw("event listener panicked", "event", name, "listener", l.id, "cause", fmt.Sprint(r))
		}
	}()
	if err := l.fn(ctx, name, payload); err != nil {
		lg.Errorw("event listener failed", "event", name, "listener", l.id, "cause", err)
	}
}
