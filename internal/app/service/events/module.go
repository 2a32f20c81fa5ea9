package events

import (
	"github.com/fatflowers/duesledger/internal/app/service/billing"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		NewBus,
		func(b *Bus) billing.EventSink { return b },
		NewStatusLogListener,
	),
	fx.Invoke(func(l *StatusLogListener, b *Bus) { l.Register(b) }),
)
