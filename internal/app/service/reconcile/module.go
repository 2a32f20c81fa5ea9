package reconcile

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		NewOptionState,
		func(s *OptionState) StateStore { return s },
		NewReconciler,
	),
)

// SchedulerModule runs passes in the background for the lifetime of the app.
var SchedulerModule = fx.Options(
	fx.Provide(NewScheduler),
	fx.Invoke(func(lc fx.Lifecycle, s *Scheduler) {
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error { s.Start(); return nil },
			OnStop:  func(context.Context) error { s.Stop(); return nil },
		})
	}),
)
