package billing

import "go.uber.org/fx"

// Module provides the engine. The host supplies Ledger and RecordStore.
var Module = fx.Options(
	fx.Provide(
		NewSettings,
		NewClock,
		NewEngine,
	),
)
