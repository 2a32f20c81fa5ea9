package paymentlog

import (
	"github.com/fatflowers/duesledger/internal/app/service/billing"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		NewLedger,
		func(l *Ledger) Store { return l },
		func(l *Ledger) billing.Ledger { return l },
		NewService,
	),
)
