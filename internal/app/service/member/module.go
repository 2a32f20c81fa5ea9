package member

import (
	"github.com/fatflowers/duesledger/internal/app/service/billing"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		NewStore,
		func(s *Store) billing.RecordStore { return s },
		func(s *Store) billing.MemberLister { return s },
	),
)
