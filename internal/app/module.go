package app

import (
	"time"

	"github.com/fatflowers/duesledger/internal/app/api/server"
	"github.com/fatflowers/duesledger/internal/app/service/billing"
	"github.com/fatflowers/duesledger/internal/app/service/events"
	"github.com/fatflowers/duesledger/internal/app/service/member"
	notificationhandler "github.com/fatflowers/duesledger/internal/app/service/notification_handler"
	notificationlog "github.com/fatflowers/duesledger/internal/app/service/notification_log"
	"github.com/fatflowers/duesledger/internal/app/service/paymentlog"
	"github.com/fatflowers/duesledger/internal/app/service/reconcile"
	"github.com/fatflowers/duesledger/internal/app/service/statistics"
	"github.com/fatflowers/duesledger/internal/app/service/status"
	"github.com/fatflowers/duesledger/internal/platform/db"
	"github.com/fatflowers/duesledger/pkg/config"
	"github.com/fatflowers/duesledger/pkg/logger"
	"github.com/fatflowers/duesledger/pkg/metrics"

	"go.uber.org/fx"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

// CoreModule wires storage and the dues services without any listener.
var CoreModule = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	metrics.Module,
	billing.Module,
	member.Module,
	paymentlog.Module,
	status.Module,
	events.Module,
	reconcile.Module,
	statistics.Module,
	notificationlog.Module,
	notificationhandler.Module,
)

// Module is the HTTP service: CoreModule plus the API server and the
// periodic reconciliation scheduler.
var Module = fx.Options(
	CoreModule,
	server.Module,
	reconcile.SchedulerModule,
)
