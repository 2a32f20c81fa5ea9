package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fatflowers/duesledger/docs"
	"github.com/fatflowers/duesledger/internal/app/api/handlers"
	mw "github.com/fatflowers/duesledger/internal/app/api/middleware"
	"github.com/fatflowers/duesledger/internal/app/service/events"
	"github.com/fatflowers/duesledger/internal/app/service/member"
	nh "github.com/fatflowers/duesledger/internal/app/service/notification_handler"
	"github.com/fatflowers/duesledger/internal/app/service/paymentlog"
	"github.com/fatflowers/duesledger/internal/app/service/reconcile"
	"github.com/fatflowers/duesledger/internal/app/service/statistics"
	"github.com/fatflowers/duesledger/internal/app/service/status"
	cfgpkg "github.com/fatflowers/duesledger/pkg/config"
	metrics "github.com/fatflowers/duesledger/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

type routeDeps struct {
	fx.In

	Log          *zap.SugaredLogger
	Cfg          *cfgpkg.Config
	DB           *gorm.DB
	Notification *nh.NotificationHandler
	Writer       *status.Writer
	Members      *member.Store
	Payments     *paymentlog.Service
	Ledger       *paymentlog.Ledger
	Reconciler   *reconcile.Reconciler
	Stats        *statistics.Service
	StatusLog    *events.StatusLogListener
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	// Prometheus metrics
	if d.Cfg != nil && d.Cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			Subsystem: "http",
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: d.Log,
		})
		p.SetListenAddress(d.Cfg.MetricsAddr)
		p.Use(r)

		d.Log.Infow("metrics started", "addr", d.Cfg.MetricsAddr)
	}
	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(d.Log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub, d.DB)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(d.Log), mw.AccessLogMiddleware())
	handlers.RegisterMemberRoutes(apiV1.Group("/member"), d.Writer, d.Payments)
	handlers.RegisterAdminRoutes(apiV1.Group("/admin"), handlers.AdminDeps{
		Members:    d.Members,
		Payments:   d.Payments,
		Ledger:     d.Ledger,
		Reconciler: d.Reconciler,
		Stats:      d.Stats,
		StatusLog:  d.StatusLog,
	})

	apiV2Payment := r.Group("/api/v2/payment")
	apiV2Payment.Use(mw.RequestLoggerMiddleware(d.Log), mw.AccessLogMiddleware())
	handlers.RegisterPaymentWebhookRoutes(apiV2Payment, d.Notification)
}

// withCORS lets the admin UI call the API from the configured origins.
func withCORS(cfg *cfgpkg.Config, h http.Handler) http.Handler {
	if cfg == nil || len(cfg.CORS.AllowedOrigins) == 0 {
		return h
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", mw.TraceHeader},
		ExposedHeaders:   []string{mw.TraceHeader},
		AllowCredentials: true,
	})(h)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: withCORS(cfg, r), ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
