package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/order-board/internal/backend"
	"github.com/xenking/order-board/internal/broker"
	"github.com/xenking/order-board/internal/domain/order"
	"github.com/xenking/order-board/internal/handler"
	"github.com/xenking/order-board/internal/notice"
	"github.com/xenking/order-board/internal/storage/postgres"
	"github.com/xenking/order-board/pkg/health"
	"github.com/xenking/order-board/pkg/httpmiddleware"
)

// noticeBacklog bounds notices kept between page renders.
const noticeBacklog = 50

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("backend", cfg.Backend.BaseURL),
	)

	client, err := backend.New(backend.Config{
		BaseURL:        cfg.Backend.BaseURL,
		Token:          cfg.Backend.Token,
		Timeout:        cfg.Backend.Timeout,
		TracerProvider: m.TracerProvider(),
		MeterProvider:  m.MeterProvider(),
	})
	if err != nil {
		return errors.Wrap(err, "create backend client")
	}

	healthSvc := health.New()
	healthSvc.AddReadinessCheck("backend", 5*time.Second, client.Ping)
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	var (
		observers []order.Observer
		history   handler.History
	)

	// Optional PostgreSQL transition journal.
	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return errors.Wrap(err, "create db pool")
		}
		defer pool.Close()

		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return errors.Wrap(err, "run migrations")
		}
		healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
			return pool.Ping(ctx)
		})

		journal := postgres.NewJournal(pool)
		observers = append(observers, journal)
		history = journal
		lg.Info("Transition journal enabled")
	}

	// Optional status change events.
	if cfg.AMQP.URL != "" {
		pub, err := broker.Dial(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return errors.Wrap(err, "connect to broker")
		}
		defer func() {
			if err := pub.Close(); err != nil {
				lg.Warn("Close broker publisher", zap.Error(err))
			}
		}()
		observers = append(observers, pub)
		lg.Info("Status events enabled", zap.String("exchange", cfg.AMQP.Exchange))
	}

	notices := notice.NewRecorder(noticeBacklog)
	orders, err := order.NewService(client, notice.Multi(notices, notice.Log{}), order.ServiceConfig{
		Observers:      observers,
		TracerProvider: m.TracerProvider(),
		MeterProvider:  m.MeterProvider(),
	})
	if err != nil {
		return errors.Wrap(err, "create order service")
	}

	// The board starts empty when the backend is down; the error is shown on
	// the page and staff can refresh.
	if err := orders.Load(ctx); err != nil {
		lg.Warn("Initial order load failed", zap.Error(err))
	}

	h := handler.NewHandler(
		handler.HandlerConfig{DetailURLPrefix: cfg.DetailURLPrefix},
		orders,
		notices,
		history,
	)

	r := chi.NewRouter()
	r.Get("/livez", healthSvc.LiveEndpoint)
	r.Get("/readyz", healthSvc.ReadyEndpoint)
	h.Register(r)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      cfg.Backend.Timeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(r,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("order-board", m),
		),
	}

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	// Graceful shutdown: wait for cancellation, drain, then stop.
	g.Go(func() error {
		<-gctx.Done()
		healthSvc.SetReady(false)
		if ctx.Err() != nil {
			lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
			time.Sleep(cfg.Graceful.ReadinessDelay)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		defer healthSvc.Stop()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	})
	return g.Wait()
}
