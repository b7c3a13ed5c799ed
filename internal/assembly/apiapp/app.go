package apiapp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	goredis "github.com/redis/go-redis/v9"

	httpapi "linkbio/internal/adapters/httpapi"
	"linkbio/internal/adapters/httpapi/plugins"
	pgrepo "linkbio/internal/adapters/postgres"
	redisadapter "linkbio/internal/adapters/redis"
	"linkbio/internal/app/analytics"
	"linkbio/internal/app/clicks"
	"linkbio/internal/app/links"
	"linkbio/internal/platform/config"
	"linkbio/internal/platform/postgres"
	platformredis "linkbio/internal/platform/redis"
)

type App struct {
	cfg    config.Config
	log    links.Logger
	db     *sql.DB
	redis  *goredis.Client
	clicks *clicks.Pool
	router http.Handler
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	log := newLogger(logger)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			return nil, fmt.Errorf("init sentry: %w", err)
		}
	} else {
		log.Info("sentry disabled")
	}

	db, err := postgres.Open(ctx, postgres.OpenConfig{
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	app := &App{cfg: cfg, log: log, db: db}

	if cfg.DBAutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = app.Close()

			return nil, fmt.Errorf("migrate db: %w", err)
		}
	}

	repo := pgrepo.NewRepo(db)
	linkOpts := []links.Option{links.WithLogger(log.With("component", "links"))}

	if cfg.RedisURL != "" {
		client, err := platformredis.Open(ctx, cfg.RedisURL)
		if err != nil {
			_ = app.Close()

			return nil, fmt.Errorf("open redis: %w", err)
		}

		app.redis = client
		linkOpts = append(linkOpts, links.WithCache(redisadapter.NewResolveCache(client, cfg.ResolveCacheTTL)))
	}

	linksSvc := links.New(repo, linkOpts...)
	analyticsSvc := analytics.New(repo,
		analytics.WithLocation(cfg.AnalyticsLocation),
		analytics.WithMaxRangeDays(cfg.AnalyticsMaxRangeDays),
	)

	app.clicks = clicks.NewPool(linksSvc, clicks.Config{
		Workers:   cfg.ClickWorkers,
		QueueSize: cfg.ClickQueueSize,
		Timeout:   cfg.ClickRecordTimeout,
	}, log)

	r := httpapi.NewEngine(
		plugins.TrustedProxies(cfg.TrustedProxies),
		plugins.Logger(),
		plugins.RequestID(),
		plugins.Recovery(log),
		plugins.Sentry(cfg.SentryMiddlewareTimeout),
		plugins.RequestTimeout(cfg.RequestBudget),
		plugins.CORS(cfg.CORSAllowedOrigins),
	)
	httpapi.RegisterRoutes(r, httpapi.RouterDeps{
		Links:           linksSvc,
		Analytics:       analyticsSvc,
		Clicks:          app.clicks,
		BaseURL:         cfg.BaseURL,
		JWTSecret:       []byte(cfg.JWTSecret),
		PublicRateLimit: cfg.RateLimit,
	})

	app.router = r

	return app, nil
}

func (a *App) Handler() http.Handler {
	return a.router
}

// Close drains queued clicks before releasing the stores they write to.
func (a *App) Close() error {
	var errs []error

	if a.clicks != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPShutdownTimeout)
		if err := a.clicks.Close(ctx); err != nil && !errors.Is(err, clicks.ErrPoolClosed) {
			errs = append(errs, fmt.Errorf("drain clicks: %w", err))
		}
		cancel()
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}

	sentry.Flush(a.cfg.SentryFlushTimeout)

	return errors.Join(errs...)
}

func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           a.router,
		ReadHeaderTimeout: a.cfg.HTTPReadHeaderTimeout,
		ReadTimeout:       a.cfg.HTTPReadTimeout,
		WriteTimeout:      a.cfg.HTTPWriteTimeout,
		IdleTimeout:       a.cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.ListenAndServe()
	}()

	a.log.Info("http server started", "addr", a.cfg.HTTPAddr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		a.log.Info("http server shutting down")

		return gracefulShutdown(ctx, srv, a.cfg.HTTPShutdownTimeout, errCh)
	}
}

func gracefulShutdown(ctx context.Context, srv *http.Server, timeout time.Duration, errCh <-chan error) error {
	srv.SetKeepAlivesEnabled(false)

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()

		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("http shutdown timed out; forced close: %w", err)
		}

		return fmt.Errorf("http shutdown failed; forced close: %w", err)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("http server stopped with error: %w", err)
	default:
		return nil
	}
}
