package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/vitalvas/workopia/internal/app"
	"github.com/vitalvas/workopia/internal/config"
	"github.com/vitalvas/workopia/internal/database"
	"github.com/vitalvas/workopia/internal/logging"
	"github.com/vitalvas/workopia/internal/models"
	"github.com/vitalvas/workopia/internal/session"
	"github.com/vitalvas/workopia/internal/view"
	"github.com/vitalvas/workopia/mux"
	"github.com/vitalvas/workopia/muxhandlers"
)

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	cfg, err := config.Load(path, envFile)
	if err != nil {
		return nil, err
	}

	if _, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr()); err != nil {
		return nil, err
	}

	return cfg, nil
}

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			return serve(cmd.Context(), cfg, migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the schema before serving")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config, migrate bool) error {
	logger := zerolog.Ctx(ctx)

	db, err := database.Open(ctx, database.Config{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if migrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
	}

	store, closeStore, err := sessionStore(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer closeStore()

	sessions := session.NewManager(session.ManagerConfig{
		Store:      store,
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	})

	views, err := view.New()
	if err != nil {
		return err
	}

	site, err := app.New(app.Config{
		Listings:   models.NewListingStore(db),
		Users:      models.NewUserStore(db),
		Sessions:   sessions,
		Views:      views,
		BcryptCost: cfg.Security.BcryptCost,
	})
	if err != nil {
		return err
	}

	opts, err := routeOptions(cfg, db)
	if err != nil {
		return err
	}

	handler, err := middlewareChain(cfg, site, sessions.Middleware(site.Routes(opts)))
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Str("version", version).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

// sessionStore returns the Redis store when a URL is configured and the
// in-memory store otherwise.
func sessionStore(ctx context.Context, cfg config.RedisConfig) (session.Store, func(), error) {
	if cfg.URL == "" {
		zerolog.Ctx(ctx).Warn().Msg("no redis url configured, sessions are kept in memory")
		store := session.NewMemoryStore()
		return store, func() { store.Close() }, nil
	}

	client, err := session.NewRedisClient(ctx, cfg.URL)
	if err != nil {
		return nil, nil, err
	}

	return session.NewRedisStore(client, cfg.KeyPrefix), func() { client.Close() }, nil
}

func routeOptions(cfg *config.Config, db *database.DB) (app.RouteOptions, error) {
	static, err := muxhandlers.StaticFilesHandler(muxhandlers.StaticFilesConfig{
		FS:     view.Static(),
		Prefix: "/static",
		MaxAge: cfg.Server.StaticMaxAge,
	})
	if err != nil {
		return app.RouteOptions{}, err
	}

	throttle, err := muxhandlers.RateLimitMiddleware(muxhandlers.RateLimitConfig{
		Rate:  rate.Every(cfg.Security.LoginInterval),
		Burst: cfg.Security.LoginBurst,
	})
	if err != nil {
		return app.RouteOptions{}, err
	}

	opts := app.RouteOptions{
		Static:        static,
		LoginThrottle: throttle,
		Health: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			return db.Ping(ctx)
		},
	}

	if !cfg.Metrics.Enabled {
		return opts, nil
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics, err := muxhandlers.MetricsMiddleware(muxhandlers.MetricsConfig{Registry: reg})
	if err != nil {
		return app.RouteOptions{}, err
	}

	opts.Middleware = append(opts.Middleware, metrics)
	opts.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})

	if cfg.Metrics.Username != "" && cfg.Metrics.Password != "" {
		opts.MetricsAuth, err = muxhandlers.BasicAuthMiddleware(muxhandlers.BasicAuthConfig{
			Realm:    "workopia metrics",
			Username: cfg.Metrics.Username,
			Password: cfg.Metrics.Password,
		})
		if err != nil {
			return app.RouteOptions{}, err
		}
	}

	return opts, nil
}

// middlewareChain wraps next with the middleware every request passes
// through, outermost first.
func middlewareChain(cfg *config.Config, site *app.App, next http.Handler) (http.Handler, error) {
	security, err := muxhandlers.SecurityHeadersMiddleware(muxhandlers.SecurityHeadersConfig{
		HSTSMaxAge: cfg.Security.HSTSMaxAge,
	})
	if err != nil {
		return nil, err
	}

	sizeLimit, err := muxhandlers.RequestSizeLimitMiddleware(muxhandlers.RequestSizeLimitConfig{
		MaxBytes: cfg.Server.MaxBodyBytes,
	})
	if err != nil {
		return nil, err
	}

	override, err := muxhandlers.MethodOverrideMiddleware(muxhandlers.MethodOverrideConfig{
		FormField: mux.DefaultMethodOverrideField,
	})
	if err != nil {
		return nil, err
	}

	timeout, err := muxhandlers.TimeoutMiddleware(muxhandlers.TimeoutConfig{
		Duration: cfg.Server.HandlerTimeout,
	})
	if err != nil {
		return nil, err
	}

	chain := []mux.MiddlewareFunc{
		muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{}),
	}

	if len(cfg.Server.TrustedProxies) > 0 {
		proxy, err := muxhandlers.ProxyHeadersMiddleware(muxhandlers.ProxyHeadersConfig{
			TrustedProxies: cfg.Server.TrustedProxies,
		})
		if err != nil {
			return nil, err
		}
		chain = append(chain, proxy)
	}

	chain = append(chain,
		muxhandlers.LoggingMiddleware(muxhandlers.LoggingConfig{SkipPaths: []string{"/healthz"}}),
		muxhandlers.RecoveryMiddleware(muxhandlers.RecoveryConfig{Handler: site.PanicHandler()}),
		security,
		sizeLimit,
		override,
		timeout,
	)

	return mux.Chain(next, chain...), nil
}
