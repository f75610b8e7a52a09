package matchservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/castmatch/castmatch-backend/internal/api"
	"github.com/castmatch/castmatch-backend/internal/config"
	"github.com/castmatch/castmatch-backend/internal/connections"
	"github.com/castmatch/castmatch-backend/internal/discovery"
	"github.com/castmatch/castmatch-backend/internal/factory"
	"github.com/castmatch/castmatch-backend/internal/feed"
	"github.com/castmatch/castmatch-backend/internal/health"
	"github.com/castmatch/castmatch-backend/internal/logger"
	"github.com/castmatch/castmatch-backend/internal/notify"
	"github.com/castmatch/castmatch-backend/internal/services"
	"github.com/castmatch/castmatch-backend/internal/store"
)

// Run starts the match service HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("match-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Str("hub_base_url", cfg.HubBaseURL).
		Msg("Match service starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return err
	}

	// Build router
	router := api.NewRouter(buildDeps(cfg, log, st))

	// Start health checkers and bind service health
	svcHealth := startHealthCheckers(ctx, cfg, log, st)

	// Block startup until dependencies report healthy; fail fast otherwise
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	// HTTP server and serve
	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// buildDeps wires the domain components the API serves.
func buildDeps(cfg *config.Config, log zerolog.Logger, st store.Store) api.Deps {
	graph := connections.NewGraph(st, time.Duration(cfg.ConnectionCacheTTLSeconds)*time.Second)

	throttle := notify.NewThrottler(
		time.Duration(cfg.NotifyThrottleWindowSeconds)*time.Second,
		cfg.NotifyThrottleCapacity,
	)
	notifier := notify.NewNotifier(throttle, notify.NewLogDispatcher(log))

	aggregator := feed.NewAggregator(graph, factory.NewHubSource(cfg, log), feed.Options{
		AuthorBatchCap: cfg.HubAuthorBatchCap,
		PageLimit:      cfg.HubPageLimit,
		DefaultLimit:   cfg.FeedDefaultLimit,
		MaxLimit:       cfg.FeedMaxLimit,
	}, log)

	return api.Deps{
		Actions:  services.NewActionService(st, graph, notifier),
		Personas: services.NewPersonaService(st),
		Graph:    graph,
		Ranker:   discovery.NewRanker(st, cfg.DiscoverMaxPageSize),
		Feed:     aggregator,
	}
}

// startHealthCheckers starts component checkers and service-level aggregator; binds health.
// The hub is not a health dependency: a hub outage degrades feeds, it does
// not take the service down.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store) *health.ServiceHealthChecker {
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	storeChecker := store.NewStoreHealthChecker(st, log, probeTimeout)
	go storeChecker.Start(ctx, interval)

	svcHealth := health.NewServiceHealthChecker(log, storeChecker)
	go svcHealth.Start(ctx, interval)
	api.BindServiceHealth(svcHealth.IsHealthy)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// calculateStartupHealthTimeout returns the startup health timeout in seconds,
// calculated as interval*2 with a minimum of 60 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	// Health checkers start as unhealthy and need time to run their first check
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
