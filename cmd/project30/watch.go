package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"project30/internal/api"
	"project30/internal/config"
	"project30/internal/events"
	"project30/internal/metrics"
)

func runWatch(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	interval := fs.Duration("interval", a.cfg.RefreshInterval(), "refresh interval")
	_ = fs.Parse(args)

	logger := a.logger.With().Str("component", "watch").Logger()

	if _, err := config.Watch(logger.WithContext(ctx), os.Getenv("P30_CONFIG_PATH"), 30*time.Second, func(c config.Change) {
		a.applyChange(c, logger)
	}); err != nil {
		logger.Error().Err(err).Msg("config watch failed")
	}

	go startHealthServer(ctx, a.cfg.Monitoring.HealthCheckPort, a.client, a.rdb, &logger)
	if a.cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		go startMetricsServer(ctx, a.cfg.Monitoring.PrometheusPort, &logger)
	}

	changes, unsubscribe := a.bus.Channel(events.All, 32)
	defer unsubscribe()
	go func() {
		for ev := range changes {
			logger.Debug().Str("event", ev.Type).Int64("event_id", ev.ID).Msg("event")
		}
	}()

	refresh := func() {
		if err := loadBoard(ctx, a, filter{}); err != nil {
			logger.Error().Err(err).Msg("refresh failed")
			return
		}
		st := a.store.State()
		ev := logger.Info().
			Int("my_bookings", len(st.MyBookings)).
			Int("all_bookings", len(st.AllBookings)).
			Int64("version", st.Version)
		if st.Home.Next != nil {
			ev = ev.Stringer("next", st.Home.Next.Cell())
		}
		ev.Msg("snapshot refreshed")
	}

	logger.Info().Dur("interval", *interval).Msg("watch started")
	refresh()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("watch stopped")
			return nil
		case <-ticker.C:
			refresh()
		}
	}
}

// applyChange puts reloaded sections into effect. Sections that need new
// connections or listeners are only reported.
func (a *app) applyChange(c config.Change, logger zerolog.Logger) {
	var applied, pending []string
	for _, section := range c.Sections {
		switch section {
		case config.SectionLog:
			if lvl, err := zerolog.ParseLevel(c.New.Log.Level); err == nil {
				zerolog.SetGlobalLevel(lvl)
			}
		case config.SectionGrid:
			a.store.SetHours(c.New.Grid.Hours)
		case config.SectionExport:
		case config.SectionAPI:
			if c.New.API.BaseURL != c.Old.API.BaseURL || c.New.API.TimeoutSeconds != c.Old.API.TimeoutSeconds {
				pending = append(pending, section)
				continue
			}
			a.client.UseRateLimit(c.New.API.RateLimitRPS, c.New.API.RateLimitBurst)
			if a.rdb != nil {
				a.client.UseRedisCache(a.rdb, c.New.CacheTTL())
			}
		default:
			pending = append(pending, section)
			continue
		}
		applied = append(applied, section)
	}
	a.cfg = c.New

	ev := logger.Info().Strs("applied", applied)
	if len(pending) > 0 {
		ev = ev.Strs("restart_required", pending)
	}
	ev.Msg("config reloaded")
}

func startHealthServer(ctx context.Context, port int, client *api.Client, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := client.Ping(ctxPing); err != nil {
			http.Error(w, "api not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
