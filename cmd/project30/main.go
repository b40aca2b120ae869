package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"project30/internal/api"
	"project30/internal/config"
	"project30/internal/events"
	"project30/internal/planner"
	"project30/internal/session"
)

const usage = `usage: project30 <command> [flags]

commands:
  profile   show the logged in account
  courses   list courses and their professors (-professors, -refresh)
  grid      print the availability board
  calendar  print a month, marking the days you can pick
  cell      resolve a single slot
  home      show the previous and next lesson
  mine      list your bookings by day
  reserve   book a lesson
  done      mark a lesson as done
  report    report that a lesson did not take place
  cancel    cancel an upcoming lesson
  export    write your bookings to an xlsx workbook
  watch     keep the snapshot fresh and serve health and metrics
`

// app holds everything a command needs.
type app struct {
	cfg    *config.Config
	client *api.Client
	rdb    *redis.Client
	store  *planner.Store
	bus    *events.EventBus
	logger zerolog.Logger
	out    io.Writer
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	name, args := os.Args[1], os.Args[2:]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", name, usage)
		os.Exit(2)
	}

	bootLogger := newLogger("info", "console")
	cfg, err := config.Load(os.Getenv("P30_CONFIG_PATH"))
	if err != nil {
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}
	logger := newLogger(cfg.Log.Level, cfg.Log.Format).With().
		Str("request_id", uuid.NewString()).
		Str("command", name).
		Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	a, err := newApp(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init client")
	}
	defer a.close()

	if cfg.HasCredentials() {
		if err := a.store.Login(ctx, cfg.Credentials.Account, cfg.Credentials.Password); err != nil {
			logger.Fatal().Err(err).Msg("login failed")
		}
	}

	err = cmd(ctx, a, args)
	a.logout(logger)
	if err != nil {
		if errors.Is(err, planner.ErrNotLoggedIn) {
			logger.Error().Msg("set credentials.account and credentials.password in config")
		}
		ev := logger.Error().Err(err)
		if code := api.StatusCode(err); code != 0 {
			ev = ev.Int("http_status", code)
		}
		ev.Msg("command failed")
		a.close()
		os.Exit(1)
	}
}

// logout ends the server session opened at startup. It gets its own context
// so it still runs after a signal cancelled the command.
func (a *app) logout(logger zerolog.Logger) {
	if !a.store.State().LoggedIn {
		return
	}
	ctx, cancel := context.WithTimeout(logger.WithContext(context.Background()), 5*time.Second)
	defer cancel()
	if err := a.store.Logout(ctx); err != nil {
		logger.Warn().Err(err).Msg("logout failed")
	}
}

func newApp(cfg *config.Config, logger zerolog.Logger) (*app, error) {
	client, err := api.NewClient(cfg.API.BaseURL, cfg.APITimeout())
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.Redis.Address != "" && cfg.API.CacheTTLSeconds > 0 {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		client.UseRedisCache(rdb, cfg.CacheTTL())
	}
	if cfg.API.RateLimitRPS > 0 {
		client.UseRateLimit(cfg.API.RateLimitRPS, cfg.API.RateLimitBurst)
	}

	bus := events.NewEventBus()
	store := planner.NewStore(client, session.NewHolder(), bus, logger, planner.WithHours(cfg.Grid.Hours))

	return &app{
		cfg:    cfg,
		client: client,
		rdb:    rdb,
		store:  store,
		bus:    bus,
		logger: logger,
		out:    os.Stdout,
	}, nil
}

func (a *app) close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
		a.rdb = nil
	}
}

func newLogger(level, format string) zerolog.Logger {
	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	if format == "json" {
		out = os.Stderr
	}
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	return zerolog.New(out).With().Timestamp().Logger()
}
