package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	figure "github.com/common-nighthawk/go-figure"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"dareNowConsole/internal/config"
	apidomain "dareNowConsole/internal/modules/api/domain"
	apiinfra "dareNowConsole/internal/modules/api/infrastructure"
	bookingsuc "dareNowConsole/internal/modules/bookings/application/usecase"
	bookingsinfra "dareNowConsole/internal/modules/bookings/infrastructure"
	"dareNowConsole/internal/modules/session/application/usecase"
	"dareNowConsole/internal/modules/session/infrastructure"
	transport "dareNowConsole/internal/modules/session/interface"
	"dareNowConsole/internal/platform/broker"
	"dareNowConsole/internal/shared/logging"
)

func main() {
	// Load .env so local runs honour configuration tweaks.
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logFile, _, err := logging.Setup(os.Stdout, logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: true,
		Directory: cfg.Logging.Directory,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	figure.NewFigure("DareNow", "small", true).Print()
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		slog.Error("console stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	origin := uuid.NewString()

	var redisClient *redis.Client
	if cfg.Store.Driver == config.StoreRedis {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
		}
	}
	backend, err := infrastructure.OpenStore(infrastructure.StoreOptions{
		Driver:      cfg.Store.Driver,
		Path:        cfg.Store.Path,
		Redis:       redisClient,
		RedisPrefix: cfg.Redis.Prefix,
		Origin:      origin,
	})
	if err != nil {
		return err
	}
	slog.Info("session store ready", slog.String("driver", cfg.Store.Driver))

	rules := apidomain.DefaultRules()
	if cfg.REST.RulesFile != "" {
		if rules, err = apidomain.LoadRules(cfg.REST.RulesFile); err != nil {
			return err
		}
	}
	classifier, err := apidomain.NewClassifier(rules)
	if err != nil {
		return err
	}

	store := usecase.NewSessionStore(backend)
	opts := []usecase.SynchronizerOption{
		usecase.WithOrigin(origin),
		usecase.WithStorageWatcher(backend),
		usecase.WithRecheckSpec(cfg.Sync.RecheckSpec),
	}
	if bridge := broker.NewSessionBridge(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID); bridge != nil {
		defer bridge.Close()
		opts = append(opts, usecase.WithEventBridge(bridge))
		slog.Info("kafka session bridge enabled", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("topic", bridge.Topic()))
	}
	synchronizer := usecase.NewSynchronizer(store, opts...)
	if err := synchronizer.Start(ctx); err != nil {
		return err
	}

	// One operator per console process, so every HTTP client shares the current view.
	navigator := infrastructure.NewNavigator("/")
	presence := usecase.NewPresenceCache(ctx, store)
	defer presence.Attach(ctx, synchronizer)()

	client := apiinfra.NewRESTClient(cfg.REST.BaseURL, cfg.REST.Timeout, nil)
	pipeline := apiinfra.NewPipeline(client, classifier, store, synchronizer, navigator)
	bookings := bookingsuc.NewBookings(bookingsinfra.NewBookingsClient(pipeline), store)

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetOutput(log.Writer())
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())

	transport.Register(e, transport.Console{
		Synchronizer: synchronizer,
		Guard:        usecase.NewRouteGuard(store, nil),
		Lifecycle:    usecase.NewLifecycle(apiinfra.NewAuthAPI(pipeline), store, synchronizer),
		Presence:     presence,
		Navigator:    navigator,
		Hub:          infrastructure.NewHub(),
		Bookings:     transport.NewBookingHandlers(bookings, navigator),
	})

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", slog.Any("error", err))
		}
	}()
	slog.Info("console listening", slog.String("port", cfg.Server.Port), slog.String("api", client.BaseURL()))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stop:
	case <-ctx.Done():
	}
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
