package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"dareNowConsole/internal/config"
	apidomain "dareNowConsole/internal/modules/api/domain"
	apiinfra "dareNowConsole/internal/modules/api/infrastructure"
	bookingsuc "dareNowConsole/internal/modules/bookings/application/usecase"
	bookingsinfra "dareNowConsole/internal/modules/bookings/infrastructure"
	"dareNowConsole/internal/modules/session/application/usecase"
	"dareNowConsole/internal/modules/session/domain"
	"dareNowConsole/internal/modules/session/infrastructure"
	"dareNowConsole/internal/platform/broker"
	"dareNowConsole/internal/shared/auth"
)

// app is one CLI invocation's view of the session core.
type app struct {
	cfg          *config.Config
	backend      infrastructure.Backend
	store        *usecase.SessionStore
	synchronizer *usecase.Synchronizer
	navigator    *infrastructure.Navigator
	pipeline     *apiinfra.Pipeline
	lifecycle    *usecase.Lifecycle
	bookings     *bookingsuc.Bookings
	inspector    *auth.Inspector
	in           io.Reader
	closers      []io.Closer
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	origin := uuid.NewString()
	a := &app{cfg: cfg, in: os.Stdin}

	var redisClient *redis.Client
	if cfg.Store.Driver == config.StoreRedis {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		a.closers = append(a.closers, redisClient)
	}
	backend, err := infrastructure.OpenStore(infrastructure.StoreOptions{
		Driver:      cfg.Store.Driver,
		Path:        cfg.Store.Path,
		Redis:       redisClient,
		RedisPrefix: cfg.Redis.Prefix,
		Origin:      origin,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	rules := apidomain.DefaultRules()
	if cfg.REST.RulesFile != "" {
		if rules, err = apidomain.LoadRules(cfg.REST.RulesFile); err != nil {
			a.Close()
			return nil, err
		}
	}
	classifier, err := apidomain.NewClassifier(rules)
	if err != nil {
		a.Close()
		return nil, err
	}

	opts := []usecase.SynchronizerOption{usecase.WithOrigin(origin), usecase.WithStorageWatcher(backend), usecase.WithRecheckSpec(cfg.Sync.RecheckSpec)}
	if bridge := broker.NewSessionBridge(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID); bridge != nil {
		opts = append(opts, usecase.WithEventBridge(bridge))
		a.closers = append(a.closers, bridge)
	}

	client := apiinfra.NewRESTClient(cfg.REST.BaseURL, cfg.REST.Timeout, nil)
	a.wire(ctx, backend, client, classifier, opts...)
	return a, nil
}

// wire builds the session core over backend. Tests call it with a memory backend.
func (a *app) wire(ctx context.Context, backend infrastructure.Backend, client *apiinfra.RESTClient, classifier *apidomain.Classifier, opts ...usecase.SynchronizerOption) {
	a.backend = backend
	a.store = usecase.NewSessionStore(backend)
	a.synchronizer = usecase.NewSynchronizer(a.store, opts...)
	a.synchronizer.Prime(ctx)
	a.navigator = infrastructure.NewNavigator("/")
	a.pipeline = apiinfra.NewPipeline(client, classifier, a.store, a.synchronizer, a.navigator)
	a.lifecycle = usecase.NewLifecycle(apiinfra.NewAuthAPI(a.pipeline), a.store, a.synchronizer)
	a.bookings = bookingsuc.NewBookings(bookingsinfra.NewBookingsClient(a.pipeline), a.store)
	secret := ""
	if a.cfg != nil {
		secret = a.cfg.Security.JWTSecret
	}
	a.inspector = auth.NewInspector(secret)
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
	a.closers = nil
}

// sessionHint explains a teardown that happened during the command.
func (a *app) sessionHint(out io.Writer) {
	if location, ok := a.navigator.TakeRedirect(); ok {
		variant := domain.VariantAdmin
		if location == domain.VariantRestaurant.LoginPath() {
			variant = domain.VariantRestaurant
		}
		fmt.Fprintf(out, "ℹ️  The %s session expired. Run 'darenow login %s' again.\n", variant, variant)
	}
}
