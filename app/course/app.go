package course

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/config"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/event"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/health"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/logger"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/stream"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/integration/database/pg"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/integration/database/redis"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/pkg/auth"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/pkg/draft"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/pkg/lessons"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/pkg/messages"
)

// ErrInvalidConfig is returned by NewApp for unusable settings.
var ErrInvalidConfig = errors.New("course: invalid config")

// App wires the lessons demo: simulated backend arrivals flow through the
// event bus into the lessons store, a pager serves pages of it, a user signs
// in and a lesson form is autosaved as a draft.
type App struct {
	config   Config
	logger   *slog.Logger
	messages *messages.Store

	bus     *event.Bus
	lessons *lessons.Store
	pager   *lessons.Pager
	users   *auth.UserStore
	authn   *auth.MemoryAuthenticator
	form    *stream.BehaviorSubject[lessons.Lesson]
	saver   *draft.Autosaver[lessons.Lesson]

	pool   *pgxpool.Pool
	db     *lessons.PostgresSource
	redis  goredis.UniversalClient
	checks []health.Check

	subs []stream.Subscription
}

// AppOption configures an App.
type AppOption func(*App) error

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) AppOption {
	return func(a *App) error {
		if l == nil {
			return errors.New("logger cannot be nil")
		}
		a.logger = l
		return nil
	}
}

// WithMessages sets the message store, usually messages.Default().
func WithMessages(m *messages.Store) AppOption {
	return func(a *App) error {
		if m == nil {
			return errors.New("message store cannot be nil")
		}
		a.messages = m
		return nil
	}
}

// NewApp builds the application. It connects to Postgres and Redis when they
// are configured in the environment and falls back to memory otherwise.
func NewApp(ctx context.Context, cfg Config, opts ...AppOption) (*App, error) {
	if cfg.ArrivalInterval <= 0 {
		return nil, fmt.Errorf("%w: arrival interval must be positive", ErrInvalidConfig)
	}

	a := &App{
		config: cfg,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	if a.messages == nil {
		m, err := messages.New(messages.WithLimit(cfg.MessageLimit), messages.WithLogger(a.logger))
		if err != nil {
			return nil, err
		}
		a.messages = m
	}

	if err := a.connect(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.build(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) connect(ctx context.Context) error {
	if os.Getenv("PG_CONN_URL") != "" {
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return err
		}
		a.pool = pool
		if err := pg.Migrate(ctx, pool, cfg, lessons.Migrations, a.logger); err != nil {
			return err
		}
		a.db = lessons.NewPostgresSource(pool)
		a.checks = append(a.checks, pg.Healthcheck(pool))
	}

	if os.Getenv("REDIS_URL") != "" {
		var cfg redis.Config
		if err := config.Load(&cfg); err != nil {
			return err
		}
		client, err := redis.Connect(ctx, cfg)
		if err != nil {
			return err
		}
		a.redis = client
		a.checks = append(a.checks, redis.Healthcheck(client))
	}
	return nil
}

func (a *App) build(ctx context.Context) error {
	store, err := lessons.NewStore(lessons.WithLogger(a.logger))
	if err != nil {
		return err
	}
	a.lessons = store

	var source lessons.Source = lessons.NewMemorySource(store, a.config.SourceLatency)
	if a.db != nil {
		existing, err := a.db.All(ctx)
		if err != nil {
			return err
		}
		if err := store.Initialize(existing); err != nil {
			return err
		}
		source = a.db
	}

	a.pager, err = lessons.NewPager(source,
		lessons.WithPageSize(a.config.PageSize),
		lessons.WithReporter(a.messages),
		lessons.WithPagerLogger(a.logger),
	)
	if err != nil {
		return err
	}

	a.bus = event.NewBus(
		event.WithBusLogger(a.logger),
		event.WithMiddleware(event.LoggingMiddleware(a.logger)),
	)

	a.authn = auth.NewMemoryAuthenticator(0)
	if _, err := a.authn.Register("Student", auth.Credentials{
		Email:    a.config.DemoEmail,
		Password: a.config.DemoPassword,
	}); err != nil {
		return err
	}
	a.users = auth.NewUserStore(a.authn, auth.WithReporter(a.messages), auth.WithLogger(a.logger))

	var repo draft.Repository[lessons.Lesson] = draft.NewMemoryRepository[lessons.Lesson]()
	if a.redis != nil {
		repo = draft.NewRedisRepository[lessons.Lesson](a.redis)
	}
	a.form = stream.NewBehaviorSubject(lessons.Lesson{}, stream.WithName("lesson_form"), stream.WithLogger(a.logger))
	a.saver = draft.NewAutosaver(repo, a.config.DraftKey,
		draft.WithValidator(func(l lessons.Lesson) bool { return l.Description != "" }),
		draft.WithReporter[lessons.Lesson](a.messages),
		draft.WithLogger[lessons.Lesson](a.logger),
	)
	return nil
}

// Lessons returns the lessons store.
func (a *App) Lessons() *lessons.Store { return a.lessons }

// Pager returns the lessons pager.
func (a *App) Pager() *lessons.Pager { return a.pager }

// Users returns the signed-in user store.
func (a *App) Users() *auth.UserStore { return a.users }

// Messages returns the message store.
func (a *App) Messages() *messages.Store { return a.messages }

// Run subscribes the views, signs in the demo user and publishes simulated
// lesson arrivals until ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.subs = append(a.subs, a.bus.Subscribe(a.handlers()...))
	a.subs = append(a.subs, a.watch(ctx)...)

	if err := a.saver.Start(ctx, a.form.AsObservable()); err != nil {
		return err
	}
	if restored, err := a.saver.Restore(ctx); err == nil {
		a.logger.Info("draft restored", slog.String("description", restored.Description))
	}

	if err := a.users.Login(ctx, auth.Credentials{Email: a.config.DemoEmail, Password: a.config.DemoPassword}); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.arrivals(ctx) })
	if len(a.checks) > 0 && a.config.HealthInterval > 0 {
		g.Go(func() error { return a.monitor(ctx) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// watch logs what a view bound to the streams would render.
func (a *App) watch(ctx context.Context) []stream.Subscription {
	log := a.logger

	return []stream.Subscription{
		a.pager.Page(ctx).Subscribe(stream.NextFunc(func(p lessons.Page) {
			log.Info("page loaded", logger.Page(p.Number), logger.Count("lessons", len(p.Lessons)), logger.Count("total", p.Total))
		})),
		a.lessons.Completed().Subscribe(stream.NextFunc(func(done []lessons.Lesson) {
			log.Debug("completed lessons", logger.Count("count", len(done)))
		})),
		a.users.User().Subscribe(stream.NextFunc(func(u auth.User) {
			if u.LoggedIn() {
				log.Info("user signed in", logger.UserID(u.ID))
			}
		})),
		a.messages.Errors().Subscribe(stream.NextFunc(func(list []messages.Message) {
			if n := len(list); n > 0 {
				log.Warn("error message shown", slog.String("text", list[n-1].Text))
			}
		})),
		a.saver.Saved().Subscribe(stream.NextFunc(func(s draft.Saved[lessons.Lesson]) {
			log.Debug("draft saved", slog.String("description", s.Value.Description))
		})),
	}
}

// arrivals simulates the backend: every tick a lesson is typed into the form
// and then arrives, every third one is completed and the pager moves on.
func (a *App) arrivals(ctx context.Context) error {
	ticker := time.NewTicker(a.config.ArrivalInterval)
	defer ticker.Stop()

	for n := 1; ; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		description := fmt.Sprintf("Lesson %d", n)
		if err := a.form.Next(lessons.Lesson{Description: description}); err != nil {
			a.logger.Warn("form update failed", logger.Error(err))
		}

		if err := a.publish(ctx, LessonArrived{Description: description}); err != nil {
			return err
		}

		if n%3 == 0 {
			list := a.lessons.Snapshot()
			if len(list) > 0 {
				if err := a.publish(ctx, LessonCompleted{LessonID: list[len(list)-1].ID}); err != nil {
					return err
				}
			}
			if err := a.pager.Next(); err != nil {
				a.messages.Report(err)
			}
		}
	}
}

// publish reports handler failures to the messages store. Only cancellation
// stops the caller.
func (a *App) publish(ctx context.Context, payload any) error {
	err := a.bus.Publish(ctx, payload)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	a.messages.Report(err)
	return nil
}

func (a *App) monitor(ctx context.Context) error {
	ready := health.Readiness(a.logger, a.checks...)
	done := make(chan struct{})

	sub := stream.DistinctUntilChanged(health.Monitor(ctx, a.config.HealthInterval, ready)).
		Subscribe(stream.ObserverFuncs[health.Status]{
			OnNext: func(s health.Status) error {
				a.logger.Info("readiness changed", slog.Bool("ready", s.Ready), slog.String("error", s.Error))
				return nil
			},
			OnError:    func(error) { close(done) },
			OnComplete: func() { close(done) },
		})
	defer sub.Unsubscribe()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Close releases every resource. It is safe to call on a partially built App.
func (a *App) Close() {
	for _, s := range a.subs {
		s.Unsubscribe()
	}
	if a.saver != nil {
		a.saver.Close()
	}
	if a.form != nil {
		a.form.Complete()
	}
	if a.users != nil {
		a.users.Close()
	}
	if a.pager != nil {
		a.pager.Close()
	}
	if a.bus != nil {
		a.bus.Close()
	}
	if a.lessons != nil {
		a.lessons.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
