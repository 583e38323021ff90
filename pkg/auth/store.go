package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/logger"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/sanitizer"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/stream"
)

// Reporter receives login failures for display. *messages.Store implements it.
type Reporter interface {
	Report(err error)
}

// attempt is one request to change the signed-in user.
type attempt struct {
	ctx    context.Context
	creds  Credentials
	logout bool
}

// UserStore holds the signed-in user. Login and Logout are requests; the
// outcome is published through User. A newer request cancels one in flight.
type UserStore struct {
	auth     Authenticator
	attempts *stream.Subject[attempt]
	user     *stream.BehaviorSubject[User]
	sub      stream.Subscription
	reporter Reporter
	logger   *slog.Logger
}

// StoreOption configures a UserStore.
type StoreOption func(*UserStore)

// WithReporter routes login failures to r.
func WithReporter(r Reporter) StoreOption {
	return func(s *UserStore) {
		s.reporter = r
	}
}

// WithLogger configures structured logging for the store.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *UserStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewUserStore returns a store with the Anonymous user signed in.
func NewUserStore(auth Authenticator, opts ...StoreOption) *UserStore {
	s := &UserStore{
		auth:   auth,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.attempts = stream.NewSubject[attempt](stream.WithName("auth.attempts"), stream.WithLogger(s.logger))
	s.user = stream.NewBehaviorSubject(Anonymous, stream.WithName("auth.user"), stream.WithLogger(s.logger))

	s.sub = stream.SwitchMap(s.attempts.AsObservable(), s.resolve).
		Subscribe(stream.ObserverFuncs[User]{OnNext: s.user.Next})
	return s
}

func (s *UserStore) resolve(a attempt) stream.Observable[User] {
	if a.logout {
		return stream.Of(Anonymous)
	}

	return stream.Catch(s.auth.Authenticate(a.ctx, a.creds), func(err error) stream.Observable[User] {
		if !errors.Is(err, context.Canceled) {
			s.logger.Info("login failed", logger.Component("auth"), logger.Error(err))
			if s.reporter != nil {
				s.reporter.Report(err)
			}
		}
		return stream.Empty[User]()
	})
}

// Login starts authenticating creds. Empty credentials are rejected right
// away; any other outcome is published through User or the Reporter.
func (s *UserStore) Login(ctx context.Context, creds Credentials) error {
	if err := sanitizer.SanitizeStruct(&creds); err != nil {
		return err
	}
	if creds.Email == "" || creds.Password == "" {
		return ErrInvalidCredentials
	}
	return s.request(attempt{ctx: ctx, creds: creds})
}

// Logout signs the user out and cancels a login in flight.
func (s *UserStore) Logout() error {
	return s.request(attempt{logout: true})
}

func (s *UserStore) request(a attempt) error {
	err := s.attempts.Next(a)
	if errors.Is(err, stream.ErrCompleted) {
		return ErrClosed
	}
	var oe *stream.ObserverError
	if errors.As(err, &oe) {
		return nil
	}
	return err
}

// User streams the signed-in user. New subscribers receive the current one.
func (s *UserStore) User() stream.Observable[User] {
	return s.user.AsObservable()
}

// LoggedIn streams whether a user is signed in, emitting only on change.
func (s *UserStore) LoggedIn() stream.Observable[bool] {
	return stream.DistinctUntilChanged(stream.Map(s.user.AsObservable(), User.LoggedIn))
}

// Current returns the signed-in user.
func (s *UserStore) Current() User {
	return s.user.Value()
}

// Close cancels any login in flight and completes the streams.
func (s *UserStore) Close() {
	s.sub.Unsubscribe()
	s.attempts.Complete()
	s.user.Complete()
}
