package messages

import (
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/logger"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/store"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/stream"
)

// Level classifies a message.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Message is one user-visible notification.
type Message struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps the list of pending user-visible messages.
type Store struct {
	state  *store.Store[[]Message]
	limit  int
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLimit caps the number of kept messages; the oldest are dropped first.
// Zero or negative means no limit. Default is 50.
func WithLimit(n int) Option {
	return func(s *Store) {
		s.limit = n
	}
}

// WithLogger configures structured logging for the store.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an empty message store.
func New(opts ...Option) (*Store, error) {
	s := &Store{
		limit:  50,
		logger: logger.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	state, err := store.New([]Message{},
		store.WithName[[]Message]("messages"),
		store.WithLogger[[]Message](s.logger),
		store.WithClone(store.CloneSlice[[]Message]),
	)
	if err != nil {
		return nil, err
	}
	s.state = state
	return s, nil
}

// Info adds an informational message.
func (s *Store) Info(text string) (Message, error) {
	return s.add(LevelInfo, text)
}

// Error adds an error message.
func (s *Store) Error(text string) (Message, error) {
	return s.add(LevelError, text)
}

// Report adds an error message for err. A nil error is ignored.
func (s *Store) Report(err error) {
	if err == nil {
		return
	}
	if _, addErr := s.add(LevelError, err.Error()); addErr != nil {
		s.logger.Error("failed to report error",
			logger.Component("messages"),
			logger.Errors(err, addErr))
	}
}

func (s *Store) add(level Level, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}

	msg := Message{
		ID:        uuid.NewString(),
		Level:     level,
		Text:      text,
		CreatedAt: s.now(),
	}

	err := s.state.Mutate(func(draft []Message) ([]Message, error) {
		draft = append(draft, msg)
		if s.limit > 0 && len(draft) > s.limit {
			draft = draft[len(draft)-s.limit:]
		}
		return draft, nil
	})
	if err := mutationError(err); err != nil {
		return Message{}, err
	}
	return msg, nil
}

// Dismiss removes the message with the given id.
func (s *Store) Dismiss(id string) error {
	err := s.state.Mutate(func(draft []Message) ([]Message, error) {
		i := slices.IndexFunc(draft, func(m Message) bool { return m.ID == id })
		if i < 0 {
			return nil, ErrMessageNotFound
		}
		return slices.Delete(draft, i, i+1), nil
	})
	if errors.Is(err, ErrMessageNotFound) {
		return ErrMessageNotFound
	}
	return mutationError(err)
}

// Clear removes every message.
func (s *Store) Clear() error {
	return mutationError(s.state.Initialize([]Message{}))
}

// Messages streams the message list. New subscribers receive the current list.
func (s *Store) Messages() stream.Observable[[]Message] {
	return s.state.Observable()
}

// Errors streams only the error messages, skipping updates that do not change them.
func (s *Store) Errors() stream.Observable[[]Message] {
	onlyErrors := stream.Map(s.state.Observable(), func(list []Message) []Message {
		out := make([]Message, 0, len(list))
		for _, m := range list {
			if m.Level == LevelError {
				out = append(out, m)
			}
		}
		return out
	})
	return stream.DistinctUntilChangedFunc(onlyErrors, sameIDs)
}

// Snapshot returns the current messages.
func (s *Store) Snapshot() []Message {
	list, err := s.state.Snapshot()
	if err != nil {
		return nil
	}
	return list
}

// Close completes the message streams.
func (s *Store) Close() {
	s.state.Close()
}

func sameIDs(a, b []Message) bool {
	return slices.EqualFunc(a, b, func(x, y Message) bool { return x.ID == y.ID })
}

// mutationError maps store errors to this package. Observer failures are not
// returned: the change was applied and the stream has already logged them.
func mutationError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrStoreClosed) {
		return ErrClosed
	}
	var oe *stream.ObserverError
	if errors.As(err, &oe) {
		return nil
	}
	return err
}
