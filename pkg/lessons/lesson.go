package lessons

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/logger"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/sanitizer"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/store"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/stream"
)

// Lesson is one entry of a course.
type Lesson struct {
	ID          int    `json:"id" db:"id"`
	Description string `json:"description" db:"description" sanitize:"text,single_line,max:200"`
	Completed   bool   `json:"completed" db:"completed"`
}

// Store owns the list of lessons and broadcasts every change as a fresh snapshot.
type Store struct {
	state  *store.Store[[]Lesson]
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger configures structured logging for the store.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates an empty lessons store.
func NewStore(opts ...Option) (*Store, error) {
	s := &Store{logger: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}

	state, err := store.New([]Lesson{},
		store.WithName[[]Lesson]("lessons"),
		store.WithLogger[[]Lesson](s.logger),
		store.WithClone(store.CloneSlice[[]Lesson]),
	)
	if err != nil {
		return nil, err
	}
	s.state = state
	return s, nil
}

// Initialize replaces all lessons. Lessons without an ID are numbered after
// the highest ID in the list.
func (s *Store) Initialize(list []Lesson) error {
	next := make([]Lesson, 0, len(list))
	for _, l := range list {
		l, err := normalize(l)
		if err != nil {
			return err
		}
		next = append(next, l)
	}

	maxID := highestID(next)
	seen := make(map[int]struct{}, len(next))
	for i := range next {
		if next[i].ID == 0 {
			maxID++
			next[i].ID = maxID
		}
		if _, ok := seen[next[i].ID]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateLesson, next[i].ID)
		}
		seen[next[i].ID] = struct{}{}
	}

	return mutationError(s.state.Initialize(next))
}

// AddLesson appends a lesson and returns it as stored. The ID is kept when it
// is free; a zero or already used ID is replaced by the next free one, so
// adding the same lesson twice stores two entries.
func (s *Store) AddLesson(l Lesson) (Lesson, error) {
	l, err := normalize(l)
	if err != nil {
		return Lesson{}, err
	}

	err = s.state.Mutate(func(draft []Lesson) ([]Lesson, error) {
		if l.ID <= 0 || slices.ContainsFunc(draft, byID(l.ID)) {
			l.ID = highestID(draft) + 1
		}
		return append(draft, l), nil
	})
	if err := mutationError(err); err != nil {
		return Lesson{}, err
	}

	s.logger.Debug("lesson added", logger.LessonID(l.ID))
	return l, nil
}

// UpdateLesson replaces the lesson with the same ID.
func (s *Store) UpdateLesson(l Lesson) error {
	l, err := normalize(l)
	if err != nil {
		return err
	}

	return mutationError(s.state.Mutate(func(draft []Lesson) ([]Lesson, error) {
		i := slices.IndexFunc(draft, byID(l.ID))
		if i < 0 {
			return nil, ErrLessonNotFound
		}
		draft[i] = l
		return draft, nil
	}))
}

// ToggleLesson flips the completed flag of a lesson and returns the updated lesson.
func (s *Store) ToggleLesson(id int) (Lesson, error) {
	var toggled Lesson
	err := s.state.Mutate(func(draft []Lesson) ([]Lesson, error) {
		i := slices.IndexFunc(draft, byID(id))
		if i < 0 {
			return nil, ErrLessonNotFound
		}
		draft[i].Completed = !draft[i].Completed
		toggled = draft[i]
		return draft, nil
	})
	if err := mutationError(err); err != nil {
		return Lesson{}, err
	}
	return toggled, nil
}

// DeleteLesson removes a lesson.
func (s *Store) DeleteLesson(id int) error {
	return mutationError(s.state.Mutate(func(draft []Lesson) ([]Lesson, error) {
		i := slices.IndexFunc(draft, byID(id))
		if i < 0 {
			return nil, ErrLessonNotFound
		}
		return slices.Delete(draft, i, i+1), nil
	}))
}

// Lessons streams the lesson list. New subscribers receive the current list.
func (s *Store) Lessons() stream.Observable[[]Lesson] {
	return s.state.Observable()
}

// Completed streams the completed lessons only.
func (s *Store) Completed() stream.Observable[[]Lesson] {
	return stream.Map(s.state.Observable(), func(list []Lesson) []Lesson {
		return slices.DeleteFunc(list, func(l Lesson) bool { return !l.Completed })
	})
}

// Snapshot returns the current lessons.
func (s *Store) Snapshot() []Lesson {
	list, err := s.state.Snapshot()
	if err != nil {
		return nil
	}
	return list
}

// Close completes the lesson streams.
func (s *Store) Close() {
	s.state.Close()
}

func normalize(l Lesson) (Lesson, error) {
	if err := sanitizer.SanitizeStruct(&l); err != nil {
		return Lesson{}, err
	}
	if l.Description == "" {
		return Lesson{}, ErrEmptyDescription
	}
	return l, nil
}

func highestID(list []Lesson) int {
	maxID := 0
	for _, l := range list {
		maxID = max(maxID, l.ID)
	}
	return maxID
}

func byID(id int) func(Lesson) bool {
	return func(l Lesson) bool { return l.ID == id }
}

// mutationError maps store errors to this package. Observer failures are not
// returned: the change was applied and the stream has already logged them.
func mutationError(err error) error {
	if err == nil {
		return nil
	}

	var oe *stream.ObserverError
	switch {
	case errors.As(err, &oe):
		return nil
	case errors.Is(err, store.ErrStoreClosed):
		return ErrClosed
	case errors.Is(err, ErrLessonNotFound):
		return ErrLessonNotFound
	}
	return err
}
