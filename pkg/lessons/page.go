package lessons

import (
	"context"
	"time"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/stream"
)

// Page is one page of lessons as returned by a Source. Numbers start at 1.
type Page struct {
	Number  int      `json:"number"`
	Size    int      `json:"size"`
	Total   int      `json:"total"`
	Lessons []Lesson `json:"lessons"`
}

// Pages returns the number of pages needed for Total lessons.
func (p Page) Pages() int {
	if p.Size <= 0 || p.Total <= 0 {
		return 0
	}
	return (p.Total-1)/p.Size + 1
}

// Last reports whether there is no page after this one.
func (p Page) Last() bool {
	return p.Number >= p.Pages()
}

// Source is an upstream provider of lesson pages. FetchPage emits at most one
// Page and completes, or fails. Unsubscribing cancels the request.
type Source interface {
	FetchPage(ctx context.Context, number, size int) stream.Observable[Page]
}

// MemorySource serves pages from a Store's current snapshot.
type MemorySource struct {
	store   *Store
	latency time.Duration
}

// NewMemorySource returns a Source backed by s. A positive latency delays each
// response, the way a network request would.
func NewMemorySource(s *Store, latency time.Duration) *MemorySource {
	return &MemorySource{store: s, latency: latency}
}

// FetchPage implements Source.
func (m *MemorySource) FetchPage(ctx context.Context, number, size int) stream.Observable[Page] {
	return stream.FromFunc(ctx, func(ctx context.Context) (Page, error) {
		if err := validatePage(number, size); err != nil {
			return Page{}, err
		}

		if m.latency > 0 {
			timer := time.NewTimer(m.latency)
			defer timer.Stop()

			select {
			case <-ctx.Done():
				return Page{}, ctx.Err()
			case <-timer.C:
			}
		}

		list := m.store.Snapshot()
		page := Page{Number: number, Size: size, Total: len(list), Lessons: []Lesson{}}

		// Past the last page: compare page numbers first so the offset below
		// cannot overflow.
		if number > page.Pages() {
			return page, nil
		}
		start := (number - 1) * size
		end := min(start+size, len(list))
		page.Lessons = list[start:end]
		return page, nil
	})
}

func validatePage(number, size int) error {
	if size < 1 {
		return ErrInvalidPageSize
	}
	if number < 1 {
		return ErrPageOutOfRange
	}
	return nil
}
