package lessons

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/logger"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/stream"
)

// Reporter receives failures that must not end a data stream.
// *messages.Store implements it.
type Reporter interface {
	Report(err error)
}

// Pager moves through the pages of a Source. The current page number lives in
// a private BehaviorSubject; Page derives the loaded page from it.
type Pager struct {
	source   Source
	size     int
	index    *stream.BehaviorSubject[int]
	reporter Reporter
	logger   *slog.Logger
}

// PagerOption configures a Pager.
type PagerOption func(*Pager)

// WithPageSize sets the number of lessons per page. Default is 10.
func WithPageSize(n int) PagerOption {
	return func(p *Pager) {
		p.size = n
	}
}

// WithReporter routes page load failures to r, typically the messages store.
func WithReporter(r Reporter) PagerOption {
	return func(p *Pager) {
		p.reporter = r
	}
}

// WithPagerLogger configures structured logging for the pager.
func WithPagerLogger(l *slog.Logger) PagerOption {
	return func(p *Pager) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPager returns a pager positioned on the first page.
func NewPager(source Source, opts ...PagerOption) (*Pager, error) {
	p := &Pager{
		source: source,
		size:   10,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.size < 1 {
		return nil, ErrInvalidPageSize
	}

	p.index = stream.NewBehaviorSubject(1,
		stream.WithName("lessons.pager"),
		stream.WithLogger(p.logger),
	)
	return p, nil
}

// Page streams the current page. Each page change cancels the request for
// the previous page, so only the latest requested page is emitted. A failed
// request is reported and skipped; the stream keeps following page changes.
func (p *Pager) Page(ctx context.Context) stream.Observable[Page] {
	return stream.SwitchMap(p.index.AsObservable(), func(n int) stream.Observable[Page] {
		return stream.Catch(p.source.FetchPage(ctx, n, p.size), func(err error) stream.Observable[Page] {
			p.fail(n, err)
			return stream.Empty[Page]()
		})
	})
}

// Current returns the current page number.
func (p *Pager) Current() int {
	return p.index.Value()
}

// Next moves to the following page. There is no upper bound other than the
// largest int, where it returns ErrPageOutOfRange.
func (p *Pager) Next() error {
	return p.move(func(n int) (int, error) {
		if n == math.MaxInt {
			return n, fmt.Errorf("%w: %d", ErrPageOutOfRange, n)
		}
		return n + 1, nil
	})
}

// Previous moves to the preceding page. It returns ErrFirstPage on page 1.
func (p *Pager) Previous() error {
	return p.move(func(n int) (int, error) {
		if n <= 1 {
			return n, ErrFirstPage
		}
		return n - 1, nil
	})
}

// GoTo moves to page n.
func (p *Pager) GoTo(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: %d", ErrPageOutOfRange, n)
	}
	return p.move(func(int) (int, error) {
		return n, nil
	})
}

// Close completes the page stream once the in-flight request finishes.
func (p *Pager) Close() {
	p.index.Complete()
}

func (p *Pager) move(fn func(int) (int, error)) error {
	err := p.index.Update(fn)
	if err == nil {
		return nil
	}

	var oe *stream.ObserverError
	switch {
	case errors.As(err, &oe):
		return nil
	case errors.Is(err, stream.ErrCompleted):
		return ErrClosed
	}
	return err
}

func (p *Pager) fail(n int, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}

	p.logger.Warn("page request failed",
		logger.Component("lessons.pager"),
		logger.Page(n),
		logger.Error(err))

	if p.reporter != nil {
		p.reporter.Report(fmt.Errorf("could not load page %d: %w", n, err))
	}
}
