// Package stream provides a small multicast stream primitive: subjects that fan
// values out to registered observers, a read-only Observable view, and a handful
// of operators for deriving new streams.
//
// # Core Components
//
// Observer is the sink: Next accepts a value, Error and Complete are terminal.
// ObserverFuncs and NextFunc adapt plain functions.
//
// Subject is the write side of a channel. Its owner calls Next, Error and
// Complete; everyone else gets the Observable returned by AsObservable, which
// only exposes Subscribe.
//
// BehaviorSubject is a Subject with a current value. Every new subscriber
// receives the current value before any later emission, and Value reads it
// without subscribing.
//
// Subscription is the handle returned by Subscribe. Unsubscribe is idempotent
// and may be called at any time, including from inside the observer's own
// callback.
//
// # Delivery Guarantees
//
// Observers are notified synchronously, in subscription order, on the goroutine
// that emits. Notification passes of one subject never interleave: a value
// emitted from inside a callback, or from another goroutine while a pass is in
// progress, is queued and delivered after the current pass. A given observer
// therefore never sees value N+1 before value N.
//
// A BehaviorSubject delivers its current value to a new observer before
// Subscribe returns, including when Subscribe is called from a callback or
// while another goroutine is running a pass. Each observer has its own delivery
// queue, so the replay never interleaves with later values.
//
// An observer that returns an error or panics does not stop the pass. Every
// failure is wrapped in an *ObserverError, handed to the failure handler (see
// WithFailureHandler) and returned, joined, from the call that ran the
// notification pass. When another goroutine is already draining, that is its
// call rather than yours; the failure handler sees every failure regardless.
//
// Emitting after Complete or Error returns ErrCompleted.
//
// # Basic Usage
//
//	type Lesson struct {
//	    ID          int
//	    Description string
//	}
//
//	lessons := stream.NewBehaviorSubject([]Lesson{})
//
//	sub := lessons.AsObservable().Subscribe(stream.NextFunc(func(l []Lesson) {
//	    fmt.Println(len(l), "lessons")
//	}))
//	defer sub.Unsubscribe()
//
//	_ = lessons.Next([]Lesson{{ID: 1, Description: "Intro"}})
//
// # Operators
//
// Map, TryMap, Filter, DistinctUntilChanged, Take and Catch derive new
// Observables. Each subscription to a derived Observable subscribes to its
// source, and unsubscribing tears that source subscription down.
//
// SwitchMap maps every value to an inner Observable and only forwards the
// latest inner. It replaces nested subscribe-inside-subscribe chains:
//
//	page := stream.SwitchMap(pageIndex, func(n int) stream.Observable[Page] {
//	    return stream.FromFunc(ctx, func(ctx context.Context) (Page, error) {
//	        return api.Page(ctx, n)
//	    })
//	})
//
// Create, Of, Empty, Throw and FromFunc build cold Observables. FromFunc models
// an upstream request: it emits at most one value and then completes.
//
// # Error Handling
//
// A failing upstream should not be routed into a data subject: a subject that
// has errored stops emitting. Use Catch to report the failure elsewhere and
// keep the data stream alive.
package stream
