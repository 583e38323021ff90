// Package store implements the observable state store: a single owner of a
// piece of shared state that publishes every transition as an immutable
// snapshot.
//
// A Store holds a private stream.BehaviorSubject. Producers change the state
// only through Initialize and Mutate; consumers subscribe to Observable and
// receive the current snapshot immediately, then every later one.
//
// # Snapshots Are Copies
//
// State is copied at every boundary: the updater passed to Mutate works on a
// private copy, Snapshot returns a copy, and each subscriber receives its own
// copy of every snapshot. A consumer that modifies what it received cannot
// affect the store or any other consumer, and a snapshot kept from earlier never
// changes under its holder.
//
// Copying is done by a CloneFunc. The default, JSONClone, deep-copies through
// json-iterator and works for any plain data type. CloneSlice is a cheaper
// option for slices of flat values.
//
// # Basic Usage
//
//	type Lesson struct {
//	    ID          int    `json:"id"`
//	    Description string `json:"description"`
//	}
//
//	lessons, err := store.New([]Lesson{}, store.WithName[[]Lesson]("lessons"))
//	if err != nil {
//	    return err
//	}
//	defer lessons.Close()
//
//	sub := lessons.Observable().Subscribe(stream.NextFunc(func(l []Lesson) {
//	    render(l)
//	}))
//	defer sub.Unsubscribe()
//
//	err = lessons.Mutate(func(draft []Lesson) ([]Lesson, error) {
//	    return append(draft, Lesson{ID: 2, Description: "Operators"}), nil
//	})
//
// # Failure Semantics
//
// A mutation applies completely or not at all. If the updater returns an error
// or panics, or a copy fails, nothing is broadcast and Mutate returns an error
// wrapping ErrMutationFailed. Failures of observers during the broadcast do not
// undo the mutation; they are returned as *stream.ObserverError values.
package store
