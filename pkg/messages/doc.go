// Package messages keeps user-visible notifications in an observable store.
//
// Failures of upstream requests must not be pushed into data streams: a stream
// that has errored stops emitting. Components catch such failures and Report
// them here instead, and a view subscribes to Messages or Errors to show them.
//
//	page := stream.Catch(source.FetchPage(ctx, n, size), func(err error) stream.Observable[lessons.Page] {
//	    msgs.Report(err)
//	    return stream.Empty[lessons.Page]()
//	})
//
// # Process-wide Store
//
// Messages are cross-cutting, so the package offers one explicit process-wide
// instance. It is created by Init at startup and torn down by Shutdown; Default
// panics if it is used before Init.
//
//	if err := messages.Init(messages.WithLimit(20)); err != nil {
//	    return err
//	}
//	defer messages.Shutdown()
//
//	messages.Default().Info("Lessons loaded")
//
// Components that take a *Store explicitly are easier to test and should be
// preferred; Default is for wiring in main.
package messages
