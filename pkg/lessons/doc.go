// Package lessons holds the course lessons state and the paginated lessons service.
//
// Store is the single owner of the lesson list. Every mutator builds a new
// snapshot from a private copy and broadcasts it, so a list received by one
// subscriber never changes under it.
//
//	s, _ := lessons.NewStore()
//	sub := s.Lessons().Subscribe(stream.NextFunc(func(list []lessons.Lesson) {
//	    render(list)
//	}))
//	defer sub.Unsubscribe()
//
//	added, _ := s.AddLesson(lessons.Lesson{Description: "Intro to streams"})
//	_, _ = s.ToggleLesson(added.ID)
//
// # Pagination
//
// A Source answers a page request with an Observable that emits once. Pager
// keeps the page number in a private BehaviorSubject and switches to a new
// request on every change, dropping the response of a page that is no longer
// wanted. Failed requests go to a Reporter instead of ending the stream.
//
//	pager, _ := lessons.NewPager(lessons.NewPostgresSource(pool),
//	    lessons.WithPageSize(20),
//	    lessons.WithReporter(messages.Default()),
//	)
//	pager.Page(ctx).Subscribe(stream.NextFunc(showPage))
//	_ = pager.Next()
//
// PostgresSource reads the lessons table created by the embedded Migrations.
package lessons
