package course

import (
	"context"
	"time"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/event"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/pkg/lessons"
)

// LessonArrived is published when the backend delivers a new lesson.
type LessonArrived struct {
	Description string `json:"description"`
}

// LessonCompleted is published when a student finishes a lesson.
type LessonCompleted struct {
	LessonID int `json:"lesson_id"`
}

func (a *App) handlers() []event.Handler {
	arrived := event.NewHandlerFunc(func(ctx context.Context, evt LessonArrived) error {
		l := lessons.Lesson{Description: evt.Description}
		if a.db != nil {
			stored, err := a.db.Insert(ctx, l)
			if err != nil {
				return err
			}
			l = stored
		}
		_, err := a.lessons.AddLesson(l)
		return err
	})

	completed := event.NewHandlerFunc(func(_ context.Context, evt LessonCompleted) error {
		_, err := a.lessons.ToggleLesson(evt.LessonID)
		return err
	})

	return []event.Handler{
		event.Decorate(arrived, event.Timeout(5*time.Second)),
		completed,
	}
}
