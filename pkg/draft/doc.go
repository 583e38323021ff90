// Package draft autosaves form values so an unfinished form survives a reload.
//
// Autosaver watches an Observable of form values. Invalid and unchanged values
// are skipped, and each remaining value is saved through a Repository. A value
// typed while the previous save is still running cancels that save. Failures
// are reported instead of ending the autosave.
//
//	saver := draft.NewAutosaver[LessonForm](draft.NewRedisRepository[LessonForm](client), "lesson-form",
//		draft.WithValidator(func(f LessonForm) bool { return f.Description != "" }),
//		draft.WithReporter[LessonForm](messages.Default()),
//	)
//	if err := saver.Start(ctx, form.Values()); err != nil {
//		return err
//	}
//	defer saver.Close()
//
//	if restored, err := saver.Restore(ctx); err == nil {
//		form.Fill(restored)
//	}
//
// MemoryRepository is useful in tests and single-process setups.
// RedisRepository keeps drafts in Redis with an expiry.
package draft
