// Package logger provides structured logging helpers built on Go's standard slog package:
// a small factory for configured loggers and a set of attribute helpers for the
// keys used across the module.
//
// # Basic Usage
//
//	import "github.com/pinakinmistry/reactive-patterns-using-rxjs/core/logger"
//
//	// Development: text format, debug level, stdout
//	log := logger.New(logger.WithDevelopment("lessons"))
//
//	// Production: JSON format, info level, stdout
//	log := logger.New(logger.WithProduction("lessons"))
//
//	// Custom configuration
//	log := logger.New(
//		logger.WithLevel(slog.LevelWarn),
//		logger.WithJSONFormatter(),
//		logger.WithAttr(slog.String("region", "eu")),
//		logger.WithOutput(os.Stderr),
//	)
//
// # Configuration From Environment
//
// Config is meant to be loaded with the config package:
//
//	cfg := config.MustLoad[logger.Config]()
//	log := logger.New(cfg.Options()...)
//
// Recognized variables are LOG_LEVEL (debug, info, warn, error), LOG_FORMAT
// (text, json) and SERVICE_NAME.
//
// # Attribute Helpers
//
// Helpers return an empty slog.Attr when the value is missing, which slog
// drops, so callers never need nil checks:
//
//	log.Error("observer failed",
//		logger.Component("lessons"),
//		logger.SubscriptionID(id),
//		logger.Error(err),
//	)
//
//	log.Info("page loaded",
//		logger.Page(3),
//		logger.Count("lessons", len(page.Lessons)),
//		logger.Elapsed(start),
//	)
//
// Use Discard in tests and wherever logging should be disabled.
package logger
