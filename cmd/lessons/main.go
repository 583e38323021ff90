package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/app/course"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/config"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/logger"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/pkg/messages"
)

func main() {
	var cfg course.Config
	config.MustLoad(&cfg) // panic on error
	log := logger.New(cfg.Log.Options()...)

	os.Exit(run(cfg, log))
}

// run owns every deferred cleanup so that main can exit with its code.
func run(cfg course.Config, log *slog.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := messages.Init(messages.WithLimit(cfg.MessageLimit), messages.WithLogger(log)); err != nil {
		log.Error("Failed to initialize messages", logger.Component("messages"), logger.Error(err))
		return 1
	}
	defer messages.Shutdown()

	app, err := course.NewApp(ctx, cfg,
		course.WithLogger(log),
		course.WithMessages(messages.Default()),
	)
	if err != nil {
		log.Error("Failed to build application", logger.Component("app"), logger.Error(err))
		return 1
	}
	defer app.Close()

	log.Info("lessons demo started")
	if err := app.Run(ctx); err != nil {
		log.Error("Application stopped with error", logger.Component("app"), logger.Error(err))
		return 1
	}
	log.Info("lessons demo stopped")
	return 0
}
