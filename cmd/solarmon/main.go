package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jameshartig/solarmon/pkg/log"
	"github.com/jameshartig/solarmon/pkg/server"
	"github.com/jameshartig/solarmon/pkg/storage"

	"github.com/levenlabs/go-lflag"
)

func main() {
	s := storage.Configured()
	srv := server.Configured(s)

	lflag.Configure()

	// lflag sets llog's level, slog needs it copied over
	level, err := log.SyncLevel()
	if err != nil {
		panic(err)
	}
	slog.SetDefault(log.Default())
	slog.Debug("logger configured", slog.String("level", level.String()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	defer func() {
		if err := s.Close(); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to close storage", "error", err)
		}
	}()

	if err := srv.Run(ctx); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "server failed", "error", err)
		os.Exit(1)
	}
	log.Ctx(ctx).InfoContext(ctx, "server exited cleanly")
}
