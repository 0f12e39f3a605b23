package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"newsdesk/data"
	"newsdesk/internal/config"
	"newsdesk/internal/game"
	"newsdesk/internal/logger"
	"newsdesk/internal/session"
	"newsdesk/internal/telemetry"
	"newsdesk/internal/web"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Parse(flag.NewFlagSet("server", flag.ExitOnError), args)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logger())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "server", cfg.OTelEnabled)
	if err != nil {
		log.Error("failed to init tracing", zap.Error(err))
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	story, err := loadStory(cfg.StoryPath)
	if err != nil {
		log.Error("failed to load story", zap.String("path", cfg.StoryPath), zap.Error(err))
		return err
	}
	log.Info("story loaded", zap.Int("scenes", len(story.Scenes)), zap.Int("time", story.InitialState.Time))

	tmpl, err := web.ParseTemplates()
	if err != nil {
		log.Error("failed to parse templates", zap.Error(err))
		return fmt.Errorf("parse templates: %w", err)
	}

	srv := &web.Server{
		Story:        story,
		Store:        session.NewMemoryStore[game.Snapshot](),
		Tmpl:         tmpl,
		Log:          log,
		Title:        "Newsdesk",
		CookieSecure: cfg.CookieSecure,
	}
	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Addr))
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", zap.Error(err))
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(sctx); err != nil {
			log.Error("graceful shutdown failed", zap.Error(err))
			return err
		}
	}
	return nil
}

func loadStory(path string) (*game.Story, error) {
	if path == "" {
		return game.LoadStoryFS(data.FS(), data.DefaultStory)
	}
	return game.LoadStory(path)
}
