// Command newsdesk plays the reporter story in a terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"newsdesk/data"
	"newsdesk/internal/config"
	"newsdesk/internal/game"
	"newsdesk/internal/logger"
	"newsdesk/internal/telemetry"
	"newsdesk/internal/tui"
)

// The screen owns stdout, so logs go to a file unless one is configured.
const defaultLogFile = "newsdesk.log"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "newsdesk:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Parse(flag.NewFlagSet("newsdesk", flag.ExitOnError), os.Args[1:])
	if err != nil {
		return err
	}
	if cfg.LogFile == "" {
		cfg.LogFile = defaultLogFile
	}

	log, err := logger.New(cfg.Logger())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "tui", cfg.OTelEnabled)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	var story *game.Story
	if cfg.StoryPath == "" {
		story, err = game.LoadStoryFS(data.FS(), data.DefaultStory)
	} else {
		story, err = game.LoadStory(cfg.StoryPath)
	}
	if err != nil {
		log.Error("failed to load story", zap.String("path", cfg.StoryPath), zap.Error(err))
		return err
	}

	screen, err := tui.NewScreen()
	if err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	// tcell turns Ctrl-C into a key event; SIGTERM closes the screen so
	// PollEvent returns nil and the loop ends.
	go func() {
		<-ctx.Done()
		screen.Close()
	}()

	log.Info("session started", zap.Int("scenes", len(story.Scenes)))
	if err := tui.New("Newsdesk", screen, game.New(story), log).Run(ctx); err != nil {
		return fmt.Errorf("story error: %w", err)
	}
	log.Info("session ended")
	return nil
}
