package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/shifa-s11/board-task/internal/common/config"
	"github.com/shifa-s11/board-task/internal/common/logger"
	"github.com/shifa-s11/board-task/internal/dnd"
	"github.com/shifa-s11/board-task/internal/events"
	"github.com/shifa-s11/board-task/internal/persistence"
	"github.com/shifa-s11/board-task/internal/storage"
	taskservice "github.com/shifa-s11/board-task/internal/task/service"
	"github.com/shifa-s11/board-task/internal/tui"
)

func main() {
	configDir := flag.StringP("config", "c", "", "directory containing config.yaml")
	logPath := flag.String("log", "board-tui.log", "log file (the terminal is taken by the board)")
	flag.Parse()

	cfg, err := config.LoadWithPath(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// stdout belongs to the board, so logs go to a file.
	log, err := logger.NewLogger(logger.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     "json",
		OutputPath: *logPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("board-tui exited with error", zap.Error(err))
		_ = log.Sync()
		fmt.Fprintf(os.Stderr, "board-tui: %v\n", err)
		os.Exit(1)
	}
	_ = log.Sync()
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, closeBackend, err := persistence.Provide(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = closeBackend() }()
	adapter := storage.NewAdapter(backend, log)
	c := persistence.NewCache(adapter, log)

	eventBus, closeBus, err := events.Provide(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = closeBus() }()

	svc := taskservice.NewService(adapter, c, eventBus, log)
	if cfg.Seed.Enabled {
		if _, err := svc.Seed(ctx); err != nil {
			log.Warn("Failed to seed sample data", zap.Error(err))
		}
	}

	model := tui.New(ctx, svc, c, dnd.ConfigFrom(cfg.Drag), log)
	return tui.Run(ctx, model)
}
