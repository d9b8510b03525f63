package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xaenox/sentiment-batch/internal/analysis"
	"github.com/xaenox/sentiment-batch/internal/classifier"
	"github.com/xaenox/sentiment-batch/internal/notifier"
	"github.com/xaenox/sentiment-batch/internal/server"
	"github.com/xaenox/sentiment-batch/internal/storage"
	"github.com/xaenox/sentiment-batch/internal/transcript"
	"github.com/xaenox/sentiment-batch/pkg/config"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize storage
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage(logger)
	} else {
		logger.Info("Using PostgreSQL storage")
		dbConfig := storage.DatabaseConfig{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			UseInMemory: cfg.Database.UseInMemory,
		}
		store, err = storage.NewPostgresStorage(dbConfig, cfg.Analysis.ChunkSize, logger)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Initialize classifier; left nil without credentials so runs report
	// the backend as unavailable instead of failing mid-batch.
	var clf classifier.Classifier
	if cfg.OpenAI.APIKey != "" {
		clf = classifier.NewGPTClassifier(classifier.Config{
			APIKey:      cfg.OpenAI.APIKey,
			BaseURL:     cfg.OpenAI.BaseURL,
			Model:       cfg.OpenAI.Model,
			MaxTokens:   cfg.OpenAI.MaxTokens,
			Temperature: cfg.OpenAI.Temperature,
		}, logger)
	} else {
		logger.Warn("OPENAI_API_KEY not set, sentiment classification unavailable")
	}

	// Optional Telegram run notifications
	var notif notifier.Notifier
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
		tn, err := notifier.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID, logger)
		if err != nil {
			logger.Warn("Failed to initialize telegram notifier", zap.Error(err))
		} else {
			logger.Info("Telegram run notifications enabled")
			notif = tn
		}
	}

	transcripts := transcript.NewBuilder(store, logger)
	orchestrator := analysis.NewOrchestrator(store, clf, transcripts, logger)
	handler := server.NewHandler(orchestrator, notif, cfg.Analysis.RunTimeout, logger)
	router := server.NewRouter(handler)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Server listening", zap.String("addr", cfg.Server.Addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
