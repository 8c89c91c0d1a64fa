package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/marioabc/document-classify/internal/config"
	"github.com/marioabc/document-classify/internal/core/ports"
	"github.com/marioabc/document-classify/internal/core/usecase"
	"github.com/marioabc/document-classify/internal/export"
	"github.com/marioabc/document-classify/internal/infrastructure/callback"
	"github.com/marioabc/document-classify/internal/infrastructure/llm/ollama"
	"github.com/marioabc/document-classify/internal/infrastructure/ocr"
	"github.com/marioabc/document-classify/internal/infrastructure/queue/nats"
	"github.com/marioabc/document-classify/internal/infrastructure/repository/postgres"
	"github.com/marioabc/document-classify/internal/infrastructure/resilience"
	"github.com/marioabc/document-classify/internal/infrastructure/storage/localfs"
	"github.com/marioabc/document-classify/internal/observability/logging"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue    ports.MessageQueue
	Records  ports.RecordRepository
	Exporter *export.Service

	ClassifierUC *usecase.ClassifyDocumentUseCase
	BatchUC      *usecase.BatchClassifyUseCase
	AsyncUC      *usecase.AsyncClassifyUseCase

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, service string) (*App, error) {
	logger := logging.NewJSONLogger(service, cfg.LogLevel)
	slog.SetDefault(logger)

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	records := postgres.NewRecordRepository(db)
	if err := records.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	store, err := localfs.New(cfg.UploadDir, cfg.ProcessedDir, cfg.AllowedExtensions, logger)
	if err != nil {
		return nil, fmt.Errorf("init file storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
		Logger:             logger,
		MaxConcurrentJobs:  cfg.WorkerMaxConcurrentJobs,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	arbiter := ollama.NewArbiter(
		cfg.OllamaURL,
		cfg.OllamaModel,
		time.Duration(cfg.OllamaProbeTimeoutSeconds)*time.Second,
		time.Duration(cfg.OllamaRequestTimeoutSeconds)*time.Second,
		logger,
	)

	remoteOCR := ocr.NewRemoteClient(cfg.OCRURL, time.Duration(cfg.OCRTimeoutSeconds)*time.Second)
	extractor := ocr.NewExtractor(remoteOCR, logger)

	engine := usecase.NewEngine(arbiter, logger)
	classifierUC := usecase.NewClassifyDocumentUseCase(store, extractor, engine, records, cfg.MaxFileSize, logger)
	batchUC := usecase.NewBatchClassifyUseCase(classifierUC, nil)

	notifier := callback.NewClient(cfg.CallbackBaseURL, time.Duration(cfg.CallbackTimeoutSeconds)*time.Second)
	asyncUC := usecase.NewAsyncClassifyUseCase(classifierUC, queue, notifier, logger)

	exporter := export.NewService(records, logger)

	return &App{
		Config: cfg,
		Logger: logger,

		Queue:    queue,
		Records:  records,
		Exporter: exporter,

		ClassifierUC: classifierUC,
		BatchUC:      batchUC,
		AsyncUC:      asyncUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
