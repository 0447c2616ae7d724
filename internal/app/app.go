package app

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/nbotorog/stockwatch/internal/config"
	"github.com/nbotorog/stockwatch/internal/delivery/httpapi"
	"github.com/nbotorog/stockwatch/internal/infra/alphavantage"
	"github.com/nbotorog/stockwatch/internal/infra/db"
	"github.com/nbotorog/stockwatch/internal/infra/log"
	"github.com/nbotorog/stockwatch/internal/infra/notify"
	"github.com/nbotorog/stockwatch/internal/usecase"
	"go.uber.org/zap"
)

// defaultSweepSchedule evaluates alerts at 10:00 and 15:00 local to the
// configured timezone.
const defaultSweepSchedule = "0 10,15 * * *"

type App struct {
	server    *httpapi.Server
	evaluator *usecase.Evaluator
	schedule  string
	location  *time.Location
	logger    *zap.Logger
	cleanupFn func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := log.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	location, err := time.LoadLocation(cfg.SweepTimezone)
	if err != nil {
		return nil, fmt.Errorf("load sweep timezone: %w", err)
	}

	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	alertRepo := db.NewAlertRepository(dbConn)
	quoteClient := alphavantage.NewClient(cfg.StockAPIBaseURL, cfg.StockAPIKey, cfg.StockAPITimeout, logger)
	publisher := notify.NewSNSPublisher(sns.NewFromConfig(awsCfg), cfg.SNSTopicARN, logger)
	mailer := notify.NewSESMailer(ses.NewFromConfig(awsCfg), cfg.SESSenderEmail, logger)

	priceUC := usecase.NewPriceUsecase(quoteClient)
	alertUC := usecase.NewAlertUsecase(alertRepo)
	evaluator := usecase.NewEvaluator(alertRepo, quoteClient, publisher, mailer, logger)

	handlers := httpapi.NewHandlers(priceUC, alertUC, evaluator, logger)
	server := httpapi.NewServer(cfg.HTTPAddr, handlers, logger)

	schedule := cfg.SweepSchedule
	if schedule == "" {
		schedule = defaultSweepSchedule
	}

	cleanup := func() error {
		sqlDB, err := dbConn.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return &App{
		server:    server,
		evaluator: evaluator,
		schedule:  schedule,
		location:  location,
		logger:    logger,
		cleanupFn: cleanup,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("stockwatch service starting")
	if err := a.evaluator.Start(ctx, a.schedule, a.location); err != nil {
		return err
	}

	a.logger.Info("stockwatch service started")
	return a.server.Start(ctx)
}

func (a *App) Shutdown() {
	a.logger.Info("stockwatch service shutting down")
	a.evaluator.Stop()
	if a.cleanupFn != nil {
		if err := a.cleanupFn(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
