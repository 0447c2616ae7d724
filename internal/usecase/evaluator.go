package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nbotorog/stockwatch/internal/domain"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Publisher is the push-notification channel: topic publishes reach every
// subscribed email endpoint, SMS publishes go straight to a phone number.
type Publisher interface {
	Subscribe(ctx context.Context, email string) error
	Publish(ctx context.Context, subject, message string) error
	PublishSMS(ctx context.Context, phoneNumber, message string) error
}

// Mailer sends a direct email, separate from the topic channel.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Evaluator runs the scheduled alert sweep: load every alert, resolve its
// current price, and notify when the target is reached. It keeps no state
// between sweeps, so an alert that stays above target notifies again on the
// next sweep.
type Evaluator struct {
	alerts    domain.AlertRepository
	quotes    domain.QuoteClient
	publisher Publisher
	mailer    Mailer
	logger    *zap.Logger

	cron *cron.Cron
}

func NewEvaluator(alerts domain.AlertRepository, quotes domain.QuoteClient, publisher Publisher, mailer Mailer, logger *zap.Logger) *Evaluator {
	return &Evaluator{
		alerts:    alerts,
		quotes:    quotes,
		publisher: publisher,
		mailer:    mailer,
		logger:    logger,
	}
}

// Start schedules RunSweep on the given cron expression. A trigger that fires
// while the previous sweep is still running is skipped, not queued.
func (e *Evaluator) Start(ctx context.Context, schedule string, location *time.Location) error {
	if e.cron != nil {
		return errors.New("evaluator already started")
	}

	runner := cron.New(
		cron.WithLocation(location),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := runner.AddFunc(schedule, func() {
		e.RunSweep(ctx)
	}); err != nil {
		return fmt.Errorf("schedule alert sweep: %w", err)
	}

	runner.Start()
	e.cron = runner
	e.logger.Info("alert sweep scheduled", zap.String("schedule", schedule), zap.String("timezone", location.String()))
	return nil
}

// Stop halts the schedule and waits for an in-flight sweep to finish.
func (e *Evaluator) Stop() {
	if e.cron == nil {
		return
	}
	<-e.cron.Stop().Done()
	e.cron = nil
}

// RunSweep evaluates every registered alert once. A failure on one alert is
// logged and the sweep moves on; only a failure to load the alert set aborts
// the whole cycle.
func (e *Evaluator) RunSweep(ctx context.Context) {
	alerts, err := e.alerts.ListAll(ctx)
	if err != nil {
		e.logger.Error("failed to load alerts, skipping sweep", zap.Error(err))
		return
	}

	e.logger.Info("alert sweep started", zap.Int("alerts", len(alerts)))
	start := time.Now()
	notified := 0

	for _, alert := range alerts {
		hit, err := e.evaluate(ctx, alert)
		if err != nil {
			e.logger.Warn("alert evaluation failed",
				zap.String("symbol", alert.Symbol),
				zap.String("email", alert.Email),
				zap.Error(err),
			)
			continue
		}
		if hit {
			notified++
		}
	}

	e.logger.Info("alert sweep complete",
		zap.Int("alerts", len(alerts)),
		zap.Int("notified", notified),
		zap.Duration("duration", time.Since(start)),
	)
}

// CheckAndNotify is the on-demand single-alert path. Unlike the sweep it
// fails hard on any error and notifies over the topic channel only.
func (e *Evaluator) CheckAndNotify(ctx context.Context, symbol, email string) (bool, error) {
	symbol, email, err := normalizeKey(symbol, email)
	if err != nil {
		return false, err
	}

	alert, err := e.alerts.Get(ctx, symbol, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, ErrAlertNotFound
		}
		return false, err
	}

	target, err := decimal.NewFromString(alert.TargetPrice)
	if err != nil {
		return false, fmt.Errorf("invalid target price %q: %w", alert.TargetPrice, err)
	}

	quote, err := e.quotes.Quote(ctx, alert.Symbol, domain.DefaultInterval, domain.OutputCompact)
	if err != nil {
		return false, err
	}

	if quote.Close.Cmp(target) < 0 {
		return false, nil
	}

	subject := alertSubject(alert.Symbol)
	message := fmt.Sprintf("Stock %s has reached your target price of $%s. Current price: $%s",
		alert.Symbol, target.StringFixed(2), quote.Close.StringFixed(2))
	if err := e.publisher.Publish(ctx, subject, message); err != nil {
		return false, err
	}
	return true, nil
}

func (e *Evaluator) evaluate(ctx context.Context, alert domain.Alert) (bool, error) {
	target, err := decimal.NewFromString(alert.TargetPrice)
	if err != nil {
		return false, fmt.Errorf("invalid target price %q: %w", alert.TargetPrice, err)
	}

	quote, err := e.quotes.Quote(ctx, alert.Symbol, domain.DefaultInterval, domain.OutputCompact)
	if err != nil {
		return false, err
	}

	// Inclusive threshold: reaching exactly the target qualifies.
	if quote.Close.Cmp(target) < 0 {
		return false, nil
	}

	e.dispatch(ctx, alert, quote.Close)
	return true, nil
}

// dispatch fans a qualifying alert out to its channels. Channels fire
// independently: a failed send on one is logged without blocking the others.
func (e *Evaluator) dispatch(ctx context.Context, alert domain.Alert, price decimal.Decimal) {
	subject := alertSubject(alert.Symbol)
	message := alertMessage(alert.Symbol, price)

	if alert.Email != "" {
		if err := e.publisher.Subscribe(ctx, alert.Email); err != nil {
			e.logger.Warn("failed to subscribe email to alert topic",
				zap.String("email", alert.Email), zap.Error(err))
		}
		if err := e.publisher.Publish(ctx, subject, message); err != nil {
			e.logger.Warn("failed to publish alert",
				zap.String("symbol", alert.Symbol), zap.Error(err))
		}
		if err := e.mailer.Send(ctx, alert.Email, subject, message); err != nil {
			e.logger.Warn("failed to send alert email",
				zap.String("email", alert.Email), zap.Error(err))
		}
	}

	if alert.PhoneNumber != "" {
		if err := e.publisher.PublishSMS(ctx, alert.PhoneNumber, message); err != nil {
			e.logger.Warn("failed to send alert sms",
				zap.String("symbol", alert.Symbol), zap.Error(err))
		}
	}
}

func alertSubject(symbol string) string {
	return fmt.Sprintf("Stock Price Alert: %s", symbol)
}

func alertMessage(symbol string, price decimal.Decimal) string {
	return fmt.Sprintf("The stock price of %s has reached $%s. This is your target price alert.", symbol, price.StringFixed(2))
}
