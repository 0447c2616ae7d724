package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/nbotorog/stockwatch/internal/domain"
)

type fakeAlertRepo struct {
	mu      sync.Mutex
	alerts  map[string]domain.Alert
	listErr error
}

func newFakeAlertRepo(alerts ...domain.Alert) *fakeAlertRepo {
	repo := &fakeAlertRepo{alerts: make(map[string]domain.Alert)}
	for _, alert := range alerts {
		repo.alerts[alertKey(alert.Symbol, alert.Email)] = alert
	}
	return repo
}

func alertKey(symbol, email string) string {
	return symbol + "|" + email
}

func (r *fakeAlertRepo) Save(_ context.Context, alert *domain.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts[alertKey(alert.Symbol, alert.Email)] = *alert
	return nil
}

func (r *fakeAlertRepo) Get(_ context.Context, symbol, email string) (*domain.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	alert, ok := r.alerts[alertKey(symbol, email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &alert, nil
}

func (r *fakeAlertRepo) Delete(_ context.Context, symbol, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.alerts, alertKey(symbol, email))
	return nil
}

func (r *fakeAlertRepo) ListByEmail(_ context.Context, email string) ([]domain.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var alerts []domain.Alert
	for _, alert := range r.alerts {
		if alert.Email == email {
			alerts = append(alerts, alert)
		}
	}
	return alerts, nil
}

func (r *fakeAlertRepo) ListAll(_ context.Context) ([]domain.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	alerts := make([]domain.Alert, 0, len(r.alerts))
	for _, alert := range r.alerts {
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

type fakeQuoteClient struct {
	quotes map[string]*domain.Quote
	errs   map[string]error
	calls  []string
}

func newFakeQuoteClient() *fakeQuoteClient {
	return &fakeQuoteClient{
		quotes: make(map[string]*domain.Quote),
		errs:   make(map[string]error),
	}
}

func (c *fakeQuoteClient) Quote(_ context.Context, symbol, _, _ string) (*domain.Quote, error) {
	c.calls = append(c.calls, symbol)
	if err, ok := c.errs[symbol]; ok {
		return nil, err
	}
	quote, ok := c.quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("%w for symbol: %s", domain.ErrNoData, symbol)
	}
	return quote, nil
}

type fakePublisher struct {
	subscribed []string
	published  []string
	sms        []string
	publishErr error
}

func (p *fakePublisher) Subscribe(_ context.Context, email string) error {
	p.subscribed = append(p.subscribed, email)
	return nil
}

func (p *fakePublisher) Publish(_ context.Context, subject, _ string) error {
	if p.publishErr != nil {
		return p.publishErr
	}
	p.published = append(p.published, subject)
	return nil
}

func (p *fakePublisher) PublishSMS(_ context.Context, phoneNumber, _ string) error {
	p.sms = append(p.sms, phoneNumber)
	return nil
}

type fakeMailer struct {
	sent []string
}

func (m *fakeMailer) Send(_ context.Context, to, _, _ string) error {
	m.sent = append(m.sent, to)
	return nil
}
