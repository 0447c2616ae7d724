package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nbotorog/stockwatch/internal/domain"
	"github.com/nbotorog/stockwatch/internal/usecase"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryAlertRepo struct {
	alerts map[string]domain.Alert
}

func (r *memoryAlertRepo) key(symbol, email string) string { return symbol + "|" + email }

func (r *memoryAlertRepo) Save(_ context.Context, alert *domain.Alert) error {
	r.alerts[r.key(alert.Symbol, alert.Email)] = *alert
	return nil
}

func (r *memoryAlertRepo) Get(_ context.Context, symbol, email string) (*domain.Alert, error) {
	alert, ok := r.alerts[r.key(symbol, email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &alert, nil
}

func (r *memoryAlertRepo) Delete(_ context.Context, symbol, email string) error {
	delete(r.alerts, r.key(symbol, email))
	return nil
}

func (r *memoryAlertRepo) ListByEmail(_ context.Context, email string) ([]domain.Alert, error) {
	var alerts []domain.Alert
	for _, alert := range r.alerts {
		if alert.Email == email {
			alerts = append(alerts, alert)
		}
	}
	return alerts, nil
}

func (r *memoryAlertRepo) ListAll(_ context.Context) ([]domain.Alert, error) {
	var alerts []domain.Alert
	for _, alert := range r.alerts {
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

type stubQuoteClient struct {
	quote *domain.Quote
	err   error
}

func (c *stubQuoteClient) Quote(_ context.Context, symbol, _, outputSize string) (*domain.Quote, error) {
	if c.err != nil {
		return nil, c.err
	}
	quote := *c.quote
	if symbol != "" {
		quote.Symbol = symbol
	}
	if !strings.EqualFold(outputSize, domain.OutputFull) {
		quote.History = nil
	}
	return &quote, nil
}

type stubPublisher struct {
	published int
}

func (p *stubPublisher) Subscribe(context.Context, string) error { return nil }
func (p *stubPublisher) Publish(context.Context, string, string) error {
	p.published++
	return nil
}
func (p *stubPublisher) PublishSMS(context.Context, string, string) error { return nil }

type stubMailer struct{}

func (stubMailer) Send(context.Context, string, string, string) error { return nil }

type testEnv struct {
	handlers  *Handlers
	repo      *memoryAlertRepo
	publisher *stubPublisher
}

func newTestEnv(quote *domain.Quote) *testEnv {
	repo := &memoryAlertRepo{alerts: make(map[string]domain.Alert)}
	quotes := &stubQuoteClient{quote: quote}
	publisher := &stubPublisher{}

	prices := usecase.NewPriceUsecase(quotes)
	alerts := usecase.NewAlertUsecase(repo)
	evaluator := usecase.NewEvaluator(repo, quotes, publisher, stubMailer{}, zap.NewNop())

	return &testEnv{
		handlers:  NewHandlers(prices, alerts, evaluator, zap.NewNop()),
		repo:      repo,
		publisher: publisher,
	}
}

func testQuote() *domain.Quote {
	return &domain.Quote{
		Symbol:    "IBM",
		Timestamp: "2024-10-10 15:30:00",
		Open:      decimal.RequireFromString("145.0"),
		High:      decimal.RequireFromString("151.0"),
		Low:       decimal.RequireFromString("144.0"),
		Close:     decimal.RequireFromString("150.0"),
		History: []domain.PricePoint{
			{Timestamp: "2024-10-10 15:30:00", Close: decimal.RequireFromString("150.0")},
			{Timestamp: "2024-10-10 15:25:00", Close: decimal.RequireFromString("149.0")},
		},
	}
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) (bool, string, json.RawMessage) {
	t.Helper()
	var body struct {
		Status  bool            `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body.Status, body.Message, body.Data
}

func TestGetStockPriceCompact(t *testing.T) {
	env := newTestEnv(testQuote())

	recorder := httptest.NewRecorder()
	env.handlers.GetStockPrice(recorder, httptest.NewRequest(http.MethodGet, "/stocks/price", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	status, _, data := decodeEnvelope(t, recorder)
	assert.True(t, status)

	var price stockPriceResponse
	require.NoError(t, json.Unmarshal(data, &price))
	assert.Equal(t, "IBM", price.Symbol)
	assert.Equal(t, 150.0, price.CurrentPrice)
	assert.Equal(t, 145.0, price.OpenPrice)
	assert.Equal(t, 151.0, price.HighPrice)
	assert.Equal(t, 144.0, price.LowPrice)
	assert.Equal(t, "2024-10-10 15:30:00", price.Timestamp)
	assert.Nil(t, price.HistoricalData)
}

func TestGetStockPriceFull(t *testing.T) {
	env := newTestEnv(testQuote())

	recorder := httptest.NewRecorder()
	env.handlers.GetStockPrice(recorder, httptest.NewRequest(http.MethodGet, "/stocks/price?symbol=IBM&outputsize=full", nil))

	_, _, data := decodeEnvelope(t, recorder)
	var price stockPriceResponse
	require.NoError(t, json.Unmarshal(data, &price))
	assert.Len(t, price.HistoricalData, 2)
}

func TestGetStockPriceProviderFailure(t *testing.T) {
	env := newTestEnv(testQuote())
	quotes := &stubQuoteClient{err: fmt.Errorf("%w for symbol: NOPE", domain.ErrNoData)}
	env.handlers = NewHandlers(usecase.NewPriceUsecase(quotes), usecase.NewAlertUsecase(env.repo), nil, zap.NewNop())

	recorder := httptest.NewRecorder()
	env.handlers.GetStockPrice(recorder, httptest.NewRequest(http.MethodGet, "/stocks/price?symbol=NOPE", nil))

	require.Equal(t, http.StatusBadGateway, recorder.Code)
	status, message, data := decodeEnvelope(t, recorder)
	assert.False(t, status)
	assert.Contains(t, message, "NOPE")
	assert.Equal(t, "null", string(data))
}

func TestCreateAndListAlert(t *testing.T) {
	env := newTestEnv(testQuote())

	body := `{"stockSymbol":"aapl","targetPrice":187.5,"userEmail":"a@example.com","phoneNumber":"+15550001111"}`
	recorder := httptest.NewRecorder()
	env.handlers.CreateAlert(recorder, httptest.NewRequest(http.MethodPost, "/stocks/alert", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, recorder.Code)
	status, _, _ := decodeEnvelope(t, recorder)
	assert.True(t, status)

	recorder = httptest.NewRecorder()
	env.handlers.ListAlerts(recorder, httptest.NewRequest(http.MethodGet, "/stocks/alerts?email=a@example.com", nil))

	_, _, data := decodeEnvelope(t, recorder)
	var alerts []stockAlertResponse
	require.NoError(t, json.Unmarshal(data, &alerts))
	require.Len(t, alerts, 1)
	assert.Equal(t, "AAPL", alerts[0].Symbol)
	assert.Equal(t, "a@example.com", alerts[0].Email)
	assert.Equal(t, "187.5", alerts[0].TargetPrice)
}

func TestCreateAlertValidation(t *testing.T) {
	env := newTestEnv(testQuote())

	body := `{"stockSymbol":"AAPL","targetPrice":100}`
	recorder := httptest.NewRecorder()
	env.handlers.CreateAlert(recorder, httptest.NewRequest(http.MethodPost, "/stocks/alert", strings.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	status, _, data := decodeEnvelope(t, recorder)
	assert.False(t, status)
	assert.Equal(t, "null", string(data))
}

func TestDeleteAlertMissingKeySucceeds(t *testing.T) {
	env := newTestEnv(testQuote())

	recorder := httptest.NewRecorder()
	env.handlers.DeleteAlert(recorder, httptest.NewRequest(http.MethodDelete, "/stocks/alert?symbol=AAPL&email=a@example.com", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	status, _, _ := decodeEnvelope(t, recorder)
	assert.True(t, status)
}

func TestCheckAlertNotFound(t *testing.T) {
	env := newTestEnv(testQuote())

	recorder := httptest.NewRecorder()
	env.handlers.CheckAlert(recorder, httptest.NewRequest(http.MethodGet, "/stocks/alert/check?symbol=IBM&email=nobody@example.com", nil))

	require.Equal(t, http.StatusNotFound, recorder.Code)
	status, _, _ := decodeEnvelope(t, recorder)
	assert.False(t, status)
}

func TestCheckAlertNotifies(t *testing.T) {
	env := newTestEnv(testQuote())
	env.repo.alerts["IBM|a@example.com"] = domain.Alert{
		Symbol: "IBM", Email: "a@example.com", TargetPrice: "150",
	}

	recorder := httptest.NewRecorder()
	env.handlers.CheckAlert(recorder, httptest.NewRequest(http.MethodGet, "/stocks/alert/check?symbol=IBM&email=a@example.com", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	status, message, data := decodeEnvelope(t, recorder)
	assert.True(t, status)
	assert.Equal(t, "Notification sent.", message)

	var check alertCheckResponse
	require.NoError(t, json.Unmarshal(data, &check))
	assert.True(t, check.Notified)
	assert.Equal(t, 1, env.publisher.published)
}
