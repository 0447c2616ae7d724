package alphavantage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/nbotorog/stockwatch/internal/domain"
	"go.uber.org/zap"
)

// Client fetches intraday time series from the Alpha Vantage query endpoint.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *Client) Quote(ctx context.Context, symbol, interval, outputSize string) (*domain.Quote, error) {
	symbol = orDefault(symbol, domain.DefaultSymbol)
	interval = orDefault(interval, domain.DefaultInterval)
	outputSize = orDefault(outputSize, domain.OutputCompact)

	endpoint := c.requestURL(symbol, interval, outputSize)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	c.logger.Debug("stock api request start", zap.String("symbol", symbol), zap.String("interval", interval), zap.String("outputsize", outputSize))
	response, err := c.client.Do(request)
	if err != nil {
		c.logger.Error("stock api request failed", zap.String("symbol", symbol), zap.Error(err))
		return nil, fmt.Errorf("fetch stock data for %s: %w", symbol, err)
	}
	defer response.Body.Close()

	c.logger.Debug(
		"stock api request complete",
		zap.String("symbol", symbol),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch stock data for %s: status %d", symbol, response.StatusCode)
	}

	series, err := parseSeries(response.Body, interval)
	if err != nil {
		return nil, fmt.Errorf("fetch stock data for %s: %w", symbol, err)
	}

	return buildQuote(symbol, outputSize, series)
}

func (c *Client) requestURL(symbol, interval, outputSize string) string {
	query := url.Values{}
	query.Set("function", "TIME_SERIES_INTRADAY")
	query.Set("symbol", symbol)
	query.Set("interval", interval)
	query.Set("outputsize", outputSize)
	query.Set("apikey", c.apiKey)
	return c.baseURL + "?" + query.Encode()
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
