package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrNoData means the provider returned no time series for the symbol.
	ErrNoData = errors.New("no time series data available")

	// ErrIncompleteData means a series was present but the close price was
	// missing, so no usable quote can be built.
	ErrIncompleteData = errors.New("incomplete stock data")
)

type AlertRepository interface {
	// Save upserts on the (symbol, email) key.
	Save(ctx context.Context, alert *Alert) error
	Get(ctx context.Context, symbol, email string) (*Alert, error)
	// Delete is a no-op when the key does not exist.
	Delete(ctx context.Context, symbol, email string) error
	ListByEmail(ctx context.Context, email string) ([]Alert, error)
	ListAll(ctx context.Context) ([]Alert, error)
}

type QuoteClient interface {
	// Quote resolves the latest price for symbol. Empty symbol, interval or
	// outputSize fall back to the provider defaults. The full output size
	// additionally populates Quote.History.
	Quote(ctx context.Context, symbol, interval, outputSize string) (*Quote, error)
}
