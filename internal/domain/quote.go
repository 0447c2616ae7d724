package domain

import "github.com/shopspring/decimal"

// Defaults applied by the price source when the caller leaves a parameter empty.
const (
	DefaultSymbol   = "IBM"
	DefaultInterval = "5min"

	OutputCompact = "compact"
	OutputFull    = "full"
)

// Quote is the latest known price for a symbol. Timestamp is the provider's
// own timestamp string, kept verbatim. Close is the value the rest of the
// system treats as "current price"; a quote without it is never produced.
type Quote struct {
	Symbol    string
	Timestamp string
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal

	// History holds the full series in provider order, only when the full
	// output size was requested.
	History []PricePoint
}

type PricePoint struct {
	Timestamp string
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
}
