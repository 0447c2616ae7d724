package alphavantage

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/nbotorog/stockwatch/internal/domain"
	"github.com/shopspring/decimal"
)

// rawBar carries one time-series entry. The provider sends every price as a
// string under its numbered field name.
type rawBar struct {
	Open  string `json:"1. open"`
	High  string `json:"2. high"`
	Low   string `json:"3. low"`
	Close string `json:"4. close"`
}

type seriesEntry struct {
	Timestamp string
	Bar       rawBar
}

// parseSeries extracts the "Time Series (<interval>)" member, preserving the
// provider's document order. The provider lists entries newest first and the
// first entry is what everything downstream treats as current, so decoding
// into a Go map would destroy the one ordering we depend on.
func parseSeries(r io.Reader, interval string) ([]seriesEntry, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("decode response: unexpected token %v", tok)
	}

	seriesKey := fmt.Sprintf("Time Series (%s)", interval)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("decode response: unexpected token %v", tok)
		}
		if key != seriesKey {
			var skipped json.RawMessage
			if err := dec.Decode(&skipped); err != nil {
				return nil, fmt.Errorf("decode response: %w", err)
			}
			continue
		}
		return decodeSeriesObject(dec)
	}

	return nil, nil
}

func decodeSeriesObject(dec *json.Decoder) ([]seriesEntry, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode time series: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("decode time series: unexpected token %v", tok)
	}

	var entries []seriesEntry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode time series: %w", err)
		}
		timestamp, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("decode time series: unexpected token %v", tok)
		}

		var bar rawBar
		if err := dec.Decode(&bar); err != nil {
			return nil, fmt.Errorf("decode time series entry %q: %w", timestamp, err)
		}
		entries = append(entries, seriesEntry{Timestamp: timestamp, Bar: bar})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode time series: %w", err)
	}
	return entries, nil
}

// buildQuote turns the raw series into a domain quote. The close price of the
// latest entry is mandatory; open, high and low fall back to zero when the
// provider omits them.
func buildQuote(symbol, outputSize string, series []seriesEntry) (*domain.Quote, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("%w for symbol: %s", domain.ErrNoData, symbol)
	}

	latest := series[0]
	closePrice, err := mandatoryPrice(latest.Bar.Close)
	if err != nil {
		return nil, fmt.Errorf("%w for symbol: %s", domain.ErrIncompleteData, symbol)
	}

	quote := &domain.Quote{
		Symbol:    symbol,
		Timestamp: latest.Timestamp,
		Open:      optionalPrice(latest.Bar.Open),
		High:      optionalPrice(latest.Bar.High),
		Low:       optionalPrice(latest.Bar.Low),
		Close:     closePrice,
	}

	if strings.EqualFold(outputSize, domain.OutputFull) {
		quote.History = make([]domain.PricePoint, 0, len(series))
		for _, entry := range series {
			quote.History = append(quote.History, domain.PricePoint{
				Timestamp: entry.Timestamp,
				Open:      optionalPrice(entry.Bar.Open),
				High:      optionalPrice(entry.Bar.High),
				Low:       optionalPrice(entry.Bar.Low),
				Close:     optionalPrice(entry.Bar.Close),
			})
		}
	}

	return quote, nil
}

func mandatoryPrice(value string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, fmt.Errorf("missing price")
	}
	return decimal.NewFromString(strings.TrimSpace(value))
}

func optionalPrice(value string) decimal.Decimal {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Zero
	}
	price, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero
	}
	return price
}
