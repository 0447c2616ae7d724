package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/nbotorog/stockwatch/internal/domain"
)

// apiResponse is the envelope every endpoint answers with.
type apiResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// stockAlertRequest is the create-alert body. The wire keeps the original
// userEmail field name; internally the canonical field is email.
type stockAlertRequest struct {
	StockSymbol string  `json:"stockSymbol"`
	TargetPrice float64 `json:"targetPrice"`
	UserEmail   string  `json:"userEmail"`
	PhoneNumber string  `json:"phoneNumber"`
}

type stockAlertResponse struct {
	Symbol      string `json:"symbol"`
	Email       string `json:"email"`
	TargetPrice string `json:"targetPrice"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

type stockPriceResponse struct {
	Symbol         string                 `json:"symbol"`
	CurrentPrice   float64                `json:"currentPrice"`
	Timestamp      string                 `json:"timestamp"`
	OpenPrice      float64                `json:"openPrice"`
	HighPrice      float64                `json:"highPrice"`
	LowPrice       float64                `json:"lowPrice"`
	HistoricalData []historicalStockPrice `json:"historicalData"`
}

type historicalStockPrice struct {
	Timestamp  string  `json:"timestamp"`
	OpenPrice  float64 `json:"openPrice"`
	HighPrice  float64 `json:"highPrice"`
	LowPrice   float64 `json:"lowPrice"`
	ClosePrice float64 `json:"closePrice"`
}

type alertCheckResponse struct {
	Notified bool `json:"notified"`
}

func mapQuoteToResponse(quote *domain.Quote) stockPriceResponse {
	response := stockPriceResponse{
		Symbol:       quote.Symbol,
		CurrentPrice: quote.Close.InexactFloat64(),
		Timestamp:    quote.Timestamp,
		OpenPrice:    quote.Open.InexactFloat64(),
		HighPrice:    quote.High.InexactFloat64(),
		LowPrice:     quote.Low.InexactFloat64(),
	}
	for _, point := range quote.History {
		response.HistoricalData = append(response.HistoricalData, historicalStockPrice{
			Timestamp:  point.Timestamp,
			OpenPrice:  point.Open.InexactFloat64(),
			HighPrice:  point.High.InexactFloat64(),
			LowPrice:   point.Low.InexactFloat64(),
			ClosePrice: point.Close.InexactFloat64(),
		})
	}
	return response
}

func mapAlertToResponse(alert domain.Alert) stockAlertResponse {
	return stockAlertResponse{
		Symbol:      alert.Symbol,
		Email:       alert.Email,
		TargetPrice: alert.TargetPrice,
		PhoneNumber: alert.PhoneNumber,
	}
}

func respondOK(w http.ResponseWriter, message string, data any) {
	respond(w, http.StatusOK, apiResponse{Status: true, Message: message, Data: data})
}

func respondError(w http.ResponseWriter, code int, message string) {
	respond(w, code, apiResponse{Status: false, Message: message, Data: nil})
}

func respond(w http.ResponseWriter, code int, body apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
