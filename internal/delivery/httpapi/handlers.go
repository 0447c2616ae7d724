package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nbotorog/stockwatch/internal/domain"
	"github.com/nbotorog/stockwatch/internal/usecase"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Handlers struct {
	prices    *usecase.PriceUsecase
	alerts    *usecase.AlertUsecase
	evaluator *usecase.Evaluator
	logger    *zap.Logger
}

func NewHandlers(prices *usecase.PriceUsecase, alerts *usecase.AlertUsecase, evaluator *usecase.Evaluator, logger *zap.Logger) *Handlers {
	return &Handlers{prices: prices, alerts: alerts, evaluator: evaluator, logger: logger}
}

func (h *Handlers) GetStockPrice(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	quote, err := h.prices.GetPrice(r.Context(), query.Get("symbol"), query.Get("interval"), query.Get("outputsize"))
	if err != nil {
		h.writeError(w, err, "Failed to fetch stock price.")
		return
	}
	respondOK(w, "Stock price fetched successfully", mapQuoteToResponse(quote))
}

func (h *Handlers) ListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alerts.ListByEmail(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		h.writeError(w, err, "Failed to fetch alerts")
		return
	}

	data := make([]stockAlertResponse, 0, len(alerts))
	for _, alert := range alerts {
		data = append(data, mapAlertToResponse(alert))
	}
	respondOK(w, "Alerts fetched successfully", data)
}

func (h *Handlers) CreateAlert(w http.ResponseWriter, r *http.Request) {
	var request stockAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	alert, err := h.alerts.Create(
		r.Context(),
		request.StockSymbol,
		request.UserEmail,
		request.PhoneNumber,
		decimal.NewFromFloat(request.TargetPrice),
	)
	if err != nil {
		h.writeError(w, err, "Failed to create alert.")
		return
	}
	respondOK(w, "Alert created successfully.", mapAlertToResponse(*alert))
}

func (h *Handlers) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if err := h.alerts.Delete(r.Context(), query.Get("symbol"), query.Get("email")); err != nil {
		h.writeError(w, err, "Failed to delete alert.")
		return
	}
	respondOK(w, "Alert deleted successfully.", nil)
}

func (h *Handlers) CheckAlert(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	notified, err := h.evaluator.CheckAndNotify(r.Context(), query.Get("symbol"), query.Get("email"))
	if err != nil {
		h.writeError(w, err, "Failed to check alert.")
		return
	}

	message := "Target price not reached."
	if notified {
		message = "Notification sent."
	}
	respondOK(w, message, alertCheckResponse{Notified: notified})
}

// writeError maps a usecase or domain error onto the response envelope.
// Internal detail never reaches the caller: unknown errors get the fallback
// message and a 500.
func (h *Handlers) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidSymbol),
		errors.Is(err, usecase.ErrInvalidEmail),
		errors.Is(err, usecase.ErrInvalidTargetPrice):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, usecase.ErrAlertNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNoData), errors.Is(err, domain.ErrIncompleteData):
		respondError(w, http.StatusBadGateway, err.Error())
	default:
		h.logger.Error("request failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
