package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/nbotorog/stockwatch/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidSymbol      = errors.New("stock symbol is required")
	ErrInvalidEmail       = errors.New("email is required")
	ErrInvalidTargetPrice = errors.New("target price must be greater than zero")
	ErrAlertNotFound      = errors.New("alert not found")
)

// AlertUsecase is the registry over the alert store: create, delete and list.
type AlertUsecase struct {
	alerts domain.AlertRepository
}

func NewAlertUsecase(alerts domain.AlertRepository) *AlertUsecase {
	return &AlertUsecase{alerts: alerts}
}

func (u *AlertUsecase) Create(ctx context.Context, symbol, email, phoneNumber string, targetPrice decimal.Decimal) (*domain.Alert, error) {
	symbol, email, err := normalizeKey(symbol, email)
	if err != nil {
		return nil, err
	}
	if targetPrice.Sign() <= 0 {
		return nil, ErrInvalidTargetPrice
	}

	alert := &domain.Alert{
		Symbol:      symbol,
		Email:       email,
		PhoneNumber: strings.TrimSpace(phoneNumber),
		TargetPrice: targetPrice.String(),
	}
	if err := u.alerts.Save(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// Delete removes an alert. Deleting a key that does not exist succeeds.
func (u *AlertUsecase) Delete(ctx context.Context, symbol, email string) error {
	symbol, email, err := normalizeKey(symbol, email)
	if err != nil {
		return err
	}
	return u.alerts.Delete(ctx, symbol, email)
}

func (u *AlertUsecase) ListByEmail(ctx context.Context, email string) ([]domain.Alert, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrInvalidEmail
	}
	return u.alerts.ListByEmail(ctx, email)
}

func (u *AlertUsecase) Get(ctx context.Context, symbol, email string) (*domain.Alert, error) {
	symbol, email, err := normalizeKey(symbol, email)
	if err != nil {
		return nil, err
	}
	alert, err := u.alerts.Get(ctx, symbol, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrAlertNotFound
		}
		return nil, err
	}
	return alert, nil
}

func normalizeKey(symbol, email string) (string, string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return "", "", ErrInvalidSymbol
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return "", "", ErrInvalidEmail
	}
	return symbol, email, nil
}
