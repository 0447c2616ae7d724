package usecase

import (
	"context"

	"github.com/nbotorog/stockwatch/internal/domain"
)

type PriceUsecase struct {
	quotes domain.QuoteClient
}

func NewPriceUsecase(quotes domain.QuoteClient) *PriceUsecase {
	return &PriceUsecase{quotes: quotes}
}

func (u *PriceUsecase) GetPrice(ctx context.Context, symbol, interval, outputSize string) (*domain.Quote, error) {
	return u.quotes.Quote(ctx, symbol, interval, outputSize)
}
