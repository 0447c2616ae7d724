package db

import (
	"context"
	"errors"

	"github.com/nbotorog/stockwatch/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) Save(ctx context.Context, alert *domain.Alert) error {
	model := mapAlertToModel(*alert)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}, {Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"target_price", "phone_number", "updated_at"}),
		}).
		Create(&model).Error
	if err != nil {
		return err
	}
	alert.CreatedAt = model.CreatedAt
	alert.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *AlertRepository) Get(ctx context.Context, symbol, email string) (*domain.Alert, error) {
	var model alertModel
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND email = ?", symbol, email).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	alert := mapAlertToDomain(model)
	return &alert, nil
}

// Delete removes the alert for (symbol, email). A missing key is not an
// error: zero rows affected means there was nothing to delete.
func (r *AlertRepository) Delete(ctx context.Context, symbol, email string) error {
	return r.db.WithContext(ctx).
		Where("symbol = ? AND email = ?", symbol, email).
		Delete(&alertModel{}).Error
}

func (r *AlertRepository) ListByEmail(ctx context.Context, email string) ([]domain.Alert, error) {
	var models []alertModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).Order("symbol").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAlertsToDomain(models), nil
}

func (r *AlertRepository) ListAll(ctx context.Context) ([]domain.Alert, error) {
	var models []alertModel
	if err := r.db.WithContext(ctx).Order("symbol").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAlertsToDomain(models), nil
}

func mapAlertsToDomain(models []alertModel) []domain.Alert {
	alerts := make([]domain.Alert, 0, len(models))
	for _, model := range models {
		alerts = append(alerts, mapAlertToDomain(model))
	}
	return alerts
}

func mapAlertToDomain(model alertModel) domain.Alert {
	return domain.Alert{
		Symbol:      model.Symbol,
		Email:       model.Email,
		PhoneNumber: model.PhoneNumber,
		TargetPrice: model.TargetPrice,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func mapAlertToModel(alert domain.Alert) alertModel {
	return alertModel{
		Symbol:      alert.Symbol,
		Email:       alert.Email,
		PhoneNumber: alert.PhoneNumber,
		TargetPrice: alert.TargetPrice,
		CreatedAt:   alert.CreatedAt,
		UpdatedAt:   alert.UpdatedAt,
	}
}
