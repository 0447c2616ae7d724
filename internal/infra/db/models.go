package db

import "time"

// alertModel keys on (symbol, email); the email index serves list-by-email
// lookups, mirroring the table's old secondary index.
type alertModel struct {
	Symbol      string `gorm:"primaryKey;size:32"`
	Email       string `gorm:"primaryKey;size:255;index:idx_stock_alerts_email"`
	TargetPrice string `gorm:"not null"`
	PhoneNumber string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (alertModel) TableName() string {
	return "stock_alerts"
}
