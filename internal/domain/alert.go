package domain

import "time"

// Alert is a registered target-price watch for a stock symbol. Identity is
// (Symbol, Email); saving an alert for an existing pair overwrites it.
// There is no update operation: re-create to change the target.
type Alert struct {
	Symbol      string
	Email       string
	PhoneNumber string
	TargetPrice string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
