package models

import "time"

// TransactionLog is an append-only ledger row. Amount keeps the raw value
// from the request: recharges add it to the balance, card transactions
// subtract it, but the stored amount is the request value either way.
type TransactionLog struct {
	TID       uint      `gorm:"primaryKey;autoIncrement" json:"tid"`
	UID       string    `gorm:"size:50;not null;index" json:"uid"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
}

func (TransactionLog) TableName() string { return "transaction_logs" }
