package models

import "time"

// Operator is a back-office account for the management console and the
// live dashboard feed. Card and reader endpoints stay unauthenticated;
// operators only gate the administrative surface.
type Operator struct {
	ID         uint   `gorm:"primaryKey"`
	OperatorID string `gorm:"uniqueIndex"`
	FullName   string
	Email      string `gorm:"uniqueIndex"`
	Password   string
	Role       string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
