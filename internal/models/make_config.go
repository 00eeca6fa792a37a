package models

import "time"

// MakeConfig holds the optional Make.com automation settings.
type MakeConfig struct {
	ID                uint   `gorm:"primaryKey;autoIncrement"`
	Enabled           bool   `gorm:"not null;default:false"`
	APIKey            string `gorm:"size:256"`
	OrganizationID    string `gorm:"size:64"`
	DefaultScenarioID string `gorm:"size:64"`
	WebhookURLs       string `gorm:"type:text"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
