package models

import "time"

// AIConfig holds settings for the AI chat responder.
type AIConfig struct {
	ID                 uint    `gorm:"primaryKey;autoIncrement"`
	ModelType          string  `gorm:"size:64;not null"`
	Temperature        float64 `gorm:"not null"`
	APIKey             string  `gorm:"size:256;not null"`
	MaxTokens          int     `gorm:"default:2000"`
	CustomInstructions string  `gorm:"type:text"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
