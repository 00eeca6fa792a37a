package models

import "time"

// MCPConfig holds the optional Model Context Protocol endpoint settings.
type MCPConfig struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Enabled   bool   `gorm:"not null;default:false"`
	Endpoint  string `gorm:"size:256"`
	APIKey    string `gorm:"size:256"`
	Protocol  string `gorm:"size:32;not null;default:standard"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
