package models

import "time"

// TrainingDocument is an uploaded document used to tune the AI responder.
// Ingestion itself happens outside this service; we only track status.
type TrainingDocument struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	FileName     string `gorm:"size:256;not null"`
	FileType     string `gorm:"size:32;not null"`
	TrainingMode string `gorm:"size:32;not null"`
	Status       string `gorm:"size:16;not null;default:pending"`
	Content      string `gorm:"type:text;not null"`
	Metadata     string `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
