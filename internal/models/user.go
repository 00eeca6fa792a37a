package models

// User is a dashboard account. Authentication is out of scope; the API
// auto-provisions a default user on first request.
type User struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Username  string `gorm:"size:64;not null;uniqueIndex"`
	Password  string `gorm:"size:128;not null"`
	AvatarURL string `gorm:"size:256"`
}
