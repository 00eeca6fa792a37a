package models

import "time"

// Message direction tags.
const (
	MessageIncoming = "incoming"
	MessageOutgoing = "outgoing"
)

// Message status tags. Free-running: nothing in the core enforces a
// transition graph between them.
const (
	StatusNew        = "new"
	StatusProcessing = "processing"
	StatusBooking    = "booking"
	StatusCompleted  = "completed"
)

// Message is one unit of conversation traffic, inbound or outbound. It
// references the channel it traveled through; the channel does not own it.
// ID 0 means "not yet persisted": drivers construct messages with a zero
// ID and leave persistence to the caller.
type Message struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	ChannelID     uint   `gorm:"not null;index"`
	Content       string `gorm:"type:text;not null"`
	MessageType   string `gorm:"size:16;not null"`
	Status        string `gorm:"size:16;not null;default:new;index"`
	Metadata      string `gorm:"type:text"`
	CustomerName  string `gorm:"size:128"`
	CustomerPhone string `gorm:"size:64"`
	CustomerEmail string `gorm:"size:128"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
