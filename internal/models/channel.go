package models

import "time"

// Channel type tags. The set is closed: the driver factory rejects
// anything outside it.
const (
	ChannelWhatsApp  = "whatsapp"
	ChannelTelegram  = "telegram"
	ChannelSMS       = "sms"
	ChannelTikTok    = "tiktok"
	ChannelLinkedIn  = "linkedin"
	ChannelMessenger = "messenger"
	ChannelInstagram = "instagram"
	ChannelTwitter   = "twitter"
	ChannelYouTube   = "youtube"
	ChannelReddit    = "reddit"
	ChannelDiscord   = "discord"
	ChannelLetgo     = "letgo"
)

// KnownChannelTypes lists every supported channel type tag.
var KnownChannelTypes = []string{
	ChannelWhatsApp, ChannelTelegram, ChannelSMS, ChannelTikTok,
	ChannelLinkedIn, ChannelMessenger, ChannelInstagram, ChannelTwitter,
	ChannelYouTube, ChannelReddit, ChannelDiscord, ChannelLetgo,
}

// Channel is a configured connection to one external messaging platform.
// Credentials and Config are opaque JSON documents; the per-type required
// credential fields are enforced by the matching driver before the channel
// may be activated.
type Channel struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"size:128;not null"`
	Type        string `gorm:"size:32;not null;index"`
	Credentials string `gorm:"type:text;not null"`
	Config      string `gorm:"type:text"`
	IsActive    bool   `gorm:"default:false;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
