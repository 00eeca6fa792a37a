package driver

import "encoding/json"

// requiredFields maps each channel type to the credential fields that must
// be present (and non-empty) before the channel may be activated. This is
// the structural check; drivers that decode credentials also get type-level
// enforcement through the typed structs below.
var requiredFields = map[string][]string{
	"whatsapp":  {"apiKey", "phoneNumberId", "businessAccountId"},
	"telegram":  {"botToken", "webhookUrl"},
	"sms":       {"accountSid", "authToken", "phoneNumber"},
	"tiktok":    {"accessToken", "clientKey", "clientSecret"},
	"linkedin":  {"accessToken", "organizationId"},
	"messenger": {"accessToken", "pageId"},
	"instagram": {"accessToken", "userId"},
	"twitter":   {"apiKey", "apiSecret", "accessToken", "accessSecret"},
	"youtube":   {"apiKey", "channelId"},
	"reddit":    {"clientId", "clientSecret", "username", "password"},
	"discord":   {"botToken", "clientId", "clientSecret"},
	"letgo":     {"apiKey", "secret", "marketplaceId"},
}

// RequiredFields returns the credential fields a channel type requires,
// or nil for an unknown type. The returned slice must not be mutated.
func RequiredFields(channelType string) []string {
	return requiredFields[channelType]
}

// hasRequiredFields reports whether the raw credential JSON contains a
// non-empty value for every listed field. Malformed JSON fails closed.
func hasRequiredFields(raw string, fields []string) bool {
	var creds map[string]any
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return false
	}
	for _, field := range fields {
		v, ok := creds[field]
		if !ok || v == nil {
			return false
		}
		if s, isString := v.(string); isString && s == "" {
			return false
		}
	}
	return true
}

// Typed credential payloads for the drivers with a wired send path. Decoded
// from Channel.Credentials so missing-field bugs surface at the type level,
// not just in the runtime structural check.

// WhatsAppCredentials authenticates against the Meta Graph API.
type WhatsAppCredentials struct {
	APIKey            string `json:"apiKey"`
	PhoneNumberID     string `json:"phoneNumberId"`
	BusinessAccountID string `json:"businessAccountId"`
}

// TelegramCredentials authenticates against the Telegram Bot API.
type TelegramCredentials struct {
	BotToken   string `json:"botToken"`
	WebhookURL string `json:"webhookUrl"`
}

// TwilioCredentials authenticates against the Twilio Messages API.
type TwilioCredentials struct {
	AccountSID  string `json:"accountSid"`
	AuthToken   string `json:"authToken"`
	PhoneNumber string `json:"phoneNumber"`
}

// TikTokCredentials authenticates against the TikTok Business API.
type TikTokCredentials struct {
	AccessToken  string `json:"accessToken"`
	ClientKey    string `json:"clientKey"`
	ClientSecret string `json:"clientSecret"`
}

// LinkedInCredentials authenticates against the LinkedIn REST API.
type LinkedInCredentials struct {
	AccessToken    string `json:"accessToken"`
	OrganizationID string `json:"organizationId"`
}

// MessengerCredentials authenticates a Facebook page against the Send API.
type MessengerCredentials struct {
	AccessToken string `json:"accessToken"`
	PageID      string `json:"pageId"`
}

// DiscordCredentials authenticates a Discord bot.
type DiscordCredentials struct {
	BotToken     string `json:"botToken"`
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}
