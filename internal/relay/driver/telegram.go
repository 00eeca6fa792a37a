package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/alleyops/switchboard/internal/models"
)

// telegramAPI abstracts the Bot API client methods we use, enabling test mocks.
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram delivers messages through the Telegram Bot API. The recipient
// key is the numeric chat id, carried in Message.CustomerPhone.
type Telegram struct {
	channel *models.Channel
	api     telegramAPI // lazily created from credentials; injectable in tests
}

func newTelegram(ch *models.Channel) *Telegram {
	return &Telegram{channel: ch}
}

func (d *Telegram) Type() string { return models.ChannelTelegram }

// ValidateCredentials checks the structural required fields and that the
// webhook URL actually parses as an absolute URL.
func (d *Telegram) ValidateCredentials(ctx context.Context) bool {
	if !hasRequiredFields(d.channel.Credentials, requiredFields[models.ChannelTelegram]) {
		return false
	}
	var creds TelegramCredentials
	if err := json.Unmarshal([]byte(d.channel.Credentials), &creds); err != nil {
		return false
	}
	u, err := url.Parse(creds.WebhookURL)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func (d *Telegram) FormatOutgoing(msg *models.Message) (any, error) {
	chatID, err := strconv.ParseInt(msg.CustomerPhone, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("telegram: recipient %q is not a chat id: %w", msg.CustomerPhone, err)
	}
	return tgbotapi.NewMessage(chatID, msg.Content), nil
}

func (d *Telegram) ParseIncoming(raw []byte) (*models.Message, error) {
	var update tgbotapi.Update
	if err := json.Unmarshal(raw, &update); err != nil {
		return nil, fmt.Errorf("telegram: %w: %v", ErrInvalidPayload, err)
	}
	if update.Message == nil || update.Message.Text == "" || update.Message.From == nil || update.Message.Chat == nil {
		return nil, fmt.Errorf("telegram: %w: missing message, text, or sender", ErrInvalidPayload)
	}

	msg := newIncoming(d.channel.ID, update.Message.Text)
	msg.CustomerPhone = strconv.FormatInt(update.Message.Chat.ID, 10)
	msg.CustomerName = update.Message.From.UserName
	if msg.CustomerName == "" {
		msg.CustomerName = update.Message.From.FirstName
	}
	msg.Metadata = metadataJSON(map[string]string{
		"telegramUpdateId":  strconv.Itoa(update.UpdateID),
		"telegramMessageId": strconv.Itoa(update.Message.MessageID),
		"chatId":            strconv.FormatInt(update.Message.Chat.ID, 10),
	})
	return msg, nil
}

func (d *Telegram) Send(ctx context.Context, msg *models.Message) error {
	if d.api == nil {
		var creds TelegramCredentials
		if err := json.Unmarshal([]byte(d.channel.Credentials), &creds); err != nil {
			return fmt.Errorf("telegram: decode credentials: %w", err)
		}
		bot, err := tgbotapi.NewBotAPIWithClient(creds.BotToken, tgbotapi.APIEndpoint, defaultHTTPClient)
		if err != nil {
			return fmt.Errorf("telegram: bot init: %w", err)
		}
		d.api = bot
	}

	out, err := d.FormatOutgoing(msg)
	if err != nil {
		return err
	}
	if _, err := d.api.Send(out.(tgbotapi.Chattable)); err != nil {
		return fmt.Errorf("telegram: send: %w", err)
	}
	return nil
}
