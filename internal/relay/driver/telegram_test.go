package driver

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/alleyops/switchboard/internal/models"
)

type fakeTelegramAPI struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeTelegramAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: 1}, nil
}

func testTelegram() *Telegram {
	return newTelegram(&models.Channel{
		ID:          9,
		Type:        models.ChannelTelegram,
		Credentials: `{"botToken":"123:abc","webhookUrl":"https://example.com/hook"}`,
	})
}

func TestTelegram_FormatOutgoing(t *testing.T) {
	d := testTelegram()

	out, err := d.FormatOutgoing(&models.Message{Content: "hello", CustomerPhone: "123456789"})
	if err != nil {
		t.Fatalf("FormatOutgoing: %v", err)
	}
	cfg, ok := out.(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("payload type %T", out)
	}
	if cfg.ChatID != 123456789 || cfg.Text != "hello" {
		t.Errorf("got chat %d text %q", cfg.ChatID, cfg.Text)
	}
}

func TestTelegram_FormatOutgoing_BadChatID(t *testing.T) {
	d := testTelegram()

	if _, err := d.FormatOutgoing(&models.Message{Content: "hi", CustomerPhone: "not-a-number"}); err == nil {
		t.Error("non-numeric recipient accepted")
	}
}

func TestTelegram_ParseIncoming(t *testing.T) {
	d := testTelegram()

	raw := `{
		"update_id": 42,
		"message": {
			"message_id": 7,
			"from": {"id": 11, "username": "dana"},
			"chat": {"id": 123456789},
			"text": "what are your hours?"
		}
	}`
	msg, err := d.ParseIncoming([]byte(raw))
	if err != nil {
		t.Fatalf("ParseIncoming: %v", err)
	}
	if msg.Content != "what are your hours?" {
		t.Errorf("Content = %q", msg.Content)
	}
	if msg.CustomerPhone != "123456789" {
		t.Errorf("CustomerPhone = %q", msg.CustomerPhone)
	}
	if msg.CustomerName != "dana" {
		t.Errorf("CustomerName = %q", msg.CustomerName)
	}
}

func TestTelegram_ParseIncoming_MissingText(t *testing.T) {
	d := testTelegram()

	raw := `{"update_id": 42, "message": {"message_id": 7, "chat": {"id": 1}}}`
	if _, err := d.ParseIncoming([]byte(raw)); !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("error = %v, want ErrInvalidPayload", err)
	}
}

func TestTelegram_Send(t *testing.T) {
	d := testTelegram()
	api := &fakeTelegramAPI{}
	d.api = api

	err := d.Send(context.Background(), &models.Message{Content: "hello", CustomerPhone: "123456789"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(api.sent) != 1 {
		t.Fatalf("sent %d messages", len(api.sent))
	}
	cfg := api.sent[0].(tgbotapi.MessageConfig)
	if cfg.ChatID != 123456789 || cfg.Text != "hello" {
		t.Errorf("sent chat %d text %q", cfg.ChatID, cfg.Text)
	}
}

func TestTelegram_Send_APIError(t *testing.T) {
	d := testTelegram()
	d.api = &fakeTelegramAPI{err: errors.New("telegram down")}

	if err := d.Send(context.Background(), &models.Message{Content: "hi", CustomerPhone: "1"}); err == nil {
		t.Error("Send succeeded despite API error")
	}
}
