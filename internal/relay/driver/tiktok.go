package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/alleyops/switchboard/internal/models"
)

// tiktokSendURL is the TikTok Business messaging endpoint.
const tiktokSendURL = "https://open.tiktokapis.com/v2/business/messages/send"

// TikTok delivers messages through the TikTok Business API. The recipient
// key is the TikTok user id, carried in Message.CustomerPhone.
type TikTok struct {
	channel *models.Channel
	client  *http.Client
	sendURL string
}

func newTikTok(ch *models.Channel) *TikTok {
	return &TikTok{channel: ch, client: defaultHTTPClient, sendURL: tiktokSendURL}
}

func (d *TikTok) Type() string { return models.ChannelTikTok }

func (d *TikTok) ValidateCredentials(ctx context.Context) bool {
	return hasRequiredFields(d.channel.Credentials, requiredFields[models.ChannelTikTok])
}

type tiktokPayload struct {
	MessageType string `json:"message_type"`
	RecipientID string `json:"recipient_id"`
	Text        string `json:"text"`
}

func (d *TikTok) FormatOutgoing(msg *models.Message) (any, error) {
	return tiktokPayload{
		MessageType: "text",
		RecipientID: msg.CustomerPhone,
		Text:        msg.Content,
	}, nil
}

func (d *TikTok) ParseIncoming(raw []byte) (*models.Message, error) {
	var payload struct {
		MessageID string `json:"message_id"`
		Text      string `json:"text"`
		Sender    *struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"sender"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("tiktok: %w: %v", ErrInvalidPayload, err)
	}
	if payload.Sender == nil || payload.Text == "" {
		return nil, fmt.Errorf("tiktok: %w: missing sender or text", ErrInvalidPayload)
	}

	msg := newIncoming(d.channel.ID, payload.Text)
	msg.CustomerName = payload.Sender.Username
	msg.CustomerPhone = payload.Sender.ID
	msg.Metadata = metadataJSON(map[string]string{
		"tiktokMessageId": payload.MessageID,
		"senderId":        payload.Sender.ID,
	})
	return msg, nil
}

func (d *TikTok) Send(ctx context.Context, msg *models.Message) error {
	var creds TikTokCredentials
	if err := json.Unmarshal([]byte(d.channel.Credentials), &creds); err != nil {
		return fmt.Errorf("tiktok: decode credentials: %w", err)
	}

	payload, err := d.FormatOutgoing(msg)
	if err != nil {
		return err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("tiktok: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.sendURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("tiktok: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-Key", creds.ClientKey)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("tiktok: send: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("tiktok: send: unexpected status %s", resp.Status)
	}
	return nil
}
