package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/alleyops/switchboard/internal/models"
)

// whatsappAPIBase is the Meta Graph API root for WhatsApp Business sends.
const whatsappAPIBase = "https://graph.facebook.com/v18.0"

// WhatsApp delivers messages through the WhatsApp Business Cloud API.
type WhatsApp struct {
	channel *models.Channel
	client  *http.Client
	apiBase string
}

func newWhatsApp(ch *models.Channel) *WhatsApp {
	return &WhatsApp{channel: ch, client: defaultHTTPClient, apiBase: whatsappAPIBase}
}

func (d *WhatsApp) Type() string { return models.ChannelWhatsApp }

func (d *WhatsApp) ValidateCredentials(ctx context.Context) bool {
	return hasRequiredFields(d.channel.Credentials, requiredFields[models.ChannelWhatsApp])
}

// whatsappPayload is the Graph API text-message envelope.
type whatsappPayload struct {
	MessagingProduct string       `json:"messaging_product"`
	RecipientType    string       `json:"recipient_type"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             whatsappText `json:"text"`
}

type whatsappText struct {
	Body string `json:"body"`
}

func (d *WhatsApp) FormatOutgoing(msg *models.Message) (any, error) {
	return whatsappPayload{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               msg.CustomerPhone,
		Type:             "text",
		Text:             whatsappText{Body: msg.Content},
	}, nil
}

func (d *WhatsApp) ParseIncoming(raw []byte) (*models.Message, error) {
	var payload struct {
		Entry []struct {
			Changes []struct {
				Value struct {
					Messages []struct {
						ID        string `json:"id"`
						From      string `json:"from"`
						Timestamp string `json:"timestamp"`
						Text      *struct {
							Body string `json:"body"`
						} `json:"text"`
					} `json:"messages"`
					Contacts []struct {
						Profile struct {
							Name string `json:"name"`
						} `json:"profile"`
					} `json:"contacts"`
				} `json:"value"`
			} `json:"changes"`
		} `json:"entry"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("whatsapp: %w: %v", ErrInvalidPayload, err)
	}
	if len(payload.Entry) == 0 || len(payload.Entry[0].Changes) == 0 {
		return nil, fmt.Errorf("whatsapp: %w: missing entry", ErrInvalidPayload)
	}
	value := payload.Entry[0].Changes[0].Value
	if len(value.Messages) == 0 {
		return nil, fmt.Errorf("whatsapp: %w: missing messages[0]", ErrInvalidPayload)
	}
	inbound := value.Messages[0]

	var body string
	if inbound.Text != nil {
		body = inbound.Text.Body
	}
	msg := newIncoming(d.channel.ID, body)
	msg.CustomerPhone = inbound.From
	if len(value.Contacts) > 0 {
		msg.CustomerName = value.Contacts[0].Profile.Name
	}
	msg.Metadata = metadataJSON(map[string]string{
		"whatsappMessageId": inbound.ID,
		"timestamp":         inbound.Timestamp,
	})
	return msg, nil
}

func (d *WhatsApp) Send(ctx context.Context, msg *models.Message) error {
	var creds WhatsAppCredentials
	if err := json.Unmarshal([]byte(d.channel.Credentials), &creds); err != nil {
		return fmt.Errorf("whatsapp: decode credentials: %w", err)
	}

	payload, err := d.FormatOutgoing(msg)
	if err != nil {
		return err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("whatsapp: encode payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", d.apiBase, creds.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("whatsapp: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: send: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("whatsapp: send: unexpected status %s", resp.Status)
	}
	return nil
}
