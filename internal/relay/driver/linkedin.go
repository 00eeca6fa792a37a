package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/alleyops/switchboard/internal/models"
)

// linkedinSendURL is the LinkedIn messages endpoint.
const linkedinSendURL = "https://api.linkedin.com/v2/messages"

// LinkedIn delivers messages through the LinkedIn REST API. The recipient
// key is the LinkedIn member id, carried in Message.CustomerPhone.
type LinkedIn struct {
	channel *models.Channel
	client  *http.Client
	sendURL string
}

func newLinkedIn(ch *models.Channel) *LinkedIn {
	return &LinkedIn{channel: ch, client: defaultHTTPClient, sendURL: linkedinSendURL}
}

func (d *LinkedIn) Type() string { return models.ChannelLinkedIn }

func (d *LinkedIn) ValidateCredentials(ctx context.Context) bool {
	return hasRequiredFields(d.channel.Credentials, requiredFields[models.ChannelLinkedIn])
}

type linkedinPayload struct {
	Text      string `json:"text"`
	Recipient string `json:"recipient"`
}

func (d *LinkedIn) FormatOutgoing(msg *models.Message) (any, error) {
	return linkedinPayload{
		Text:      msg.Content,
		Recipient: msg.CustomerPhone,
	}, nil
}

func (d *LinkedIn) ParseIncoming(raw []byte) (*models.Message, error) {
	var payload struct {
		ID     string `json:"id"`
		Text   string `json:"text"`
		Sender *struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"sender"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("linkedin: %w: %v", ErrInvalidPayload, err)
	}
	if payload.Sender == nil || payload.Text == "" {
		return nil, fmt.Errorf("linkedin: %w: missing sender or text", ErrInvalidPayload)
	}

	msg := newIncoming(d.channel.ID, payload.Text)
	msg.CustomerPhone = payload.Sender.ID
	msg.CustomerName = payload.Sender.Name
	msg.CustomerEmail = payload.Sender.Email
	msg.Metadata = metadataJSON(map[string]string{
		"linkedinMessageId": payload.ID,
	})
	return msg, nil
}

func (d *LinkedIn) Send(ctx context.Context, msg *models.Message) error {
	var creds LinkedInCredentials
	if err := json.Unmarshal([]byte(d.channel.Credentials), &creds); err != nil {
		return fmt.Errorf("linkedin: decode credentials: %w", err)
	}

	payload, err := d.FormatOutgoing(msg)
	if err != nil {
		return err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("linkedin: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.sendURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("linkedin: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("linkedin: send: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("linkedin: send: unexpected status %s", resp.Status)
	}
	return nil
}
