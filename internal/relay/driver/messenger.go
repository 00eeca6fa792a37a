package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/alleyops/switchboard/internal/models"
)

// messengerAPIBase is the Meta Graph API root for the Messenger Send API.
const messengerAPIBase = "https://graph.facebook.com/v19.0"

// Messenger delivers messages through the Facebook Messenger Send API.
// The recipient key is the page-scoped user id (PSID), carried in
// Message.CustomerPhone.
type Messenger struct {
	channel *models.Channel
	client  *http.Client
	apiBase string
}

func newMessenger(ch *models.Channel) *Messenger {
	return &Messenger{channel: ch, client: defaultHTTPClient, apiBase: messengerAPIBase}
}

func (d *Messenger) Type() string { return models.ChannelMessenger }

func (d *Messenger) ValidateCredentials(ctx context.Context) bool {
	return hasRequiredFields(d.channel.Credentials, requiredFields[models.ChannelMessenger])
}

type messengerPayload struct {
	Recipient struct {
		ID string `json:"id"`
	} `json:"recipient"`
	Message struct {
		Text string `json:"text"`
	} `json:"message"`
	MessagingType string `json:"messaging_type"`
}

func (d *Messenger) FormatOutgoing(msg *models.Message) (any, error) {
	var payload messengerPayload
	payload.Recipient.ID = msg.CustomerPhone
	payload.Message.Text = msg.Content
	payload.MessagingType = "RESPONSE"
	return payload, nil
}

func (d *Messenger) ParseIncoming(raw []byte) (*models.Message, error) {
	var payload struct {
		Entry []struct {
			Messaging []struct {
				Sender *struct {
					ID string `json:"id"`
				} `json:"sender"`
				Message *struct {
					MID  string `json:"mid"`
					Text string `json:"text"`
				} `json:"message"`
			} `json:"messaging"`
		} `json:"entry"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("messenger: %w: %v", ErrInvalidPayload, err)
	}
	if len(payload.Entry) == 0 || len(payload.Entry[0].Messaging) == 0 {
		return nil, fmt.Errorf("messenger: %w: missing entry", ErrInvalidPayload)
	}
	event := payload.Entry[0].Messaging[0]
	if event.Sender == nil || event.Message == nil || event.Message.Text == "" {
		return nil, fmt.Errorf("messenger: %w: missing sender or message text", ErrInvalidPayload)
	}

	msg := newIncoming(d.channel.ID, event.Message.Text)
	msg.CustomerPhone = event.Sender.ID
	msg.Metadata = metadataJSON(map[string]string{
		"messengerMessageId": event.Message.MID,
		"senderPsid":         event.Sender.ID,
	})
	return msg, nil
}

func (d *Messenger) Send(ctx context.Context, msg *models.Message) error {
	var creds MessengerCredentials
	if err := json.Unmarshal([]byte(d.channel.Credentials), &creds); err != nil {
		return fmt.Errorf("messenger: decode credentials: %w", err)
	}

	payload, err := d.FormatOutgoing(msg)
	if err != nil {
		return err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("messenger: encode payload: %w", err)
	}

	url := fmt.Sprintf("%s/me/messages?access_token=%s", d.apiBase, creds.AccessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("messenger: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("messenger: send: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("messenger: send: unexpected status %s", resp.Status)
	}
	return nil
}
