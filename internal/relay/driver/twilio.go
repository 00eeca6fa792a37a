package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/alleyops/switchboard/internal/models"
)

// twilioAPIBase is the Twilio REST API root.
const twilioAPIBase = "https://api.twilio.com/2010-04-01"

// Twilio delivers SMS messages through the Twilio Messages API. Registered
// under the "sms" channel type.
type Twilio struct {
	channel *models.Channel
	client  *http.Client
	apiBase string
}

func newTwilio(ch *models.Channel) *Twilio {
	return &Twilio{channel: ch, client: defaultHTTPClient, apiBase: twilioAPIBase}
}

func (d *Twilio) Type() string { return models.ChannelSMS }

func (d *Twilio) ValidateCredentials(ctx context.Context) bool {
	return hasRequiredFields(d.channel.Credentials, requiredFields[models.ChannelSMS])
}

// FormatOutgoing produces the form-encoded To/From/Body triple the Messages
// API expects. From comes from the channel's configured phone number.
func (d *Twilio) FormatOutgoing(msg *models.Message) (any, error) {
	var creds TwilioCredentials
	if err := json.Unmarshal([]byte(d.channel.Credentials), &creds); err != nil {
		return nil, fmt.Errorf("twilio: decode credentials: %w", err)
	}
	return url.Values{
		"To":   {msg.CustomerPhone},
		"From": {creds.PhoneNumber},
		"Body": {msg.Content},
	}, nil
}

// ParseIncoming accepts either Twilio's native form-encoded webhook body or
// a JSON object with the same keys.
func (d *Twilio) ParseIncoming(raw []byte) (*models.Message, error) {
	params := make(map[string]string)
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &params); err != nil {
			return nil, fmt.Errorf("twilio: %w: %v", ErrInvalidPayload, err)
		}
	} else {
		values, err := url.ParseQuery(string(trimmed))
		if err != nil {
			return nil, fmt.Errorf("twilio: %w: %v", ErrInvalidPayload, err)
		}
		for key := range values {
			params[key] = values.Get(key)
		}
	}

	if params["From"] == "" || params["Body"] == "" {
		return nil, fmt.Errorf("twilio: %w: missing From or Body", ErrInvalidPayload)
	}

	msg := newIncoming(d.channel.ID, params["Body"])
	msg.CustomerPhone = params["From"]
	msg.Metadata = metadataJSON(map[string]string{
		"twilioMessageSid": params["MessageSid"],
		"twilioAccountSid": params["AccountSid"],
	})
	return msg, nil
}

func (d *Twilio) Send(ctx context.Context, msg *models.Message) error {
	var creds TwilioCredentials
	if err := json.Unmarshal([]byte(d.channel.Credentials), &creds); err != nil {
		return fmt.Errorf("twilio: decode credentials: %w", err)
	}

	payload, err := d.FormatOutgoing(msg)
	if err != nil {
		return err
	}
	form := payload.(url.Values)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", d.apiBase, creds.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("twilio: build request: %w", err)
	}
	req.SetBasicAuth(creds.AccountSID, creds.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("twilio: send: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("twilio: send: unexpected status %s", resp.Status)
	}
	return nil
}
