// Package driver implements the per-channel-type message drivers. Each
// variant owns exactly the credential, URL, and auth-scheme knowledge for
// its platform: how to validate stored credentials, how to serialize an
// outbound message into the platform's wire shape, how to normalize an
// inbound webhook payload into the canonical message, and how to deliver
// a message to the platform's send endpoint.
package driver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/alleyops/switchboard/internal/models"
)

// Sentinel errors shared by all driver variants.
var (
	// ErrUnsupportedType is returned by New for a channel type outside the
	// known enumeration.
	ErrUnsupportedType = errors.New("driver: unsupported channel type")

	// ErrInvalidPayload is returned by ParseIncoming when a required nested
	// field is absent from the raw webhook payload.
	ErrInvalidPayload = errors.New("driver: invalid message payload")

	// ErrSendNotSupported is returned by validate-only drivers whose
	// platforms have no send path wired.
	ErrSendNotSupported = errors.New("driver: send not supported for this channel type")
)

// defaultTimeout bounds every external API call a driver makes.
const defaultTimeout = 15 * time.Second

// defaultHTTPClient is shared by all HTTP-based drivers.
var defaultHTTPClient = &http.Client{Timeout: defaultTimeout}

// Driver is the capability set every channel variant implements. Drivers
// are transient and bound 1:1 to a channel for as long as it is active;
// the connection manager owns the live instances.
type Driver interface {
	// Type returns the channel type tag this driver serves.
	Type() string

	// ValidateCredentials reports whether the channel's stored credentials
	// contain every field the platform requires. It fails closed: malformed
	// credential JSON yields false, never an error.
	ValidateCredentials(ctx context.Context) bool

	// FormatOutgoing maps a canonical message to the platform's wire shape.
	// Pure: no side effects.
	FormatOutgoing(msg *models.Message) (any, error)

	// ParseIncoming normalizes a raw webhook payload into a canonical
	// incoming message. The result is not persisted; that is the caller's
	// job. Returns an error wrapping ErrInvalidPayload when required
	// fields are absent.
	ParseIncoming(raw []byte) (*models.Message, error)

	// Send formats the message and delivers it to the platform's send
	// endpoint using the channel's stored credentials. Any non-success
	// response is a transport error. No retries at this layer.
	Send(ctx context.Context, msg *models.Message) error
}

// newIncoming builds the canonical skeleton every parse path fills in.
func newIncoming(channelID uint, content string) *models.Message {
	return &models.Message{
		ChannelID:   channelID,
		Content:     content,
		MessageType: models.MessageIncoming,
		Status:      models.StatusNew,
	}
}

// metadataJSON serializes channel-specific provenance for Message.Metadata.
func metadataJSON(m map[string]string) string {
	data, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(data)
}
