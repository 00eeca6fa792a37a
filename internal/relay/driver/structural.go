package driver

import (
	"context"
	"fmt"

	"github.com/alleyops/switchboard/internal/models"
)

// structural is the validate-only driver for platforms the dashboard can
// connect but not yet send through (instagram, twitter, youtube, reddit,
// letgo). Credential validation is the structural required-field check;
// every other operation reports ErrSendNotSupported.
type structural struct {
	channel *models.Channel
	typeTag string
}

func (d *structural) Type() string { return d.typeTag }

func (d *structural) ValidateCredentials(ctx context.Context) bool {
	return hasRequiredFields(d.channel.Credentials, requiredFields[d.typeTag])
}

func (d *structural) FormatOutgoing(msg *models.Message) (any, error) {
	return nil, fmt.Errorf("%s: %w", d.typeTag, ErrSendNotSupported)
}

func (d *structural) ParseIncoming(raw []byte) (*models.Message, error) {
	return nil, fmt.Errorf("%s: %w", d.typeTag, ErrSendNotSupported)
}

func (d *structural) Send(ctx context.Context, msg *models.Message) error {
	return fmt.Errorf("%s: %w", d.typeTag, ErrSendNotSupported)
}
