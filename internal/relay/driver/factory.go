package driver

import (
	"fmt"

	"github.com/alleyops/switchboard/internal/models"
)

// New selects and constructs the driver variant matching the channel's
// type tag. Stateless and callable repeatedly; the connection manager is
// the only long-lived holder of the instances it produces. Adding a channel
// type means adding one variant and one case here.
func New(ch *models.Channel) (Driver, error) {
	switch ch.Type {
	case models.ChannelWhatsApp:
		return newWhatsApp(ch), nil
	case models.ChannelSMS:
		return newTwilio(ch), nil
	case models.ChannelTikTok:
		return newTikTok(ch), nil
	case models.ChannelLinkedIn:
		return newLinkedIn(ch), nil
	case models.ChannelTelegram:
		return newTelegram(ch), nil
	case models.ChannelDiscord:
		return newDiscord(ch), nil
	case models.ChannelMessenger:
		return newMessenger(ch), nil
	case models.ChannelInstagram, models.ChannelTwitter, models.ChannelYouTube,
		models.ChannelReddit, models.ChannelLetgo:
		// Validate-only platforms: the dashboard can connect them but no
		// send path is wired yet.
		return &structural{channel: ch, typeTag: ch.Type}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, ch.Type)
	}
}
