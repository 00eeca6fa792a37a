package driver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/alleyops/switchboard/internal/models"
)

// discordSession abstracts the discordgo methods we use, enabling test mocks.
// Sends go over the REST API; no gateway connection is opened.
type discordSession interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Discord delivers messages to a Discord channel. The recipient key is the
// target channel id, carried in Message.CustomerPhone.
type Discord struct {
	channel *models.Channel
	sess    discordSession // lazily created from credentials; injectable in tests
}

func newDiscord(ch *models.Channel) *Discord {
	return &Discord{channel: ch}
}

func (d *Discord) Type() string { return models.ChannelDiscord }

func (d *Discord) ValidateCredentials(ctx context.Context) bool {
	return hasRequiredFields(d.channel.Credentials, requiredFields[models.ChannelDiscord])
}

type discordPayload struct {
	ChannelID string `json:"channel_id"`
	Content   string `json:"content"`
}

func (d *Discord) FormatOutgoing(msg *models.Message) (any, error) {
	return discordPayload{
		ChannelID: msg.CustomerPhone,
		Content:   msg.Content,
	}, nil
}

func (d *Discord) ParseIncoming(raw []byte) (*models.Message, error) {
	var payload struct {
		ID        string `json:"id"`
		ChannelID string `json:"channel_id"`
		Content   string `json:"content"`
		Author    *struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"author"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("discord: %w: %v", ErrInvalidPayload, err)
	}
	if payload.Author == nil || payload.Content == "" {
		return nil, fmt.Errorf("discord: %w: missing author or content", ErrInvalidPayload)
	}

	msg := newIncoming(d.channel.ID, payload.Content)
	msg.CustomerPhone = payload.ChannelID
	msg.CustomerName = payload.Author.Username
	msg.Metadata = metadataJSON(map[string]string{
		"discordMessageId": payload.ID,
		"authorId":         payload.Author.ID,
	})
	return msg, nil
}

func (d *Discord) Send(ctx context.Context, msg *models.Message) error {
	if d.sess == nil {
		var creds DiscordCredentials
		if err := json.Unmarshal([]byte(d.channel.Credentials), &creds); err != nil {
			return fmt.Errorf("discord: decode credentials: %w", err)
		}
		sess, err := discordgo.New("Bot " + creds.BotToken)
		if err != nil {
			return fmt.Errorf("discord: session init: %w", err)
		}
		sess.Client = defaultHTTPClient
		d.sess = sess
	}

	if _, err := d.sess.ChannelMessageSend(msg.CustomerPhone, msg.Content,
		discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord: send: %w", err)
	}
	return nil
}
