package chat

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// DiscordMessenger implements Messenger over a discordgo session
type DiscordMessenger struct {
	session *discordgo.Session
}

// NewDiscordMessenger creates a new DiscordMessenger
func NewDiscordMessenger(session *discordgo.Session) *DiscordMessenger {
	return &DiscordMessenger{session: session}
}

// SendMessage posts content to channelID and returns the new message id
func (m *DiscordMessenger) SendMessage(ctx context.Context, channelID, content string) (string, error) {
	msg, err := m.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}
	return msg.ID, nil
}

// EditMessage replaces the content of an existing message
func (m *DiscordMessenger) EditMessage(ctx context.Context, channelID, messageID, content string) error {
	if _, err := m.session.ChannelMessageEdit(channelID, messageID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to edit message %s: %w", messageID, err)
	}
	return nil
}

// FetchMessage reports whether the message can still be retrieved
func (m *DiscordMessenger) FetchMessage(ctx context.Context, channelID, messageID string) error {
	if _, err := m.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to fetch message %s: %w", messageID, err)
	}
	return nil
}

// IsTextChannel resolves channelID from the state cache, falling back to the
// REST API, and reports whether it accepts text messages
func (m *DiscordMessenger) IsTextChannel(ctx context.Context, channelID string) (bool, error) {
	if channelID == "" {
		return false, nil
	}

	// State cache first, then REST
	channel, err := m.session.State.Channel(channelID)
	if err != nil {
		channel, err = m.session.Channel(channelID, discordgo.WithContext(ctx))
		if err != nil {
			return false, fmt.Errorf("failed to resolve channel %s: %w", channelID, err)
		}
	}
	return IsTextChannelType(channel.Type), nil
}

// IsTextChannelType reports whether messages can be posted to a channel of type t
func IsTextChannelType(t discordgo.ChannelType) bool {
	switch t {
	case discordgo.ChannelTypeGuildText,
		discordgo.ChannelTypeDM,
		discordgo.ChannelTypeGroupDM,
		discordgo.ChannelTypeGuildNews,
		discordgo.ChannelTypeGuildNewsThread,
		discordgo.ChannelTypeGuildPublicThread,
		discordgo.ChannelTypeGuildPrivateThread,
		discordgo.ChannelTypeGuildVoice:
		return true
	default:
		return false
	}
}
