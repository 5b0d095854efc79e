// Package chat exposes the message operations the bot needs from the chat platform.
package chat

import (
	"context"
)

// Messenger sends, edits and looks up channel messages
type Messenger interface {
	// SendMessage posts content to channelID and returns the new message id
	SendMessage(ctx context.Context, channelID, content string) (string, error)

	// EditMessage replaces the content of an existing message
	EditMessage(ctx context.Context, channelID, messageID, content string) error

	// FetchMessage returns an error when the message can no longer be reached
	FetchMessage(ctx context.Context, channelID, messageID string) error

	// IsTextChannel reports whether channelID resolves to a channel that accepts text messages
	IsTextChannel(ctx context.Context, channelID string) (bool, error)
}
