// Package testutil provides test doubles shared across packages.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned for unknown messages
var ErrNotFound = errors.New("message not found")

// SentMessage records a message posted through FakeMessenger
type SentMessage struct {
	ChannelID string
	MessageID string
	Content   string
}

// FakeMessenger is an in-memory chat.Messenger.
// Channels listed in TextChannels are text-capable; all others are not.
type FakeMessenger struct {
	mu sync.Mutex

	TextChannels map[string]bool
	Messages     map[string]SentMessage
	Sent         []SentMessage
	Edits        []SentMessage

	// Errors to inject
	SendErr    error
	EditErr    error
	ChannelErr error

	nextID int
}

// NewFakeMessenger creates a FakeMessenger with the given text channels
func NewFakeMessenger(textChannels ...string) *FakeMessenger {
	m := &FakeMessenger{
		TextChannels: map[string]bool{},
		Messages:     map[string]SentMessage{},
	}
	for _, id := range textChannels {
		m.TextChannels[id] = true
	}
	return m
}

func (m *FakeMessenger) SendMessage(ctx context.Context, channelID, content string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SendErr != nil {
		return "", m.SendErr
	}
	m.nextID++
	msg := SentMessage{
		ChannelID: channelID,
		MessageID: fmt.Sprintf("msg-%d", m.nextID),
		Content:   content,
	}
	m.Messages[msg.MessageID] = msg
	m.Sent = append(m.Sent, msg)
	return msg.MessageID, nil
}

func (m *FakeMessenger) EditMessage(ctx context.Context, channelID, messageID, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.EditErr != nil {
		return m.EditErr
	}
	msg, ok := m.Messages[messageID]
	if !ok || msg.ChannelID != channelID {
		return ErrNotFound
	}
	msg.Content = content
	m.Messages[messageID] = msg
	m.Edits = append(m.Edits, msg)
	return nil
}

func (m *FakeMessenger) FetchMessage(ctx context.Context, channelID, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg, ok := m.Messages[messageID]
	if !ok || msg.ChannelID != channelID {
		return ErrNotFound
	}
	return nil
}

func (m *FakeMessenger) IsTextChannel(ctx context.Context, channelID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ChannelErr != nil {
		return false, m.ChannelErr
	}
	return m.TextChannels[channelID], nil
}

// DeleteMessage simulates someone removing a message outside the bot
func (m *FakeMessenger) DeleteMessage(messageID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Messages, messageID)
}

// SentMessages returns a copy of every posted message
func (m *FakeMessenger) SentMessages() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentMessage(nil), m.Sent...)
}

// EditedMessages returns a copy of every edit
func (m *FakeMessenger) EditedMessages() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentMessage(nil), m.Edits...)
}

// Content returns the current content of messageID
func (m *FakeMessenger) Content(messageID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Messages[messageID].Content
}
