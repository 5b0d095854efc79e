package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/taskbot/internal/chat"
	"github.com/yukikurage/taskbot/internal/dto"
)

var (
	ErrWebhookChannelNotText = errors.New("webhook channel is missing or not a text channel")
	ErrPushWithoutCommits   = errors.New("push event has no commits")
)

// RelayService forwards repository push notifications to one channel
type RelayService struct {
	messenger chat.Messenger
	channelID string
	logger    logrus.FieldLogger
}

// NewRelayService creates a new RelayService posting to channelID
func NewRelayService(messenger chat.Messenger, channelID string, logger logrus.FieldLogger) *RelayService {
	return &RelayService{
		messenger: messenger,
		channelID: channelID,
		logger:    logger.WithField("component", "relay"),
	}
}

// FormatPush renders the announcement for the last commit of event
func FormatPush(event dto.PushEvent, commit dto.Commit) string {
	return fmt.Sprintf("New push on `%s` (%s):\n%s\n%s",
		event.Repository.FullName,
		event.Ref,
		commit.Message,
		commit.URL,
	)
}

// RelayPush posts a summary of the last commit in event
func (s *RelayService) RelayPush(ctx context.Context, event dto.PushEvent) error {
	commit, ok := event.LastCommit()
	if !ok {
		return ErrPushWithoutCommits
	}

	isText, err := s.messenger.IsTextChannel(ctx, s.channelID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWebhookChannelNotText, err)
	}
	if !isText {
		return ErrWebhookChannelNotText
	}

	if _, err := s.messenger.SendMessage(ctx, s.channelID, FormatPush(event, commit)); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"repository": event.Repository.FullName,
		"ref":        event.Ref,
	}).Info("push relayed")
	return nil
}
