package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/taskbot/internal/dto"
	"github.com/yukikurage/taskbot/internal/middleware"
)

const (
	HeaderGitHubEvent = "X-GitHub-Event"
	EventPush         = "push"
)

// PushRelayer forwards a push event to chat
type PushRelayer interface {
	RelayPush(ctx context.Context, event dto.PushEvent) error
}

// BackgroundRunner runs work after the HTTP response has been written
type BackgroundRunner interface {
	Go(name string, fn func(ctx context.Context) error)
}

// WebhookHandler serves the GitHub webhook endpoint
type WebhookHandler struct {
	relay      PushRelayer
	background BackgroundRunner
	logger     logrus.FieldLogger
}

// NewWebhookHandler creates a WebhookHandler that relays pushes on background
func NewWebhookHandler(relay PushRelayer, background BackgroundRunner, logger logrus.FieldLogger) *WebhookHandler {
	return &WebhookHandler{
		relay:      relay,
		background: background,
		logger:     logger.WithField("component", "webhook"),
	}
}

// GitHubWebhook handles POST /github-webhook.
// Every request is answered 200; only push events produce a chat message.
func (h *WebhookHandler) GitHubWebhook(c *gin.Context) {
	defer c.Status(http.StatusOK)

	log := h.logger.WithField("delivery", middleware.GetDeliveryID(c))

	event := c.GetHeader(HeaderGitHubEvent)
	if event != EventPush {
		log.WithField("event", event).Debug("ignoring webhook event")
		return
	}

	var push dto.PushEvent
	if err := c.ShouldBindJSON(&push); err != nil {
		log.WithError(err).Warn("malformed push payload")
		return
	}

	h.background.Go("relay push", func(ctx context.Context) error {
		return h.relay.RelayPush(ctx, push)
	})
}

// Health reports that the process is serving
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
