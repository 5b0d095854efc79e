package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/taskbot/internal/chat"
	"github.com/yukikurage/taskbot/internal/models"
	"github.com/yukikurage/taskbot/internal/repository"
	"github.com/yukikurage/taskbot/internal/utils"
)

const (
	DashboardHeader      = "📋 **Task dashboard**"
	DashboardPlaceholder = "📂 No tasks yet."
	TodoGlyph            = "⬜"
	DoneGlyph            = "✅"

	DefaultDashboardInterval = 60 * time.Second
)

// Render formats tasks as the dashboard message body
func Render(tasks []models.Task) string {
	var b strings.Builder
	b.WriteString(DashboardHeader)
	b.WriteString("\n")

	if len(tasks) == 0 {
		b.WriteString(DashboardPlaceholder)
		return b.String()
	}

	for i, t := range tasks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("#")
		b.WriteString(strconv.Itoa(t.ID))
		b.WriteString(" [")
		b.WriteString(statusGlyph(t.Status))
		b.WriteString("] ")
		b.WriteString(t.Title)
	}
	return b.String()
}

func statusGlyph(status models.TaskStatus) string {
	if status == models.TaskStatusDone {
		return DoneGlyph
	}
	return TodoGlyph
}

// DashboardService keeps one message in the status channel in sync with the task list
type DashboardService struct {
	tasks      *TaskService
	pointers   repository.DashboardRepository
	messenger  chat.Messenger
	channelID  string
	background *utils.Background
	logger     logrus.FieldLogger

	// one upsert at a time, so concurrent refreshes cannot both create a message
	mu sync.Mutex
}

// NewDashboardService creates a new DashboardService posting to channelID
func NewDashboardService(tasks *TaskService, pointers repository.DashboardRepository, messenger chat.Messenger, channelID string, background *utils.Background, logger logrus.FieldLogger) *DashboardService {
	return &DashboardService{
		tasks:      tasks,
		pointers:   pointers,
		messenger:  messenger,
		channelID:  channelID,
		background: background,
		logger:     logger.WithField("component", "dashboard"),
	}
}

// Upsert edits the remembered dashboard message, or posts a new one when
// there is none or it can no longer be fetched.
func (s *DashboardService) Upsert(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.tasks.List()
	if err != nil {
		return err
	}
	content := Render(tasks)

	pointer, err := s.pointers.Load()
	if err != nil {
		return fmt.Errorf("failed to load dashboard pointer: %w", err)
	}

	if pointer.MessageID != "" {
		fetchErr := s.messenger.FetchMessage(ctx, s.channelID, pointer.MessageID)
		if fetchErr == nil {
			return s.messenger.EditMessage(ctx, s.channelID, pointer.MessageID, content)
		}
		s.logger.WithError(fetchErr).WithField("message_id", pointer.MessageID).
			Warn("dashboard message unreachable, posting a new one")
	}

	messageID, err := s.messenger.SendMessage(ctx, s.channelID, content)
	if err != nil {
		return err
	}

	if err := s.pointers.Save(models.DashboardPointer{MessageID: messageID}); err != nil {
		return fmt.Errorf("failed to save dashboard pointer: %w", err)
	}
	s.logger.WithField("message_id", messageID).Info("dashboard message created")
	return nil
}

// Refresh schedules an Upsert without waiting for it
func (s *DashboardService) Refresh() {
	s.background.Go("dashboard refresh", s.Upsert)
}

// Run upserts once immediately, then on every tick until ctx is done.
// A non-positive interval disables the ticker.
func (s *DashboardService) Run(ctx context.Context, interval time.Duration) error {
	s.upsertAndLog(ctx)

	if interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.upsertAndLog(ctx)
		}
	}
}

func (s *DashboardService) upsertAndLog(ctx context.Context) {
	if err := s.Upsert(ctx); err != nil {
		s.logger.WithError(err).Error("dashboard update failed")
	}
}
