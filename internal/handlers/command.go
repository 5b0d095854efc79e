package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/taskbot/internal/models"
)

const (
	CommandName = "task"

	SubcommandCreate   = "create"
	SubcommandList     = "list"
	SubcommandComplete = "complete"

	OptionTitle = "title"
	OptionID    = "id"
)

const (
	ReplyEmptyList      = "📂 No open tasks."
	ReplyUnknownCommand = "Unknown command."
	ReplyError          = "⚠️ An error occurred while processing the command."
)

var errInvalidOption = errors.New("invalid command option")

// Command is a single chat command with its typed arguments
type Command struct {
	Name       string
	Subcommand string
	Options    map[string]interface{}
	User       string
}

// TaskStore is the subset of the task service the dispatcher uses
type TaskStore interface {
	Create(title, createdBy string) (*models.Task, error)
	List() ([]models.Task, error)
	Complete(id int) (*models.Task, bool, error)
}

// Refresher is told when the task list changed
type Refresher interface {
	Refresh()
}

type noopRefresher struct{}

func (noopRefresher) Refresh() {}

// CommandDispatcher routes /task subcommands to the task store
type CommandDispatcher struct {
	tasks     TaskStore
	refresher Refresher
	logger    logrus.FieldLogger
}

// NewCommandDispatcher creates a new CommandDispatcher. refresher may be nil.
func NewCommandDispatcher(tasks TaskStore, refresher Refresher, logger logrus.FieldLogger) *CommandDispatcher {
	if refresher == nil {
		refresher = noopRefresher{}
	}
	return &CommandDispatcher{
		tasks:     tasks,
		refresher: refresher,
		logger:    logger.WithField("component", "dispatcher"),
	}
}

// Dispatch runs cmd and returns the single reply to show the user.
// It never panics and never returns an empty reply.
func (d *CommandDispatcher) Dispatch(cmd Command) (reply string) {
	log := d.logger.WithFields(logrus.Fields{
		"subcommand": cmd.Subcommand,
		"user":       cmd.User,
	})

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("command panicked")
			reply = ReplyError
		}
	}()

	if cmd.Name != CommandName {
		return ReplyUnknownCommand
	}

	var (
		mutated bool
		err     error
	)
	switch cmd.Subcommand {
	case SubcommandCreate:
		reply, err = d.create(cmd)
		mutated = err == nil
	case SubcommandList:
		reply, err = d.list()
	case SubcommandComplete:
		reply, mutated, err = d.complete(cmd)
	default:
		return ReplyUnknownCommand
	}

	if err != nil {
		log.WithError(err).Error("command failed")
		return ReplyError
	}

	if mutated {
		d.refresher.Refresh()
	}
	return reply
}

func (d *CommandDispatcher) create(cmd Command) (string, error) {
	title, err := stringOption(cmd.Options, OptionTitle)
	if err != nil {
		return "", err
	}

	task, err := d.tasks.Create(title, cmd.User)
	if err != nil {
		return "", err
	}

	d.logger.WithField("task_id", task.ID).Info("task created")
	return fmt.Sprintf("✅ Task created: #%d - %s", task.ID, task.Title), nil
}

func (d *CommandDispatcher) list() (string, error) {
	tasks, err := d.tasks.List()
	if err != nil {
		return "", err
	}
	return FormatTaskList(tasks), nil
}

func (d *CommandDispatcher) complete(cmd Command) (string, bool, error) {
	id, err := intOption(cmd.Options, OptionID)
	if err != nil {
		return "", false, err
	}

	task, found, err := d.tasks.Complete(id)
	if err != nil {
		return "", false, err
	}
	if !found {
		return fmt.Sprintf("❌ Task #%d not found.", id), false, nil
	}

	d.logger.WithField("task_id", task.ID).Info("task completed")
	return fmt.Sprintf("✅ Task #%d marked as done.", task.ID), true, nil
}

// FormatTaskList renders the reply to /task list
func FormatTaskList(tasks []models.Task) string {
	if len(tasks) == 0 {
		return ReplyEmptyList
	}

	lines := make([]string, 0, len(tasks)+1)
	lines = append(lines, "📋 Tasks:")
	for _, t := range tasks {
		lines = append(lines, fmt.Sprintf("#%d [%s] %s (by %s)", t.ID, t.Status, t.Title, t.CreatedBy))
	}
	return strings.Join(lines, "\n")
}

func stringOption(options map[string]interface{}, name string) (string, error) {
	v, ok := options[name].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s", errInvalidOption, name)
	}
	return v, nil
}

func intOption(options map[string]interface{}, name string) (int, error) {
	switch v := options[name].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%w: %s", errInvalidOption, name)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("%w: %s", errInvalidOption, name)
	}
}
