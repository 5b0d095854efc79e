package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/taskbot/internal/chat"
	"github.com/yukikurage/taskbot/internal/config"
	"github.com/yukikurage/taskbot/internal/handlers"
	"github.com/yukikurage/taskbot/internal/middleware"
	"github.com/yukikurage/taskbot/internal/repository"
	"github.com/yukikurage/taskbot/internal/services"
	"github.com/yukikurage/taskbot/internal/utils"
)

// drainTimeout bounds how long Close waits for in-flight background sends
const drainTimeout = 10 * time.Second

// App holds the application state and dependencies
type App struct {
	Config     *config.Config
	Logger     logrus.FieldLogger
	Tasks      *services.TaskService
	Dashboard  *services.DashboardService // nil when no status channel is configured
	Relay      *services.RelayService
	Dispatcher *handlers.CommandDispatcher
	Background *utils.Background

	lockFile *flock.Flock
}

// New wires the application once
func New(cfg *config.Config, messenger chat.Messenger, logger logrus.FieldLogger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	// Acquire lock to ensure single instance
	if err := a.acquireLock(); err != nil {
		return nil, err
	}

	a.Background = utils.NewBackground(logger)

	a.Tasks = services.NewTaskService(repository.NewTaskRepository(cfg.TasksFile))
	a.Relay = services.NewRelayService(messenger, cfg.WebhookChannelID, logger)

	if cfg.DashboardEnabled() {
		a.Dashboard = services.NewDashboardService(
			a.Tasks,
			repository.NewDashboardRepository(cfg.DashboardFile),
			messenger,
			cfg.StatusChannelID,
			a.Background,
			logger,
		)
		a.Dispatcher = handlers.NewCommandDispatcher(a.Tasks, a.Dashboard, logger)
	} else {
		a.Dispatcher = handlers.NewCommandDispatcher(a.Tasks, nil, logger)
	}

	return a, nil
}

// Router builds the HTTP routes for the webhook listener
func (a *App) Router() *gin.Engine {
	gin.SetMode(a.Config.GinMode)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(a.Logger))

	webhook := handlers.NewWebhookHandler(a.Relay, a.Background, a.Logger)

	r.GET("/health", handlers.Health)
	r.POST("/github-webhook", middleware.RequireWebhookSignature(a.Config.WebhookSecret), webhook.GitHubWebhook)

	return r
}

// RunDashboard keeps the dashboard in sync until ctx is done.
// It returns immediately when the dashboard is disabled.
func (a *App) RunDashboard(ctx context.Context) error {
	if a.Dashboard == nil {
		a.Logger.Info("STATUS_CHANNEL_ID not set, dashboard disabled")
		return nil
	}
	return a.Dashboard.Run(ctx, a.Config.DashboardInterval)
}

// acquireLock takes an exclusive lock next to the task file so a second
// process cannot interleave whole-file rewrites
func (a *App) acquireLock() error {
	lockPath := a.Config.TasksFile + ".lock"
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another instance is already using %s", a.Config.TasksFile)
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() error {
	if a.lockFile != nil {
		return a.lockFile.Unlock()
	}
	return nil
}

// Close drains background work and releases the lock. Work still running
// after drainTimeout is cancelled and reported.
func (a *App) Close() error {
	var errs []error
	if err := a.Background.Shutdown(drainTimeout); err != nil {
		errs = append(errs, err)
	}

	if err := a.releaseLock(); err != nil {
		errs = append(errs, fmt.Errorf("failed to release lock: %w", err))
	}
	return errors.Join(errs...)
}
