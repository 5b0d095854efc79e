package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yukikurage/taskbot/internal/app"
	"github.com/yukikurage/taskbot/internal/bot"
	"github.com/yukikurage/taskbot/internal/chat"
	"github.com/yukikurage/taskbot/internal/config"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "taskbot",
		Short:         "Discord task tracker with a GitHub push relay",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSetup(serve)
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "register",
		Short: "Register the /task slash command and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSetup(register)
		},
	})

	return root
}

type runFunc func(cfg *config.Config, logger *logrus.Logger) error

// withSetup loads configuration and logging, then runs fn.
// Failures are logged here so every exit path leaves a clear line.
func withSetup(fn runFunc) error {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		logrus.WithError(err).Error("invalid configuration")
		return err
	}

	logger, err := app.NewLogger(cfg)
	if err != nil {
		logrus.WithError(err).Error("invalid configuration")
		return err
	}
	app.BridgeDiscordLogs(logger)

	if err := fn(cfg, logger); err != nil {
		logger.WithError(err).Error("taskbot stopped")
		return err
	}
	return nil
}

func newSession(cfg *config.Config) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	return session, nil
}

func register(cfg *config.Config, logger *logrus.Logger) error {
	session, err := newSession(cfg)
	if err != nil {
		return err
	}
	b := bot.New(session, nil, logger)
	return b.RegisterCommands(cfg.ClientID, cfg.GuildID)
}

func serve(cfg *config.Config, logger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := newSession(cfg)
	if err != nil {
		return err
	}

	application, err := app.New(cfg, chat.NewDiscordMessenger(session), logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.WithError(err).Warn("shutdown cleanup failed")
		}
	}()

	b := bot.New(session, application.Dispatcher, logger)

	// Bind before connecting so a taken port fails fast
	listener, err := net.Listen("tcp", cfg.ListenAddr())
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", cfg.ListenAddr(), err)
	}

	if err := session.Open(); err != nil {
		listener.Close()
		return fmt.Errorf("failed to connect to Discord: %w", err)
	}
	defer session.Close()

	// Registration failures are logged and tolerated
	_ = b.RegisterCommands(cfg.ClientID, cfg.GuildID)

	server := &http.Server{
		Handler:           application.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.WithField("addr", listener.Addr().String()).Info("GitHub webhook listening")
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("webhook server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return application.RunDashboard(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
