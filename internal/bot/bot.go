// Package bot connects the command dispatcher to Discord interactions.
package bot

import (
	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/taskbot/internal/handlers"
)

// Dispatcher turns a command into its reply
type Dispatcher interface {
	Dispatch(cmd handlers.Command) string
}

// interactionClient is the part of *discordgo.Session used to answer an
// interaction.
type interactionClient interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Bot routes slash-command interactions to a Dispatcher
type Bot struct {
	session    *discordgo.Session
	dispatcher Dispatcher
	logger     logrus.FieldLogger
}

// New creates a Bot and attaches its handlers to session
func New(session *discordgo.Session, dispatcher Dispatcher, logger logrus.FieldLogger) *Bot {
	b := &Bot{
		session:    session,
		dispatcher: dispatcher,
		logger:     logger.WithField("component", "bot"),
	}
	session.Identify.Intents = discordgo.IntentsGuilds
	session.AddHandler(b.onReady)
	session.AddHandler(b.onInteraction)
	return b
}

// Commands returns the /task application command schema
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        handlers.CommandName,
			Description: "Manage project tasks",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        handlers.SubcommandCreate,
					Description: "Create a new task",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        handlers.OptionTitle,
							Description: "Task title",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        handlers.SubcommandList,
					Description: "List all tasks",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        handlers.SubcommandComplete,
					Description: "Mark a task as done",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        handlers.OptionID,
							Description: "ID of the task to close",
							Required:    true,
						},
					},
				},
			},
		},
	}
}

// RegisterCommands overwrites the application's commands in guildID, or
// globally when guildID is empty. Failures are logged and returned.
func (b *Bot) RegisterCommands(appID, guildID string) error {
	b.logger.WithField("guild_id", guildID).Info("registering slash commands")
	if _, err := b.session.ApplicationCommandBulkOverwrite(appID, guildID, Commands()); err != nil {
		b.logger.WithError(err).Error("slash command registration failed")
		return err
	}
	b.logger.Info("slash commands registered")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.WithField("user", UserTag(r.User)).Info("connected to Discord")
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.handleInteraction(s, i.Interaction)
}

// handleInteraction acknowledges a /task interaction, dispatches it and edits
// the deferred response with the reply. A failed edit gets one follow-up with
// the generic error text.
func (b *Bot) handleInteraction(client interactionClient, i *discordgo.Interaction) {
	cmd, ok := CommandFromInteraction(i)
	if !ok || cmd.Name != handlers.CommandName {
		return
	}
	log := b.logger.WithFields(logrus.Fields{
		"interaction": i.ID,
		"subcommand":  cmd.Subcommand,
	})

	if err := client.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		log.WithError(err).Error("failed to acknowledge interaction")
		return
	}

	reply := b.dispatcher.Dispatch(cmd)

	if _, err := client.InteractionResponseEdit(i, &discordgo.WebhookEdit{Content: &reply}); err != nil {
		log.WithError(err).Error("failed to send reply")
		if _, err := client.FollowupMessageCreate(i, true, &discordgo.WebhookParams{Content: handlers.ReplyError}); err != nil {
			log.WithError(err).Error("failed to send error follow-up")
		}
	}
}

// CommandFromInteraction converts an application command interaction into a
// handlers.Command. The first subcommand option becomes Subcommand and its own
// options become Options.
func CommandFromInteraction(i *discordgo.Interaction) (handlers.Command, bool) {
	if i == nil || i.Type != discordgo.InteractionApplicationCommand {
		return handlers.Command{}, false
	}
	data, ok := i.Data.(discordgo.ApplicationCommandInteractionData)
	if !ok {
		return handlers.Command{}, false
	}

	cmd := handlers.Command{
		Name:    data.Name,
		Options: map[string]interface{}{},
		User:    interactionUser(i),
	}
	for _, opt := range data.Options {
		if opt.Type != discordgo.ApplicationCommandOptionSubCommand {
			continue
		}
		cmd.Subcommand = opt.Name
		for _, arg := range opt.Options {
			cmd.Options[arg.Name] = arg.Value
		}
		break
	}
	return cmd, true
}

func interactionUser(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return UserTag(i.Member.User)
	}
	return UserTag(i.User)
}

// UserTag is the display identifier recorded as a task's author
func UserTag(u *discordgo.User) string {
	if u == nil {
		return "unknown"
	}
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}
