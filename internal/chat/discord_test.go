package chat

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestIsTextChannelType(t *testing.T) {
	tests := []struct {
		name string
		typ  discordgo.ChannelType
		want bool
	}{
		{"guild text", discordgo.ChannelTypeGuildText, true},
		{"announcement", discordgo.ChannelTypeGuildNews, true},
		{"public thread", discordgo.ChannelTypeGuildPublicThread, true},
		{"category", discordgo.ChannelTypeGuildCategory, false},
		{"forum", discordgo.ChannelTypeGuildForum, false},
		{"stage", discordgo.ChannelTypeGuildStageVoice, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTextChannelType(tt.typ))
		})
	}
}
