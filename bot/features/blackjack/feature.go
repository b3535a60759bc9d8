package blackjack

import (
	"guildbank/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// Component custom IDs routed to this feature.
const (
	customIDHit   = "blackjack_hit"
	customIDStand = "blackjack_stand"
)

// Feature handles the blackjack command and its hit/stand buttons.
type Feature struct {
	games interfaces.BlackjackService
}

func New(games interfaces.BlackjackService) *Feature {
	return &Feature{
		games: games,
	}
}

// HandleCommand handles the /blackjack slash command.
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleStart(s, i)
}

// HandleInteraction handles hit/stand button presses.
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.MessageComponentData().CustomID {
	case customIDHit:
		f.handleHit(s, i)
	case customIDStand:
		f.handleStand(s, i)
	}
}
