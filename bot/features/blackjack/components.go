package blackjack

import (
	"guildbank/domain/entities"
	"guildbank/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// CreateGameComponents returns the hit/stand buttons for an active game,
// or disabled buttons once the game is resolved.
func CreateGameComponents(view *interfaces.GameView) []discordgo.MessageComponent {
	resolved := view.Status == entities.GameStatusResolved

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Hit",
					Style:    discordgo.PrimaryButton,
					CustomID: customIDHit,
					Disabled: resolved,
				},
				discordgo.Button{
					Label:    "Stand",
					Style:    discordgo.SecondaryButton,
					CustomID: customIDStand,
					Disabled: resolved,
				},
			},
		},
	}
}
