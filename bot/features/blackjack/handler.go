package blackjack

import (
	"context"

	"guildbank/bot/common"
	"guildbank/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleStart(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		log.WithError(err).Error("Failed to parse interaction IDs")
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	bet := i.ApplicationCommandData().Options[0].IntValue()

	view, err := f.games.Start(ctx, guildID, userID, bet)
	if err != nil {
		common.RespondWithDomainError(s, i, err)
		return
	}

	respondWithGame(s, i, view, false)
}

func (f *Feature) handleHit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		log.WithError(err).Error("Failed to parse interaction IDs")
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	view, err := f.games.Hit(ctx, guildID, userID)
	if err != nil {
		common.RespondWithDomainError(s, i, err)
		return
	}

	respondWithGame(s, i, view, true)
}

func (f *Feature) handleStand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		log.WithError(err).Error("Failed to parse interaction IDs")
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	view, err := f.games.Stand(ctx, guildID, userID)
	if err != nil {
		common.RespondWithDomainError(s, i, err)
		return
	}

	respondWithGame(s, i, view, true)
}

// respondWithGame sends the game embed. Button presses update the original
// game message in place; the initial command posts a fresh one.
func respondWithGame(s *discordgo.Session, i *discordgo.InteractionCreate, view *interfaces.GameView, update bool) {
	responseType := discordgo.InteractionResponseChannelMessageWithSource
	if update {
		responseType = discordgo.InteractionResponseUpdateMessage
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: responseType,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{CreateGameEmbed(view)},
			Components: CreateGameComponents(view),
		},
	})
	if err != nil {
		log.Errorf("Error responding with blackjack game: %v", err)
	}
}
