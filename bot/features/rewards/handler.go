package rewards

import (
	"context"
	"fmt"

	"guildbank/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleDaily(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		log.WithError(err).Error("Failed to parse interaction IDs")
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	result, err := f.ledger.ClaimDaily(ctx, guildID, userID)
	if err != nil {
		common.RespondWithDomainError(s, i, err)
		return
	}

	message := fmt.Sprintf("🎁 You claimed your daily reward of **%s** coins!\n🔥 Streak: **%d** | 💰 Wallet: **%s**",
		common.FormatAmount(result.Amount),
		result.Streak,
		common.FormatAmount(result.NewWallet),
	)

	respond(s, i, message)
}

func (f *Feature) handleWork(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		log.WithError(err).Error("Failed to parse interaction IDs")
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	result, err := f.ledger.Work(ctx, guildID, userID)
	if err != nil {
		common.RespondWithDomainError(s, i, err)
		return
	}

	message := fmt.Sprintf("🔨 You worked hard and earned **%s** coins! 💰 Wallet: **%s**",
		common.FormatAmount(result.Amount),
		common.FormatAmount(result.NewWallet),
	)

	respond(s, i, message)
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
		},
	})
	if err != nil {
		log.Errorf("Error responding to interaction: %v", err)
	}
}
