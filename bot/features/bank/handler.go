package bank

import (
	"context"
	"fmt"
	"strconv"

	"guildbank/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		log.WithError(err).Error("Failed to parse interaction IDs")
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	summary, err := f.ledger.GetBalance(ctx, guildID, userID)
	if err != nil {
		common.RespondWithDomainError(s, i, err)
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, i.Member.User.ID)
	message := fmt.Sprintf("%s\n💰 Wallet: **%s** | 🏦 Bank: **%s** | Total: **%s**",
		displayName,
		common.FormatAmount(summary.Wallet),
		common.FormatAmount(summary.Bank),
		common.FormatAmount(summary.Total),
	)

	respondEphemeral(s, i, message)
}

func (f *Feature) handleDeposit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		log.WithError(err).Error("Failed to parse interaction IDs")
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	amount := i.ApplicationCommandData().Options[0].IntValue()

	summary, err := f.ledger.Deposit(ctx, guildID, userID, amount)
	if err != nil {
		common.RespondWithDomainError(s, i, err)
		return
	}

	respondEphemeral(s, i, fmt.Sprintf("Deposited **%s** coins. 💰 Wallet: **%s** | 🏦 Bank: **%s**",
		common.FormatAmount(amount),
		common.FormatAmount(summary.Wallet),
		common.FormatAmount(summary.Bank),
	))
}

func (f *Feature) handleWithdraw(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		log.WithError(err).Error("Failed to parse interaction IDs")
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	amount := i.ApplicationCommandData().Options[0].IntValue()

	summary, err := f.ledger.Withdraw(ctx, guildID, userID, amount)
	if err != nil {
		common.RespondWithDomainError(s, i, err)
		return
	}

	respondEphemeral(s, i, fmt.Sprintf("Withdrew **%s** coins. 💰 Wallet: **%s** | 🏦 Bank: **%s**",
		common.FormatAmount(amount),
		common.FormatAmount(summary.Wallet),
		common.FormatAmount(summary.Bank),
	))
}

func (f *Feature) handleGive(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		log.WithError(err).Error("Failed to parse interaction IDs")
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	options := i.ApplicationCommandData().Options
	target := options[0].UserValue(s)
	amount := options[1].IntValue()

	if target == nil {
		common.RespondWithError(s, i, "Unable to resolve that user.")
		return
	}
	if target.Bot {
		common.RespondWithError(s, i, "Bots can't hold coins.")
		return
	}

	targetID, err := strconv.ParseInt(target.ID, 10, 64)
	if err != nil {
		log.WithError(err).Errorf("Failed to parse target user ID %s", target.ID)
		common.RespondWithError(s, i, "Unable to resolve that user.")
		return
	}

	if err := f.ledger.Transfer(ctx, guildID, userID, targetID, amount); err != nil {
		common.RespondWithDomainError(s, i, err)
		return
	}

	// public so the recipient sees it
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("💸 <@%s> sent **%s** coins to <@%s>!",
				i.Member.User.ID, common.FormatAmount(amount), target.ID),
		},
	})
	if err != nil {
		log.Errorf("Error responding to give command: %v", err)
	}
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error responding to interaction: %v", err)
	}
}
