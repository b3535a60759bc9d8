package shop

import (
	"context"
	"fmt"

	"guildbank/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, _, err := common.InteractionIDs(i)
	if err != nil {
		log.WithError(err).Error("Failed to parse interaction IDs")
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	items, err := f.shop.ListItems(ctx, guildID)
	if err != nil {
		common.RespondWithDomainError(s, i, err)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{CreateCatalogEmbed(items)},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error responding to shop list: %v", err)
	}
}

func (f *Feature) handleBuy(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		log.WithError(err).Error("Failed to parse interaction IDs")
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	var itemID, quantity int64 = 0, 1
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		switch opt.Name {
		case "item":
			itemID = opt.IntValue()
		case "quantity":
			quantity = opt.IntValue()
		}
	}

	result, err := f.shop.Purchase(ctx, guildID, userID, itemID, quantity)
	if err != nil {
		common.RespondWithDomainError(s, i, err)
		return
	}

	message := fmt.Sprintf("🛍️ You bought **%d× %s** for **%s** coins. 💰 Wallet: **%s**",
		result.Quantity,
		result.Item.Name,
		common.FormatAmount(result.TotalPrice),
		common.FormatAmount(result.NewWallet),
	)
	if result.Item.GrantsRole() {
		if result.RoleGranted {
			message += fmt.Sprintf("\n🎖️ You were granted the <@&%d> role!", *result.Item.RoleID)
		} else {
			message += "\n⚠️ The item's role could not be granted. An admin may need to fix the bot's permissions."
		}
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error responding to shop buy: %v", err)
	}
}
