package shop

import (
	"fmt"

	"guildbank/bot/common"
	"guildbank/domain/entities"

	"github.com/bwmarrin/discordgo"
)

const colorShop = 0xF1C40F // gold

// CreateCatalogEmbed renders the guild's active catalog.
func CreateCatalogEmbed(items []*entities.ShopItem) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🛒 Shop",
		Color: colorShop,
	}

	if len(items) == 0 {
		embed.Description = "The shop is empty right now. Check back later!"
		return embed
	}

	for _, item := range items {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("#%d %s — %s coins", item.ID, item.Name, common.FormatAmount(item.Price)),
			Value: itemLine(item),
		})
	}
	return embed
}

func itemLine(item *entities.ShopItem) string {
	line := item.Description
	if line == "" {
		line = "No description."
	}
	if item.HasUnlimitedStock() {
		return line
	}
	return fmt.Sprintf("%s\nStock: %d", line, item.Stock)
}
