package shop

import (
	"guildbank/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// Feature handles the shop commands: listing the catalog and buying items.
type Feature struct {
	shop interfaces.ShopService
}

func New(shop interfaces.ShopService) *Feature {
	return &Feature{
		shop: shop,
	}
}

// HandleCommand routes the /shop subcommands to their handlers.
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "list":
		f.handleList(s, i)
	case "buy":
		f.handleBuy(s, i)
	}
}
