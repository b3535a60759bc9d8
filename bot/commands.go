package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	one := float64(1)

	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check your wallet and bank balance",
		},
		{
			Name:        "deposit",
			Description: "Move coins from your wallet into the bank",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount to deposit",
					Required:    true,
					MinValue:    &one,
				},
			},
		},
		{
			Name:        "withdraw",
			Description: "Move coins from the bank into your wallet",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount to withdraw",
					Required:    true,
					MinValue:    &one,
				},
			},
		},
		{
			Name:        "give",
			Description: "Send coins to another member",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Member to send coins to",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount to send",
					Required:    true,
					MinValue:    &one,
				},
			},
		},
		{
			Name:        "daily",
			Description: "Claim your daily reward",
		},
		{
			Name:        "work",
			Description: "Work for a random reward",
		},
		{
			Name:        "blackjack",
			Description: "Play a hand of blackjack against the dealer",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "bet",
					Description: "Amount to wager from your wallet",
					Required:    true,
					MinValue:    &one,
				},
			},
		},
		{
			Name:        "shop",
			Description: "Browse and buy from the guild shop",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "Show the catalog",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "buy",
					Description: "Buy an item",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "item",
							Description: "Item number from /shop list",
							Required:    true,
							MinValue:    &one,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "quantity",
							Description: "How many to buy (default 1)",
							MinValue:    &one,
						},
					},
				},
			},
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
	}

	return nil
}
