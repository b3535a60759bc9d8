package blackjack

import (
	"fmt"
	"strings"

	"guildbank/bot/common"
	"guildbank/domain/entities"
	"guildbank/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

const (
	colorActive = 0x3498DB // blue
	colorWin    = 0x2ECC71 // green
	colorLose   = 0xE74C3C // red
	colorTie    = 0x95A5A6 // grey
)

// CreateGameEmbed renders the game state. While the game is active the
// dealer's hole card stays hidden; a resolved game shows everything plus
// the settlement line.
func CreateGameEmbed(view *interfaces.GameView) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🃏 Blackjack — %s coins", common.FormatAmount(view.Bet)),
	}

	if view.Status == entities.GameStatusActive {
		embed.Color = colorActive
		embed.Fields = []*discordgo.MessageEmbedField{
			{
				Name:   fmt.Sprintf("Your hand (%d)", view.PlayerHand.Value()),
				Value:  formatHand(view.PlayerHand),
				Inline: true,
			},
			{
				Name:   "Dealer shows",
				Value:  formatDealerUpCard(view.DealerHand),
				Inline: true,
			},
		}
		return embed
	}

	embed.Color = resultColor(view.Result)
	embed.Fields = []*discordgo.MessageEmbedField{
		{
			Name:   fmt.Sprintf("Your hand (%d)", view.PlayerHand.Value()),
			Value:  formatHand(view.PlayerHand),
			Inline: true,
		},
		{
			Name:   fmt.Sprintf("Dealer hand (%d)", view.DealerHand.Value()),
			Value:  formatHand(view.DealerHand),
			Inline: true,
		},
		{
			Name:  "Result",
			Value: resultLine(view),
		},
	}
	return embed
}

func formatHand(hand entities.Hand) string {
	parts := make([]string, len(hand))
	for i, c := range hand {
		parts[i] = "`" + c.String() + "`"
	}
	return strings.Join(parts, " ")
}

// formatDealerUpCard shows the first dealer card and hides the hole card.
func formatDealerUpCard(hand entities.Hand) string {
	if len(hand) == 0 {
		return "`?`"
	}
	return "`" + hand[0].String() + "` `?`"
}

func resultColor(result entities.GameResult) int {
	switch result {
	case entities.GameResultWin:
		return colorWin
	case entities.GameResultTie:
		return colorTie
	default:
		return colorLose
	}
}

func resultLine(view *interfaces.GameView) string {
	switch view.Result {
	case entities.GameResultWin:
		return fmt.Sprintf("🎉 You won **%s** coins! 💰 Wallet: **%s**",
			common.FormatAmount(view.Payout), common.FormatAmount(view.WalletAfter))
	case entities.GameResultTie:
		return fmt.Sprintf("🤝 Push. Your **%s** coin bet was returned. 💰 Wallet: **%s**",
			common.FormatAmount(view.Payout), common.FormatAmount(view.WalletAfter))
	default:
		if view.PlayerHand.IsBust() {
			return fmt.Sprintf("💥 Bust! You lost **%s** coins.", common.FormatAmount(view.Bet))
		}
		return fmt.Sprintf("😞 Dealer wins. You lost **%s** coins.", common.FormatAmount(view.Bet))
	}
}
