package bank

import (
	"guildbank/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// Feature handles the wallet and bank commands: balance, deposit, withdraw
// and give.
type Feature struct {
	ledger interfaces.LedgerService
}

func New(ledger interfaces.LedgerService) *Feature {
	return &Feature{
		ledger: ledger,
	}
}

// HandleCommand routes a bank-related slash command to its handler.
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "balance":
		f.handleBalance(s, i)
	case "deposit":
		f.handleDeposit(s, i)
	case "withdraw":
		f.handleWithdraw(s, i)
	case "give":
		f.handleGive(s, i)
	}
}
