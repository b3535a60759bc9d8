package rewards

import (
	"guildbank/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// Feature handles the cooldown-gated reward commands: daily and work.
type Feature struct {
	ledger interfaces.LedgerService
}

func New(ledger interfaces.LedgerService) *Feature {
	return &Feature{
		ledger: ledger,
	}
}

// HandleCommand routes a reward slash command to its handler.
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "daily":
		f.handleDaily(s, i)
	case "work":
		f.handleWork(s, i)
	}
}
