package common

import (
	"errors"
	"fmt"

	"guildbank/domain"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// UserMessage translates a domain error into a message suitable for the
// member who triggered it. Unknown errors get a generic message; the full
// error is the caller's to log.
func UserMessage(err error) string {
	if cooldown, ok := domain.AsCooldownError(err); ok {
		return fmt.Sprintf("You need to wait **%s** before doing that again.", FormatDuration(cooldown.Remaining))
	}

	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return "Amount must be a positive number."
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "You don't have enough coins in your wallet for that."
	case errors.Is(err, domain.ErrSelfTransfer):
		return "You can't send coins to yourself."
	case errors.Is(err, domain.ErrInvalidTarget):
		return "That user can't receive coins."
	case errors.Is(err, domain.ErrGameAlreadyActive):
		return "You already have a blackjack game in progress. Finish it first."
	case errors.Is(err, domain.ErrNoActiveGame):
		return "You don't have a blackjack game in progress. Start one with /blackjack."
	case errors.Is(err, domain.ErrInvalidBet):
		return "Bet must be a positive number."
	case errors.Is(err, domain.ErrItemNotFound):
		return "That item isn't in the shop."
	case errors.Is(err, domain.ErrOutOfStock):
		return "That item is sold out."
	case errors.Is(err, domain.ErrStorageUnavailable):
		return "The bank vault is temporarily unavailable. Please try again."
	default:
		return "Something went wrong. Please try again later."
	}
}

// RespondWithError sends an error message as an ephemeral interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// RespondWithDomainError logs the error and responds with its user-facing
// translation.
func RespondWithDomainError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	log.WithFields(log.Fields{
		"user_id": i.Member.User.ID,
		"guild":   i.GuildID,
	}).WithError(err).Warn("Command rejected")
	RespondWithError(s, i, UserMessage(err))
}
