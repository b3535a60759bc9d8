package common

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// InteractionIDs extracts the guild and member IDs from an interaction.
func InteractionIDs(i *discordgo.InteractionCreate) (guildID, userID int64, err error) {
	guildID, err = strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid guild ID %q: %w", i.GuildID, err)
	}
	userID, err = strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid user ID %q: %w", i.Member.User.ID, err)
	}
	return guildID, userID, nil
}

// GetDisplayName returns the member's nickname when set, falling back to
// the username.
func GetDisplayName(s *discordgo.Session, guildID, userID string) string {
	member, err := s.GuildMember(guildID, userID)
	if err == nil && member.Nick != "" {
		return member.Nick
	}
	if err == nil && member.User != nil {
		return member.User.Username
	}
	return userID
}
