package bot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// roleGranter implements interfaces.RoleGranter over the Discord session.
type roleGranter struct {
	session *discordgo.Session
}

func (r *roleGranter) GrantRole(ctx context.Context, guildID, userID, roleID int64) error {
	err := r.session.GuildMemberRoleAdd(
		strconv.FormatInt(guildID, 10),
		strconv.FormatInt(userID, 10),
		strconv.FormatInt(roleID, 10),
	)
	if err != nil {
		return fmt.Errorf("failed to grant role %d to user %d in guild %d: %w", roleID, userID, guildID, err)
	}
	return nil
}
