package bot

import (
	"fmt"
	"strings"

	"guildbank/application"
	"guildbank/bot/features/bank"
	"guildbank/bot/features/blackjack"
	"guildbank/bot/features/rewards"
	"guildbank/bot/features/shop"
	"guildbank/domain/interfaces"
	"guildbank/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string
}

// Bot manages the Discord session and all feature modules.
type Bot struct {
	config  Config
	session *discordgo.Session

	ledger interfaces.LedgerService
	games  interfaces.BlackjackService
	shop   interfaces.ShopService

	// Feature modules
	bankFeature      *bank.Feature
	rewardsFeature   *rewards.Feature
	blackjackFeature *blackjack.Feature
	shopFeature      *shop.Feature
}

// New creates a new bot instance, wires the services and features, opens
// the gateway connection and registers the slash commands.
func New(config Config, uowFactory application.UnitOfWorkFactory, publisher interfaces.EventPublisher) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	// One lock registry for every service that mutates wallets directly.
	locks := services.NewAccountLocks()
	ledger := services.NewLedgerService(uowFactory, locks)
	games := services.NewBlackjackService(ledger, publisher)
	shopService := services.NewShopService(uowFactory, locks, &roleGranter{session: dg})

	b := &Bot{
		config:  config,
		session: dg,
		ledger:  ledger,
		games:   games,
		shop:    shopService,
	}

	b.bankFeature = bank.New(ledger)
	b.rewardsFeature = rewards.New(ledger)
	b.blackjackFeature = blackjack.New(games)
	b.shopFeature = shop.New(shopService)

	dg.AddHandler(b.handleCommands)
	dg.AddHandler(b.handleInteractions)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := b.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	log.Info("Bot connected and commands registered")
	return b, nil
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	return b.session.Close()
}

// GetSession returns the Discord session
func (b *Bot) GetSession() *discordgo.Session {
	return b.session
}

// handleCommands routes slash commands to the appropriate feature
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	// Economy commands only make sense inside a guild
	if i.GuildID == "" || i.Member == nil {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "balance", "deposit", "withdraw", "give":
		b.bankFeature.HandleCommand(s, i)
	case "daily", "work":
		b.rewardsFeature.HandleCommand(s, i)
	case "blackjack":
		b.blackjackFeature.HandleCommand(s, i)
	case "shop":
		b.shopFeature.HandleCommand(s, i)
	}
}

// handleInteractions routes component interactions to the appropriate feature
func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	if i.GuildID == "" || i.Member == nil {
		return
	}

	customID := i.MessageComponentData().CustomID
	if strings.HasPrefix(customID, "blackjack_") {
		b.blackjackFeature.HandleInteraction(s, i)
	}
}
