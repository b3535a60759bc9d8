package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"guildbank/bot"
	"guildbank/config"
	"guildbank/database"
	"guildbank/domain/entities"
	"guildbank/infrastructure"
	"guildbank/repository"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	// Optional .env for local development; real deployments set env vars
	if err := godotenv.Load(); err == nil {
		log.Debug("Loaded configuration from .env")
	}

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(); err != nil {
			log.Fatalf("Migration error: %v", err)
		}
		return
	}

	if len(os.Args) > 1 && os.Args[1] == "add-item" {
		if err := handleAddItem(); err != nil {
			log.Fatalf("Add item error: %v", err)
		}
		return
	}

	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Get()

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	uowFactory := repository.NewUnitOfWorkFactory(db, infrastructure.NewLogEventPublisher())

	b, err := bot.New(bot.Config{
		Token:   cfg.DiscordToken,
		GuildID: cfg.GuildID,
	}, uowFactory, infrastructure.NewLogEventPublisher())
	if err != nil {
		return fmt.Errorf("failed to start bot: %w", err)
	}
	defer b.Close()

	log.Info("Bot is running. Press Ctrl+C to exit.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigChan:
		log.Info("Received shutdown signal, shutting down gracefully...")
	case <-ctx.Done():
	}

	return nil
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: guildbank migrate [up|down|status] [args...]")
	}

	switch os.Args[2] {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", os.Args[2])
	}
}

// handleAddItem inserts a catalog item from the command line. Stock of -1
// means unlimited; an optional role ID makes the item grant that role.
func handleAddItem() error {
	if len(os.Args) < 6 {
		return fmt.Errorf("usage: guildbank add-item guild-id name price stock [role-id]")
	}

	guildID, err := strconv.ParseInt(os.Args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid guild ID: %w", err)
	}
	name := os.Args[3]
	price, err := strconv.ParseInt(os.Args[4], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid price: %w", err)
	}
	stock, err := strconv.ParseInt(os.Args[5], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid stock: %w", err)
	}

	var roleID *int64
	if len(os.Args) > 6 {
		parsed, err := strconv.ParseInt(os.Args[6], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid role ID: %w", err)
		}
		roleID = &parsed
	}

	ctx := context.Background()
	cfg := config.Get()

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	uowFactory := repository.NewUnitOfWorkFactory(db, infrastructure.NewNoopEventPublisher())
	uow := uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	item := &entities.ShopItem{
		GuildID: guildID,
		Name:    name,
		Price:   price,
		Stock:   stock,
		RoleID:  roleID,
		Active:  true,
	}
	if err := uow.ShopItemRepository().Create(ctx, item); err != nil {
		return fmt.Errorf("failed to create shop item: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"guildID": guildID,
		"itemID":  item.ID,
		"name":    name,
		"price":   price,
		"stock":   stock,
	}).Info("Shop item created")
	return nil
}
