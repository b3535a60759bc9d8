package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"guildbank/database"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string
	GuildID      string // Primary Discord guild ID

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Economy configuration
	StartingWallet int64

	// Daily reward configuration
	DailyCooldown     time.Duration // window between claims
	DailyStreakWindow time.Duration // claiming later than this resets the streak
	DailyBaseReward   int64
	DailyStreakBonus  int64 // extra reward per consecutive day beyond the first

	// Work reward configuration
	WorkCooldown  time.Duration
	WorkMinReward int64
	WorkMaxReward int64

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Discord
		DiscordToken: os.Getenv("DISCORD_TOKEN"),
		GuildID:      os.Getenv("GUILD_ID"),

		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// Economy defaults
		StartingWallet: 500,

		DailyCooldown:     24 * time.Hour,
		DailyStreakWindow: 48 * time.Hour,
		DailyBaseReward:   100,
		DailyStreakBonus:  25,

		WorkCooldown:  time.Hour,
		WorkMinReward: 50,
		WorkMaxReward: 150,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override numeric defaults if environment variables are set
	overrideInt64(&config.StartingWallet, "STARTING_WALLET")
	overrideInt64(&config.DailyBaseReward, "DAILY_BASE_REWARD")
	overrideInt64(&config.DailyStreakBonus, "DAILY_STREAK_BONUS")
	overrideInt64(&config.WorkMinReward, "WORK_MIN_REWARD")
	overrideInt64(&config.WorkMaxReward, "WORK_MAX_REWARD")
	overrideDuration(&config.DailyCooldown, "DAILY_COOLDOWN")
	overrideDuration(&config.WorkCooldown, "WORK_COOLDOWN")

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	if config.WorkMaxReward < config.WorkMinReward {
		return nil, fmt.Errorf("WORK_MAX_REWARD must be >= WORK_MIN_REWARD")
	}

	return config, nil
}

// overrideInt64 replaces the target when the environment variable parses
func overrideInt64(target *int64, key string) {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			*target = parsed
		}
	}
}

// overrideDuration replaces the target when the environment variable parses
func overrideDuration(target *time.Duration, key string) {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			*target = parsed
		}
	}
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:       "test",
		StartingWallet:    500,
		DailyCooldown:     24 * time.Hour,
		DailyStreakWindow: 48 * time.Hour,
		DailyBaseReward:   100,
		DailyStreakBonus:  25,
		WorkCooldown:      time.Hour,
		WorkMinReward:     50,
		WorkMaxReward:     150,
	}
}
