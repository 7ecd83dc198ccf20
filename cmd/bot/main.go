package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/ShyGirl95/Avalon/internal/common/clock"
	"github.com/ShyGirl95/Avalon/internal/common/uuid"
	"github.com/ShyGirl95/Avalon/internal/handlers/discord"
	"github.com/ShyGirl95/Avalon/internal/repositories/session"
	"github.com/ShyGirl95/Avalon/internal/services/advisor"
	gameService "github.com/ShyGirl95/Avalon/internal/services/game"
	"github.com/ShyGirl95/Avalon/internal/shuffle"
)

func main() {
	// Load .env if present; real environments set variables directly
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Initialize repositories
	sessionRepo, err := session.NewRedis(&session.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create session repository: %v", err)
	}

	// Initialize game service
	gameSvc, err := gameService.New(&gameService.Config{
		SessionRepo:   sessionRepo,
		Shuffler:      shuffle.New(&shuffle.Config{}),
		Clock:         clock.New(),
		UUIDGenerator: uuid.New(),
		MaxPlayers:    10,
	})
	if err != nil {
		log.Fatalf("Failed to create game service: %v", err)
	}

	// Initialize advisor service
	advisorSvc, err := advisor.New(&advisor.Config{})
	if err != nil {
		log.Fatalf("Failed to create advisor service: %v", err)
	}

	// Get Discord token from environment
	discordToken := getEnv("DISCORD_TOKEN", "")
	if discordToken == "" {
		log.Fatal("DISCORD_TOKEN environment variable is required")
	}

	// Get application ID for the bot
	applicationID := getEnv("APPLICATION_ID", "")

	// Get optional guild ID for development
	guildID := getEnv("GUILD_ID", "")

	// Initialize Discord bot
	bot, err := discord.New(&discord.Config{
		Token:          discordToken,
		ApplicationID:  applicationID,
		GuildID:        guildID,
		GameService:    gameSvc,
		AdvisorService: advisorSvc,
	})
	if err != nil {
		log.Fatalf("Failed to create Discord bot: %v", err)
	}

	// Start the bot
	if err := bot.Start(); err != nil {
		log.Fatalf("Failed to start Discord bot: %v", err)
	}

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	// Shutdown the bot
	if err := bot.Stop(); err != nil {
		log.Printf("Error stopping bot: %v", err)
	}

	log.Println("Bot has been shut down")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
