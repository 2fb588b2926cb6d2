package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dhruvj27/rxscan/internal/ai"
	"github.com/dhruvj27/rxscan/internal/bot"
	"github.com/dhruvj27/rxscan/internal/config"
	"github.com/dhruvj27/rxscan/internal/database"
	"github.com/dhruvj27/rxscan/internal/notify"
	"github.com/dhruvj27/rxscan/internal/repository"
	"github.com/dhruvj27/rxscan/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	var aiClient *ai.Client
	if cfg.AIAPIKey != "" {
		aiClient = ai.New(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
		log.Printf("AI client initialized (model: %s)", cfg.AIModel)
	} else {
		log.Println("AI client not configured, natural language features disabled")
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("Failed to create Telegram API: %v", err)
	}

	repos := &bot.Repositories{
		Reminders: repository.NewReminderRepository(db),
		Intakes:   repository.NewIntakeLogRepository(db),
		Settings:  repository.NewSettingsRepository(db),
	}

	// Alert pipeline: timer queue feeds the Telegram notifier, the
	// dispatcher owns the cancel-then-schedule contract on top of it.
	queue := notify.NewQueue(16)
	go queue.Run(ctx)

	notifier := notify.NewTelegramNotifier(api, cfg.TelegramChatID, queue)
	go notifier.Run(ctx)

	dispatcher := notify.NewDispatcher(notifier)

	sched := scheduler.New(api, cfg.TelegramChatID, dispatcher,
		repos.Reminders, repos.Intakes, repos.Settings, aiClient)
	go sched.Start(ctx)

	b := bot.New(api, cfg.TelegramChatID, repos, dispatcher, notifier, aiClient)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		cancel()
	}()

	log.Println("Starting bot...")
	if err := b.Start(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Bot error: %v", err)
	}
}
