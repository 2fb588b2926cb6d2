// Package bot is the user-facing Telegram surface: reminder management
// commands and the tap-to-action flow on delivered alerts.
package bot

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dhruvj27/rxscan/internal/ai"
	"github.com/dhruvj27/rxscan/internal/notify"
	"github.com/dhruvj27/rxscan/internal/repository"
)

type Repositories struct {
	Reminders *repository.ReminderRepository
	Intakes   *repository.IntakeLogRepository
	Settings  *repository.SettingsRepository
}

type Bot struct {
	api        *tgbotapi.BotAPI
	chatID     int64
	repos      *Repositories
	dispatcher *notify.Dispatcher
	notifier   *notify.TelegramNotifier
	ai         *ai.Client
}

func New(
	api *tgbotapi.BotAPI,
	chatID int64,
	repos *Repositories,
	dispatcher *notify.Dispatcher,
	notifier *notify.TelegramNotifier,
	aiClient *ai.Client,
) *Bot {
	return &Bot{
		api:        api,
		chatID:     chatID,
		repos:      repos,
		dispatcher: dispatcher,
		notifier:   notifier,
		ai:         aiClient,
	}
}

func (b *Bot) Start(ctx context.Context) error {
	log.Printf("Authorized on account %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		if update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat.ID == b.chatID {
			b.handleCallback(ctx, update.CallbackQuery)
		}
		return
	}

	msg := update.Message
	if msg == nil || msg.Chat.ID != b.chatID {
		return
	}

	if !msg.IsCommand() {
		b.sendMessage("I only understand commands here, try /help")
		return
	}

	switch msg.Command() {
	case "start":
		b.handleStart(msg)
	case "help":
		b.handleHelp()
	case "add":
		b.handleAdd(ctx, msg)
	case "list":
		b.handleList(ctx)
	case "today":
		b.handleToday(ctx)
	case "stats":
		b.handleStats(ctx, msg)
	case "pause":
		b.handleSetActive(ctx, msg, false)
	case "resume":
		b.handleSetActive(ctx, msg, true)
	case "delete":
		b.handleDelete(ctx, msg)
	case "narrate":
		b.handleNarrate(ctx, msg)
	case "export":
		b.handleExport(ctx, msg)
	case "settings":
		b.handleSettings(ctx, msg)
	default:
		b.sendMessage("Unknown command, see /help")
	}
}

func (b *Bot) sendMessage(text string) {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (b *Bot) editMessage(messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(b.chatID, messageID, text)
	edit.ParseMode = "Markdown"
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Failed to edit message: %v", err)
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	text := fmt.Sprintf(`👋 Hi %s!

I track your medication schedule and remind you when a dose is due.

• /add to create a reminder
• /today to see today's doses
• /stats for your adherence rate

Use /help for the full command list.`, msg.From.FirstName)
	b.sendMessage(text)
}

func (b *Bot) handleHelp() {
	b.sendMessage(`📖 *Commands*

*Reminders*
/add <name> | <dosage> | <HH:MM> | <daily|alternate|N> | <start> | <end> [| instructions]
/list - all reminders
/pause <id> - stop alerts, keep history
/resume <id> - re-enable alerts
/delete <id> - remove a reminder

*Tracking*
/today - today's doses and their status
/stats [days] - adherence rate (default 7 days)

*Extras*
/narrate <id> - plain-language medication explanation
/export <id> - iCalendar recurrence rule
/settings - show or change alert settings

Dates are YYYY-MM-DD. Use the first characters of an id shown by /list.`)
}
