package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/dhruvj27/rxscan/internal/models"
)

// handleCallback answers the inline buttons on a delivered alert. Callback
// data is "intake:<action>:<reminder-id>:<unix>".
func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	parts := strings.Split(cq.Data, ":")
	if len(parts) != 4 || parts[0] != "intake" {
		b.answerCallback(cq.ID, "")
		return
	}
	action, reminderID := parts[1], parts[2]

	scheduledFor := time.Now()
	if unix, err := strconv.ParseInt(parts[3], 10, 64); err == nil {
		scheduledFor = time.Unix(unix, 0)
	}

	rem, err := b.repos.Reminders.GetByID(ctx, reminderID)
	if err != nil {
		log.Printf("Callback for unknown reminder %s: %v", reminderID, err)
		b.answerCallback(cq.ID, "That reminder no longer exists")
		return
	}

	switch action {
	case "taken":
		b.logIntake(ctx, cq, rem, scheduledFor, models.StatusTaken, "✅ Logged as taken")
	case "skip":
		b.logIntake(ctx, cq, rem, scheduledFor, models.StatusSkipped, "⏭ Logged as skipped")
	case "snooze":
		b.snooze(ctx, cq, rem)
	default:
		b.answerCallback(cq.ID, "")
	}
}

func (b *Bot) logIntake(ctx context.Context, cq *tgbotapi.CallbackQuery, rem *models.Reminder, scheduledFor time.Time, status models.IntakeStatus, ack string) {
	entry := &models.IntakeLog{
		ID:           uuid.NewString(),
		ReminderID:   rem.ID,
		ScheduledFor: scheduledFor,
		LoggedAt:     time.Now(),
		Status:       status,
	}
	if err := b.repos.Intakes.Append(ctx, entry); err != nil {
		log.Printf("Failed to log intake for %s: %v", rem.ID, err)
		b.answerCallback(cq.ID, "Could not record that, try again")
		return
	}

	b.answerCallback(cq.ID, ack)
	if cq.Message != nil {
		b.editMessage(cq.Message.MessageID, fmt.Sprintf("%s\n\n%s *%s*",
			cq.Message.Text, ack, rem.Medicine.Name))
	}
}

func (b *Bot) snooze(ctx context.Context, cq *tgbotapi.CallbackQuery, rem *models.Reminder) {
	st, err := b.repos.Settings.Load(ctx)
	if err != nil {
		log.Printf("Failed to load settings, using defaults: %v", err)
		st = models.DefaultNotificationSettings()
	}

	handle, err := b.dispatcher.Snooze(ctx, *rem, st.SnoozeMinutes, time.Now())
	if err != nil {
		log.Printf("Failed to snooze %s: %v", rem.ID, err)
		b.answerCallback(cq.ID, "Could not snooze, try again")
		return
	}

	handles := append(rem.NotificationIDs, handle)
	if err := b.repos.Reminders.SetNotificationIDs(ctx, rem.ID, handles); err != nil {
		log.Printf("Failed to store snooze handle for %s: %v", rem.ID, err)
	}

	ack := fmt.Sprintf("😴 Snoozed for %d min", st.SnoozeMinutes)
	b.answerCallback(cq.ID, ack)
	if cq.Message != nil {
		b.editMessage(cq.Message.MessageID, fmt.Sprintf("%s\n\n%s", cq.Message.Text, ack))
	}
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		log.Printf("Failed to answer callback: %v", err)
	}
}
