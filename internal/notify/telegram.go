package notify

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

// TelegramNotifier implements Notifier with the in-process Queue as the
// scheduling primitive and a Telegram chat as the delivery channel. Handles
// are fresh UUIDs.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	queue  *Queue

	mu    sync.Mutex
	sound bool
}

func NewTelegramNotifier(api *tgbotapi.BotAPI, chatID int64, queue *Queue) *TelegramNotifier {
	return &TelegramNotifier{api: api, chatID: chatID, queue: queue, sound: true}
}

// SetSound toggles audible delivery for subsequent alerts.
func (n *TelegramNotifier) SetSound(enabled bool) {
	n.mu.Lock()
	n.sound = enabled
	n.mu.Unlock()
}

// RequestPermission verifies the configured chat is reachable. An
// unreachable chat counts as denied, not as an error, so scheduling fails
// soft the way a refused platform permission would.
func (n *TelegramNotifier) RequestPermission(ctx context.Context) (bool, error) {
	_, err := n.api.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: n.chatID},
	})
	if err != nil {
		log.Printf("Notification permission check failed for chat %d: %v", n.chatID, err)
		return false, nil
	}
	return true, nil
}

func (n *TelegramNotifier) ScheduleAt(ctx context.Context, at time.Time, payload Payload) (string, error) {
	handle := uuid.NewString()
	n.queue.Add(handle, at, payload)
	return handle, nil
}

func (n *TelegramNotifier) Cancel(ctx context.Context, handle string) error {
	if !n.queue.Cancel(handle) {
		return fmt.Errorf("%w: %s", ErrStaleHandle, handle)
	}
	return nil
}

// Run delivers due alerts to the chat until the context is cancelled. Send
// failures are logged and the loop keeps going.
func (n *TelegramNotifier) Run(ctx context.Context) {
	log.Println("Telegram notifier started")
	for {
		select {
		case <-ctx.Done():
			log.Println("Telegram notifier stopped")
			return
		case alert, ok := <-n.queue.C():
			if !ok {
				return
			}
			n.deliver(alert)
		}
	}
}

func (n *TelegramNotifier) deliver(alert Alert) {
	msg := tgbotapi.NewMessage(n.chatID, alertText(alert.Payload))
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = intakeKeyboard(alert.Payload)

	n.mu.Lock()
	msg.DisableNotification = !n.sound
	n.mu.Unlock()

	if _, err := n.api.Send(msg); err != nil {
		log.Printf("Failed to deliver alert %s for reminder %s: %v", alert.Handle, alert.Payload.ReminderID, err)
		return
	}
	log.Printf("Delivered alert %s for reminder %s", alert.Handle, alert.Payload.ReminderID)
}

func alertText(p Payload) string {
	title := "💊 *Medicine Reminder*"
	if p.Tag == TagSnooze {
		title = "💊 *Snoozed: Medicine Reminder*"
	}

	text := title + "\n\nTime to take " + p.MedicineName
	if p.Dosage != "" {
		text += " (" + p.Dosage + ")"
	}
	if p.Instructions != "" {
		text += "\n" + p.Instructions
	}
	return text
}

func intakeKeyboard(p Payload) tgbotapi.InlineKeyboardMarkup {
	sched := ""
	if t, err := time.Parse(time.RFC3339, p.ScheduledTime); err == nil {
		sched = fmt.Sprintf("%d", t.Unix())
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Taken", "intake:taken:"+p.ReminderID+":"+sched),
			tgbotapi.NewInlineKeyboardButtonData("⏭ Skip", "intake:skip:"+p.ReminderID+":"+sched),
			tgbotapi.NewInlineKeyboardButtonData("😴 Snooze", "intake:snooze:"+p.ReminderID+":"+sched),
		),
	)
}
