// Package scheduler runs the background sweep: it resyncs outstanding
// notification handles, writes durable missed-intake records once a day has
// closed, and sends the evening adherence summary.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/dhruvj27/rxscan/internal/adherence"
	"github.com/dhruvj27/rxscan/internal/ai"
	"github.com/dhruvj27/rxscan/internal/models"
	"github.com/dhruvj27/rxscan/internal/notify"
	"github.com/dhruvj27/rxscan/internal/repository"
	"github.com/dhruvj27/rxscan/internal/schedule"
)

// The evening summary goes out after this hour, local time.
const summaryHour = 20

type Scheduler struct {
	api        *tgbotapi.BotAPI
	chatID     int64
	dispatcher *notify.Dispatcher
	reminders  *repository.ReminderRepository
	intakes    *repository.IntakeLogRepository
	settings   *repository.SettingsRepository
	ai         *ai.Client

	checkInterval time.Duration
	notifyCh      chan struct{}
	lastSummary   models.Date
}

func New(
	api *tgbotapi.BotAPI,
	chatID int64,
	dispatcher *notify.Dispatcher,
	reminders *repository.ReminderRepository,
	intakes *repository.IntakeLogRepository,
	settings *repository.SettingsRepository,
	aiClient *ai.Client,
) *Scheduler {
	return &Scheduler{
		api:           api,
		chatID:        chatID,
		dispatcher:    dispatcher,
		reminders:     reminders,
		intakes:       intakes,
		settings:      settings,
		ai:            aiClient,
		checkInterval: 1 * time.Minute,
		notifyCh:      make(chan struct{}, 1),
	}
}

// Notify triggers an immediate sweep. Non-blocking if one is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	log.Println("Scheduler started")
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	// Give migrations a moment to finish before the first resync.
	select {
	case <-ctx.Done():
		return
	case <-time.After(2 * time.Second):
	}

	s.resync(ctx)
	s.check(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Scheduler stopped")
			return
		case <-ticker.C:
			s.check(ctx)
		case <-s.notifyCh:
			log.Println("Scheduler triggered by notification")
			s.check(ctx)
		}
	}
}

func (s *Scheduler) check(ctx context.Context) {
	s.sweepMissed(ctx)
	s.sendDailySummary(ctx)
}

// resync rebuilds the outstanding alert set for every reminder. The process
// restart dropped the in-memory alert queue, so every stored handle is stale
// by definition; dispatching replaces them and the fresh handles are saved
// back on the reminder.
func (s *Scheduler) resync(ctx context.Context) {
	st, err := s.settings.Load(ctx)
	if err != nil {
		log.Printf("Failed to load notification settings: %v", err)
		return
	}

	rems, err := s.reminders.List(ctx)
	if err != nil {
		log.Printf("Failed to list reminders for resync: %v", err)
		return
	}

	now := time.Now()
	for _, rem := range rems {
		handles, err := s.dispatcher.Schedule(ctx, *rem, st, now)
		if err != nil {
			log.Printf("Failed to schedule reminder %s: %v", rem.ID, err)
			continue
		}
		if err := s.reminders.SetNotificationIDs(ctx, rem.ID, handles); err != nil {
			log.Printf("Failed to save handles for reminder %s: %v", rem.ID, err)
			continue
		}
		if len(handles) > 0 {
			log.Printf("Scheduled %d alerts for %s", len(handles), rem.Medicine.Name)
		}
	}
}

// sweepMissed writes a missed entry for every occurrence of yesterday that
// never got answered. The derived status for past days would already read as
// missed; this makes it durable so reports survive reminder deletion.
func (s *Scheduler) sweepMissed(ctx context.Context) {
	now := time.Now()
	loc := now.Location()
	yesterday := models.DateOf(now).AddDays(-1)

	dayStart := yesterday.At(models.TimeOfDay{}, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	rems, err := s.reminders.ListActive(ctx)
	if err != nil {
		log.Printf("Failed to list reminders for missed sweep: %v", err)
		return
	}

	for _, rem := range rems {
		if !rem.ActiveOn(yesterday) || !schedule.OccursOn(*rem, yesterday) {
			continue
		}
		answered, err := s.intakes.HasEntryScheduledBetween(ctx, rem.ID, dayStart, dayEnd)
		if err != nil {
			log.Printf("Failed to check intake log for reminder %s: %v", rem.ID, err)
			continue
		}
		if answered {
			continue
		}

		entry := &models.IntakeLog{
			ID:           uuid.NewString(),
			ReminderID:   rem.ID,
			ScheduledFor: yesterday.At(rem.Time, loc),
			LoggedAt:     now,
			Status:       models.StatusMissed,
		}
		if err := s.intakes.Append(ctx, entry); err != nil {
			log.Printf("Failed to record missed intake for reminder %s: %v", rem.ID, err)
			continue
		}
		log.Printf("Recorded missed intake for %s on %s", rem.Medicine.Name, yesterday)
	}
}

func (s *Scheduler) sendDailySummary(ctx context.Context) {
	now := time.Now()
	today := models.DateOf(now)

	if now.Hour() < summaryHour || s.lastSummary.Equal(today) {
		return
	}

	rems, err := s.reminders.List(ctx)
	if err != nil {
		log.Printf("Failed to list reminders for daily summary: %v", err)
		return
	}
	if len(rems) == 0 {
		s.lastSummary = today
		return
	}

	loc := now.Location()
	dayStart := today.At(models.TimeOfDay{}, loc)
	todayEntries, err := s.intakes.ListBetween(ctx, dayStart, now)
	if err != nil {
		log.Printf("Failed to list today's intake log: %v", err)
		return
	}
	weekEntries, err := s.intakes.ListBetween(ctx, now.AddDate(0, 0, -7), now)
	if err != nil {
		log.Printf("Failed to list weekly intake log: %v", err)
		return
	}

	all := make([]models.Reminder, 0, len(rems))
	for _, rem := range rems {
		all = append(all, *rem)
	}
	counts := adherence.CountToday(all, todayEntries, now)
	weekly := adherence.ComputeStats(all, weekEntries, now.AddDate(0, 0, -7), now)

	text := buildSummaryText(counts, weekly)
	if s.ai != nil {
		if coach, err := s.ai.AdherenceSummary(ctx, counts, weekly); err == nil {
			text += "\n\n" + coach
		} else {
			log.Printf("Failed to generate adherence summary: %v", err)
		}
	}

	msg := tgbotapi.NewMessage(s.chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := s.api.Send(msg); err != nil {
		log.Printf("Failed to send daily summary: %v", err)
		return
	}

	s.lastSummary = today
	log.Println("Sent daily summary")
}

func buildSummaryText(counts adherence.DayCounts, weekly adherence.Stats) string {
	var sb strings.Builder
	sb.WriteString("🌙 *Daily Medication Summary*\n\n")
	fmt.Fprintf(&sb, "Today: %d scheduled\n", counts.Total)
	fmt.Fprintf(&sb, "✅ Taken: %d\n", counts.Taken)
	if counts.Skipped > 0 {
		fmt.Fprintf(&sb, "⏭ Skipped: %d\n", counts.Skipped)
	}
	if counts.Missed > 0 {
		fmt.Fprintf(&sb, "❌ Missed: %d\n", counts.Missed)
	}
	if counts.Pending > 0 {
		fmt.Fprintf(&sb, "⏳ Pending: %d\n", counts.Pending)
	}
	fmt.Fprintf(&sb, "\n7-day adherence: *%d%%* (%d of %d doses)", weekly.AdherenceRate, weekly.Taken, weekly.Total)
	return sb.String()
}
