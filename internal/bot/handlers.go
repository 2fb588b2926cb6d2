package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/dhruvj27/rxscan/internal/adherence"
	"github.com/dhruvj27/rxscan/internal/models"
	"github.com/dhruvj27/rxscan/internal/notify"
	"github.com/dhruvj27/rxscan/internal/rrule"
	"github.com/dhruvj27/rxscan/internal/schedule"
)

func (b *Bot) handleAdd(ctx context.Context, msg *tgbotapi.Message) {
	rem, err := parseAddArgs(msg.CommandArguments())
	if err != nil {
		b.sendMessage("❌ " + err.Error() + "\n\nFormat: /add name | dosage | HH:MM | daily|alternate|N | start | end [| instructions]")
		return
	}

	if err := b.repos.Reminders.Create(ctx, rem); err != nil {
		log.Printf("Failed to create reminder: %v", err)
		b.sendMessage("❌ Failed to save the reminder, try again")
		return
	}

	b.redispatch(ctx, rem)

	b.sendMessage(fmt.Sprintf("✅ Added *%s* (%s)\n%s\nID: `%s`",
		rem.Medicine.Name, rem.Medicine.Dosage, rrule.Describe(*rem), shortID(rem.ID)))
}

// parseAddArgs reads the pipe-separated /add arguments. A bare number in the
// frequency slot means a custom every-N-days schedule.
func parseAddArgs(args string) (*models.Reminder, error) {
	parts := strings.Split(args, "|")
	if len(parts) < 6 {
		return nil, errors.New("expected at least 6 fields")
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	tod, err := models.ParseTimeOfDay(parts[2])
	if err != nil {
		return nil, fmt.Errorf("bad time %q, want HH:MM", parts[2])
	}

	freq := models.FrequencyDaily
	interval := 0
	switch parts[3] {
	case "daily":
	case "alternate":
		freq = models.FrequencyAlternate
	default:
		n, err := strconv.Atoi(parts[3])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("bad frequency %q, want daily, alternate or a day count", parts[3])
		}
		freq = models.FrequencyCustom
		interval = n
	}

	start, err := models.ParseDate(parts[4])
	if err != nil {
		return nil, fmt.Errorf("bad start date %q, want YYYY-MM-DD", parts[4])
	}
	end, err := models.ParseDate(parts[5])
	if err != nil {
		return nil, fmt.Errorf("bad end date %q, want YYYY-MM-DD", parts[5])
	}

	rem := &models.Reminder{
		ID: uuid.NewString(),
		Medicine: models.Medicine{
			Name:   parts[0],
			Dosage: parts[1],
		},
		Time:           tod,
		Frequency:      freq,
		CustomInterval: interval,
		StartDate:      start,
		EndDate:        end,
		Active:         true,
	}
	if len(parts) > 6 {
		rem.Medicine.Instructions = parts[6]
	}

	if err := rem.Validate(); err != nil {
		return nil, err
	}
	return rem, nil
}

func (b *Bot) handleList(ctx context.Context) {
	rems, err := b.repos.Reminders.List(ctx)
	if err != nil {
		log.Printf("Failed to list reminders: %v", err)
		b.sendMessage("❌ Failed to load reminders")
		return
	}
	if len(rems) == 0 {
		b.sendMessage("No reminders yet. Create one with /add")
		return
	}

	var sb strings.Builder
	sb.WriteString("💊 *Your Reminders*\n")
	for _, rem := range rems {
		state := "▶️"
		if !rem.Active {
			state = "⏸"
		}
		fmt.Fprintf(&sb, "\n%s *%s* (%s)\n    %s\n    `%s`\n",
			state, rem.Medicine.Name, rem.Medicine.Dosage, rrule.Describe(*rem), shortID(rem.ID))
	}
	b.sendMessage(sb.String())
}

func (b *Bot) handleToday(ctx context.Context) {
	now := time.Now()
	rems, err := b.repos.Reminders.ListActive(ctx)
	if err != nil {
		log.Printf("Failed to list reminders: %v", err)
		b.sendMessage("❌ Failed to load reminders")
		return
	}

	today := models.DateOf(now)
	dayStart := today.At(models.TimeOfDay{}, now.Location())
	entries, err := b.repos.Intakes.ListBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		log.Printf("Failed to load intake log: %v", err)
		b.sendMessage("❌ Failed to load the intake log")
		return
	}

	var sb strings.Builder
	sb.WriteString("📅 *Today's Doses*\n")
	due := 0
	for _, rem := range rems {
		if !rem.ActiveOn(today) || !schedule.OccursOn(*rem, today) {
			continue
		}
		due++
		status := adherence.ResolveToday(*rem, entries, now)
		fmt.Fprintf(&sb, "\n%s %s *%s* (%s)\n",
			statusEmoji(status), rem.Time, rem.Medicine.Name, rem.Medicine.Dosage)
	}
	if due == 0 {
		b.sendMessage("📅 Nothing scheduled for today.")
		return
	}
	b.sendMessage(sb.String())
}

func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message) {
	days := 7
	if arg := strings.TrimSpace(msg.CommandArguments()); arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			b.sendMessage("Usage: /stats [days]")
			return
		}
		days = n
	}

	now := time.Now()
	windowStart := now.AddDate(0, 0, -days)

	ptrs, err := b.repos.Reminders.List(ctx)
	if err != nil {
		log.Printf("Failed to list reminders: %v", err)
		b.sendMessage("❌ Failed to load reminders")
		return
	}
	entries, err := b.repos.Intakes.ListBetween(ctx, windowStart, now)
	if err != nil {
		log.Printf("Failed to load intake log: %v", err)
		b.sendMessage("❌ Failed to load the intake log")
		return
	}

	rems := make([]models.Reminder, 0, len(ptrs))
	for _, rem := range ptrs {
		rems = append(rems, *rem)
	}

	stats := adherence.ComputeStats(rems, entries, windowStart, now)
	b.sendMessage(fmt.Sprintf("📊 *Adherence, last %d days*\n\nDoses taken: %d of %d\nRate: *%d%%*",
		days, stats.Taken, stats.Total, stats.AdherenceRate))
}

func (b *Bot) handleSetActive(ctx context.Context, msg *tgbotapi.Message, active bool) {
	rem, ok := b.resolveByPrefix(ctx, msg.CommandArguments())
	if !ok {
		return
	}

	if err := b.repos.Reminders.SetActive(ctx, rem.ID, active); err != nil {
		log.Printf("Failed to update reminder %s: %v", rem.ID, err)
		b.sendMessage("❌ Failed to update the reminder")
		return
	}
	rem.Active = active
	b.redispatch(ctx, rem)

	if active {
		b.sendMessage(fmt.Sprintf("▶️ Resumed *%s*", rem.Medicine.Name))
	} else {
		b.sendMessage(fmt.Sprintf("⏸ Paused *%s*. History is kept, alerts stop.", rem.Medicine.Name))
	}
}

func (b *Bot) handleDelete(ctx context.Context, msg *tgbotapi.Message) {
	rem, ok := b.resolveByPrefix(ctx, msg.CommandArguments())
	if !ok {
		return
	}

	b.dispatcher.Cancel(ctx, rem.NotificationIDs)
	if err := b.repos.Reminders.Delete(ctx, rem.ID); err != nil {
		log.Printf("Failed to delete reminder %s: %v", rem.ID, err)
		b.sendMessage("❌ Failed to delete the reminder")
		return
	}
	b.sendMessage(fmt.Sprintf("🗑 Deleted *%s*. Its intake history is kept for reporting.", rem.Medicine.Name))
}

func (b *Bot) handleNarrate(ctx context.Context, msg *tgbotapi.Message) {
	if b.ai == nil {
		b.sendMessage("AI features are not configured.")
		return
	}
	rem, ok := b.resolveByPrefix(ctx, msg.CommandArguments())
	if !ok {
		return
	}

	text, err := b.ai.MedicationNarrative(ctx, *rem)
	if err != nil {
		log.Printf("Narrative generation failed for %s: %v", rem.ID, err)
		b.sendMessage("❌ Could not generate the explanation right now")
		return
	}
	b.sendMessage(text)
}

func (b *Bot) handleExport(ctx context.Context, msg *tgbotapi.Message) {
	rem, ok := b.resolveByPrefix(ctx, msg.CommandArguments())
	if !ok {
		return
	}

	rule, err := rrule.ExportString(*rem, time.Local)
	if err != nil {
		b.sendMessage("❌ " + err.Error())
		return
	}
	b.sendMessage(fmt.Sprintf("📆 *%s*\n`%s`", rem.Medicine.Name, rule))
}

func (b *Bot) handleSettings(ctx context.Context, msg *tgbotapi.Message) {
	st, err := b.repos.Settings.Load(ctx)
	if err != nil {
		log.Printf("Failed to load settings: %v", err)
		b.sendMessage("❌ Failed to load settings")
		return
	}

	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		b.sendMessage(fmt.Sprintf(`⚙️ *Settings*

Push alerts: %s
Sound: %s
Snooze: %d min
Advance: %d min

Change with /settings push|sound on|off or /settings snooze|advance <minutes>`,
			onOff(st.PushEnabled), onOff(st.SoundEnabled), st.SnoozeMinutes, st.AdvanceMinutes))
		return
	}
	if len(args) != 2 {
		b.sendMessage("Usage: /settings <push|sound|snooze|advance> <value>")
		return
	}

	rescheduleAll := false
	switch args[0] {
	case "push":
		v, err := parseOnOff(args[1])
		if err != nil {
			b.sendMessage("Usage: /settings push on|off")
			return
		}
		st.PushEnabled = v
		rescheduleAll = true
	case "sound":
		v, err := parseOnOff(args[1])
		if err != nil {
			b.sendMessage("Usage: /settings sound on|off")
			return
		}
		st.SoundEnabled = v
	case "snooze", "advance":
		n, err := strconv.Atoi(args[1])
		if err != nil {
			b.sendMessage("Usage: /settings " + args[0] + " <minutes>")
			return
		}
		if args[0] == "snooze" {
			st.SnoozeMinutes = n
		} else {
			st.AdvanceMinutes = n
			rescheduleAll = true
		}
	default:
		b.sendMessage("Unknown setting, see /settings")
		return
	}

	if err := b.repos.Settings.Save(ctx, st); err != nil {
		b.sendMessage("❌ " + err.Error())
		return
	}
	b.notifier.SetSound(st.SoundEnabled)

	if rescheduleAll {
		b.redispatchAll(ctx, st)
	}
	b.sendMessage("✅ Settings updated")
}

// resolveByPrefix finds a reminder by a unique id prefix, the short form
// shown by /list. Sends the error message itself when lookup fails.
func (b *Bot) resolveByPrefix(ctx context.Context, arg string) (*models.Reminder, bool) {
	prefix := strings.TrimSpace(arg)
	if prefix == "" {
		b.sendMessage("Give me a reminder id, see /list")
		return nil, false
	}

	rems, err := b.repos.Reminders.List(ctx)
	if err != nil {
		log.Printf("Failed to list reminders: %v", err)
		b.sendMessage("❌ Failed to load reminders")
		return nil, false
	}

	var match *models.Reminder
	for _, rem := range rems {
		if strings.HasPrefix(rem.ID, prefix) {
			if match != nil {
				b.sendMessage("That id prefix matches more than one reminder, use more characters")
				return nil, false
			}
			match = rem
		}
	}
	if match == nil {
		b.sendMessage("No reminder matches that id, see /list")
		return nil, false
	}
	return match, true
}

// redispatch replaces a reminder's outstanding alerts under the current
// settings and stores the new handles.
func (b *Bot) redispatch(ctx context.Context, rem *models.Reminder) {
	st, err := b.repos.Settings.Load(ctx)
	if err != nil {
		log.Printf("Failed to load settings, using defaults: %v", err)
		st = models.DefaultNotificationSettings()
	}
	b.redispatchOne(ctx, rem, st)
}

func (b *Bot) redispatchOne(ctx context.Context, rem *models.Reminder, st models.NotificationSettings) {
	handles, err := b.dispatcher.Schedule(ctx, *rem, st, time.Now())
	if err != nil && !errors.Is(err, notify.ErrPermissionDenied) {
		log.Printf("Failed to schedule alerts for %s: %v", rem.ID, err)
	}
	if err := b.repos.Reminders.SetNotificationIDs(ctx, rem.ID, handles); err != nil {
		log.Printf("Failed to store notification handles for %s: %v", rem.ID, err)
	}
	rem.NotificationIDs = handles
}

func (b *Bot) redispatchAll(ctx context.Context, st models.NotificationSettings) {
	rems, err := b.repos.Reminders.List(ctx)
	if err != nil {
		log.Printf("Failed to list reminders: %v", err)
		return
	}
	for _, rem := range rems {
		b.redispatchOne(ctx, rem, st)
	}
}

func statusEmoji(s models.IntakeStatus) string {
	switch s {
	case models.StatusTaken:
		return "✅"
	case models.StatusSkipped:
		return "⏭"
	case models.StatusMissed:
		return "❌"
	default:
		return "⏳"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("want on or off, got %q", s)
	}
}
