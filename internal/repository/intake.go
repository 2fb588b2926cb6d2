package repository

import (
	"context"
	"time"

	"github.com/dhruvj27/rxscan/internal/database"
	"github.com/dhruvj27/rxscan/internal/models"
)

type IntakeLogRepository struct {
	db *database.DB
}

func NewIntakeLogRepository(db *database.DB) *IntakeLogRepository {
	return &IntakeLogRepository{db: db}
}

func (r *IntakeLogRepository) Append(ctx context.Context, entry *models.IntakeLog) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO intake_logs (id, reminder_id, scheduled_for, logged_at, status, note)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING logged_at`,
		entry.ID, entry.ReminderID, entry.ScheduledFor, entry.LoggedAt, string(entry.Status), entry.Note,
	).Scan(&entry.LoggedAt)
}

// ListBetween returns entries whose logged time falls in [from, to].
func (r *IntakeLogRepository) ListBetween(ctx context.Context, from, to time.Time) ([]models.IntakeLog, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, reminder_id, scheduled_for, logged_at, status, note
		 FROM intake_logs WHERE logged_at >= $1 AND logged_at <= $2
		 ORDER BY logged_at ASC`,
		from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIntakeLogs(rows)
}

func (r *IntakeLogRepository) ListByReminder(ctx context.Context, reminderID string, from, to time.Time) ([]models.IntakeLog, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, reminder_id, scheduled_for, logged_at, status, note
		 FROM intake_logs WHERE reminder_id = $1 AND logged_at >= $2 AND logged_at <= $3
		 ORDER BY logged_at ASC`,
		reminderID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIntakeLogs(rows)
}

// HasEntryScheduledBetween reports whether any entry for the reminder has a
// scheduled time inside [from, to). The missed-intake sweep uses it to avoid
// double-writing an occurrence that was already answered.
func (r *IntakeLogRepository) HasEntryScheduledBetween(ctx context.Context, reminderID string, from, to time.Time) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM intake_logs
		 WHERE reminder_id = $1 AND scheduled_for >= $2 AND scheduled_for < $3)`,
		reminderID, from, to,
	).Scan(&exists)
	return exists, err
}

type intakeRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanIntakeLogs(rows intakeRows) ([]models.IntakeLog, error) {
	var entries []models.IntakeLog
	for rows.Next() {
		var (
			entry  models.IntakeLog
			status string
		)
		if err := rows.Scan(&entry.ID, &entry.ReminderID, &entry.ScheduledFor,
			&entry.LoggedAt, &status, &entry.Note); err != nil {
			return nil, err
		}
		entry.Status = models.IntakeStatus(status)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
