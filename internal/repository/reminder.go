package repository

import (
	"context"
	"time"

	"github.com/dhruvj27/rxscan/internal/database"
	"github.com/dhruvj27/rxscan/internal/models"
)

const reminderColumns = `id, medicine_name, dosage, instructions, doctor, time_of_day,
	frequency, custom_interval, start_date, end_date, is_active, notification_ids,
	created_at, updated_at`

type ReminderRepository struct {
	db *database.DB
}

func NewReminderRepository(db *database.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) Create(ctx context.Context, rem *models.Reminder) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO reminders (id, medicine_name, dosage, instructions, doctor, time_of_day,
		 frequency, custom_interval, start_date, end_date, is_active, notification_ids)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING created_at, updated_at`,
		rem.ID, rem.Medicine.Name, rem.Medicine.Dosage, rem.Medicine.Instructions, rem.Doctor,
		rem.Time.String(), string(rem.Frequency), rem.CustomInterval,
		rem.StartDate.String(), rem.EndDate.String(), rem.Active, rem.NotificationIDs,
	).Scan(&rem.CreatedAt, &rem.UpdatedAt)
}

func (r *ReminderRepository) GetByID(ctx context.Context, id string) (*models.Reminder, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE id = $1`, id)
	return scanReminder(row)
}

func (r *ReminderRepository) List(ctx context.Context) ([]*models.Reminder, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+reminderColumns+` FROM reminders ORDER BY time_of_day ASC, created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []*models.Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}

func (r *ReminderRepository) ListActive(ctx context.Context) ([]*models.Reminder, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE is_active = true
		 ORDER BY time_of_day ASC, created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []*models.Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}

func (r *ReminderRepository) Update(ctx context.Context, rem *models.Reminder) error {
	return r.db.Pool.QueryRow(ctx,
		`UPDATE reminders SET medicine_name = $1, dosage = $2, instructions = $3, doctor = $4,
		 time_of_day = $5, frequency = $6, custom_interval = $7, start_date = $8, end_date = $9,
		 is_active = $10, notification_ids = $11, updated_at = NOW()
		 WHERE id = $12
		 RETURNING updated_at`,
		rem.Medicine.Name, rem.Medicine.Dosage, rem.Medicine.Instructions, rem.Doctor,
		rem.Time.String(), string(rem.Frequency), rem.CustomInterval,
		rem.StartDate.String(), rem.EndDate.String(), rem.Active, rem.NotificationIDs, rem.ID,
	).Scan(&rem.UpdatedAt)
}

func (r *ReminderRepository) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE reminders SET is_active = $1, updated_at = NOW() WHERE id = $2`,
		active, id,
	)
	return err
}

// SetNotificationIDs replaces the outstanding handle list after a dispatch.
func (r *ReminderRepository) SetNotificationIDs(ctx context.Context, id string, handles []string) error {
	if handles == nil {
		handles = []string{}
	}
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE reminders SET notification_ids = $1, updated_at = NOW() WHERE id = $2`,
		handles, id,
	)
	return err
}

func (r *ReminderRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	return err
}

type reminderRow interface {
	Scan(dest ...any) error
}

func scanReminder(row reminderRow) (*models.Reminder, error) {
	var (
		rem       models.Reminder
		timeOfDay string
		frequency string
		startDate time.Time
		endDate   time.Time
	)
	err := row.Scan(&rem.ID, &rem.Medicine.Name, &rem.Medicine.Dosage, &rem.Medicine.Instructions,
		&rem.Doctor, &timeOfDay, &frequency, &rem.CustomInterval, &startDate, &endDate,
		&rem.Active, &rem.NotificationIDs, &rem.CreatedAt, &rem.UpdatedAt)
	if err != nil {
		return nil, err
	}

	rem.Time, err = models.ParseTimeOfDay(timeOfDay)
	if err != nil {
		return nil, err
	}
	rem.Frequency = models.Frequency(frequency)
	rem.StartDate = models.DateOf(startDate)
	rem.EndDate = models.DateOf(endDate)
	return &rem, nil
}
