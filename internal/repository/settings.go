package repository

import (
	"context"

	"github.com/dhruvj27/rxscan/internal/database"
	"github.com/dhruvj27/rxscan/internal/models"
)

// SettingsRepository persists the single process-wide notification settings
// row.
type SettingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Load returns the stored settings, seeding the defaults on first use.
func (r *SettingsRepository) Load(ctx context.Context) (models.NotificationSettings, error) {
	defaults := models.DefaultNotificationSettings()
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO notification_settings (id, push_enabled, sound_enabled, snooze_minutes, advance_minutes)
		 VALUES (1, $1, $2, $3, $4)
		 ON CONFLICT (id) DO NOTHING`,
		defaults.PushEnabled, defaults.SoundEnabled, defaults.SnoozeMinutes, defaults.AdvanceMinutes,
	)
	if err != nil {
		return models.NotificationSettings{}, err
	}

	var st models.NotificationSettings
	err = r.db.Pool.QueryRow(ctx,
		`SELECT push_enabled, sound_enabled, snooze_minutes, advance_minutes, updated_at
		 FROM notification_settings WHERE id = 1`,
	).Scan(&st.PushEnabled, &st.SoundEnabled, &st.SnoozeMinutes, &st.AdvanceMinutes, &st.UpdatedAt)
	if err != nil {
		return models.NotificationSettings{}, err
	}
	return st, nil
}

func (r *SettingsRepository) Save(ctx context.Context, st models.NotificationSettings) error {
	if err := st.Validate(); err != nil {
		return err
	}
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO notification_settings (id, push_enabled, sound_enabled, snooze_minutes, advance_minutes, updated_at)
		 VALUES (1, $1, $2, $3, $4, NOW())
		 ON CONFLICT (id) DO UPDATE SET
			push_enabled = EXCLUDED.push_enabled,
			sound_enabled = EXCLUDED.sound_enabled,
			snooze_minutes = EXCLUDED.snooze_minutes,
			advance_minutes = EXCLUDED.advance_minutes,
			updated_at = NOW()`,
		st.PushEnabled, st.SoundEnabled, st.SnoozeMinutes, st.AdvanceMinutes,
	)
	return err
}
