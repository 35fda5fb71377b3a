package scheduling

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightsmile-dental/voice-assistant/internal/clinic"
	"github.com/brightsmile-dental/voice-assistant/internal/config"
	"github.com/brightsmile-dental/voice-assistant/pkg/logging"
)

// NewBackend builds the backend named by cfg.SchedulingBackend.
// "mock" is the development default and needs no credentials.
func NewBackend(ctx context.Context, cfg *config.Config, info *clinic.Info, logger *logging.Logger) (Backend, error) {
	switch cfg.SchedulingBackend {
	case "", "mock":
		return NewMock(cfg.DefaultDoctor), nil

	case "google_calendar":
		calendars, err := parseDoctorCalendars(cfg.DoctorCalendarsJSON)
		if err != nil {
			return nil, err
		}
		return NewGoogleCalendar(ctx, GoogleCalendarConfig{
			ServiceAccountFile: cfg.GoogleServiceAccountFile,
			DoctorCalendars:    calendars,
			Timezone:           cfg.Timezone,
			DefaultDoctor:      cfg.DefaultDoctor,
		}, info, logger)

	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("scheduling: DATABASE_URL required for postgres backend")
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("scheduling: connect postgres: %w", err)
		}
		return NewPostgres(pool, info, cfg.DefaultDoctor, logger), nil

	default:
		return nil, fmt.Errorf("scheduling: unknown backend %q", cfg.SchedulingBackend)
	}
}

// parseDoctorCalendars decodes the DOCTOR_CALENDARS_JSON map of doctor
// display name to calendar id.
func parseDoctorCalendars(raw string) (map[string]string, error) {
	if raw == "" {
		return nil, fmt.Errorf("scheduling: DOCTOR_CALENDARS_JSON required for google_calendar backend")
	}
	var calendars map[string]string
	if err := json.Unmarshal([]byte(raw), &calendars); err != nil {
		return nil, fmt.Errorf("scheduling: decode DOCTOR_CALENDARS_JSON: %w", err)
	}
	if len(calendars) == 0 {
		return nil, fmt.Errorf("scheduling: DOCTOR_CALENDARS_JSON has no entries")
	}
	return calendars, nil
}
