package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/brightsmile-dental/voice-assistant/internal/clinic"
	"github.com/brightsmile-dental/voice-assistant/pkg/logging"
)

// Querier is the pgx surface the backend needs. *pgxpool.Pool and
// pgxmock both satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres stores appointments in a single table. All doctors share
// the table; a doctor column scopes per-doctor queries.
type Postgres struct {
	db            Querier
	info          *clinic.Info
	defaultDoctor string
	logger        *logging.Logger
	now           func() time.Time
}

// NewPostgres builds the backend. db is typically *pgxpool.Pool.
func NewPostgres(db Querier, info *clinic.Info, defaultDoctor string, logger *logging.Logger) *Postgres {
	if logger == nil {
		logger = logging.Default()
	}
	return &Postgres{
		db:            db,
		info:          info,
		defaultDoctor: defaultDoctor,
		logger:        logger,
		now:           time.Now,
	}
}

func (p *Postgres) knownDoctor(doctor string) bool {
	_, ok := p.info.DentistByName(doctor)
	return ok
}

// CheckAvailability loads the scheduled appointments for the date and
// computes overlaps in Go. With an empty doctor any overlapping
// appointment makes the clinic busy; with a named doctor only that
// doctor's rows count. Query failures report unavailable.
func (p *Postgres) CheckAvailability(ctx context.Context, date, startTime string, durationMinutes int, doctor string) bool {
	start, err := clockMinutes(startTime)
	if err != nil {
		return false
	}
	if durationMinutes <= 0 {
		durationMinutes = 60
	}
	if doctor != "" && !p.knownDoctor(doctor) {
		p.logger.Warn("availability check for unknown doctor", "doctor", doctor)
		return false
	}

	rows, err := p.db.Query(ctx, `
		SELECT start_time, duration_minutes
		FROM appointments
		WHERE date = $1 AND status = 'scheduled' AND ($2 = '' OR doctor = $2)
	`, date, doctor)
	if err != nil {
		p.logger.Warn("availability query failed", "error", err)
		return false
	}
	defer rows.Close()

	for rows.Next() {
		var bookedTime string
		var bookedDuration int
		if err := rows.Scan(&bookedTime, &bookedDuration); err != nil {
			p.logger.Warn("availability scan failed", "error", err)
			return false
		}
		booked, err := clockMinutes(bookedTime)
		if err != nil {
			continue
		}
		if overlaps(start, durationMinutes, booked, bookedDuration) {
			return false
		}
	}
	if err := rows.Err(); err != nil {
		p.logger.Warn("availability rows failed", "error", err)
		return false
	}
	return true
}

// AvailableSlots probes the hourly catalog through CheckAvailability.
func (p *Postgres) AvailableSlots(ctx context.Context, date, doctor string) []string {
	var free []string
	for _, slot := range businessSlots() {
		if p.CheckAvailability(ctx, date, slot, 60, doctor) {
			free = append(free, slot)
		}
	}
	return free
}

// CreateAppointment inserts a row with a uuid id.
func (p *Postgres) CreateAppointment(ctx context.Context, appt NewAppointment) (string, bool) {
	doctor := appt.Doctor
	if doctor == "" {
		doctor = p.defaultDoctor
	}
	if !p.knownDoctor(doctor) {
		p.logger.Warn("create for unknown doctor", "doctor", doctor)
		return "", false
	}

	duration := appt.DurationMinutes
	if duration <= 0 {
		duration = 60
		if svc, ok := p.info.Service(appt.Service); ok {
			duration = svc.Duration
		}
	}

	id := uuid.NewString()
	if _, err := p.db.Exec(ctx, `
		INSERT INTO appointments (
			id, patient_name, phone, date, start_time,
			duration_minutes, service, doctor, status, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,'scheduled',$9)
	`, id, appt.PatientName, appt.Phone, appt.Date, appt.Time,
		duration, appt.Service, doctor, p.now().UTC()); err != nil {
		p.logger.Error("appointment insert failed", "error", err)
		return "", false
	}
	return id, true
}

// CancelAppointment flips status. Cancelling twice fails the second
// time because the status predicate no longer matches.
func (p *Postgres) CancelAppointment(ctx context.Context, id string) bool {
	tag, err := p.db.Exec(ctx, `
		UPDATE appointments
		SET status = 'cancelled'
		WHERE id = $1 AND status = 'scheduled'
	`, id)
	if err != nil {
		p.logger.Error("appointment cancel failed", "appointment_id", id, "error", err)
		return false
	}
	return tag.RowsAffected() > 0
}

// UpdateAppointment rewrites date and/or time, leaving the duration
// column untouched.
func (p *Postgres) UpdateAppointment(ctx context.Context, id string, upd Update) bool {
	tag, err := p.db.Exec(ctx, `
		UPDATE appointments
		SET date = COALESCE(NULLIF($2, ''), date),
		    start_time = COALESCE(NULLIF($3, ''), start_time)
		WHERE id = $1 AND status = 'scheduled'
	`, id, upd.Date, upd.Time)
	if err != nil {
		p.logger.Error("appointment update failed", "appointment_id", id, "error", err)
		return false
	}
	return tag.RowsAffected() > 0
}

// FindAppointment returns the earliest-created scheduled match.
func (p *Postgres) FindAppointment(ctx context.Context, patientName, phone string) (*Appointment, bool) {
	var appt Appointment
	err := p.db.QueryRow(ctx, `
		SELECT id, patient_name, phone, date, start_time, service, doctor, status, created_at
		FROM appointments
		WHERE LOWER(patient_name) = LOWER($1)
		  AND status = 'scheduled'
		  AND ($2 = '' OR phone = $2)
		ORDER BY created_at ASC
		LIMIT 1
	`, patientName, phone).Scan(
		&appt.ID, &appt.PatientName, &appt.Phone, &appt.Date, &appt.Time,
		&appt.Service, &appt.Doctor, &appt.Status, &appt.CreatedAt,
	)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			p.logger.Warn("appointment lookup failed", "error", err)
		}
		return nil, false
	}
	return &appt, true
}
