package scheduling

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/brightsmile-dental/voice-assistant/internal/clinic"
	"github.com/brightsmile-dental/voice-assistant/pkg/logging"
)

func newTestPostgres(t *testing.T) (*Postgres, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	p := NewPostgres(mock, clinic.NewInfo(), "Dr. Ana Popescu", logging.NewWithWriter("error", io.Discard))
	return p, mock
}

func TestPostgresCheckAvailability(t *testing.T) {
	p, mock := newTestPostgres(t)
	ctx := context.Background()

	// A 90-minute appointment at 09:00 blocks the 10:00 hourly slot.
	mock.ExpectQuery("SELECT start_time, duration_minutes").
		WithArgs("2026-09-01", "").
		WillReturnRows(pgxmock.NewRows([]string{"start_time", "duration_minutes"}).
			AddRow("09:00", 90))
	if p.CheckAvailability(ctx, "2026-09-01", "10:00", 60, "") {
		t.Error("overlapping appointment must make slot unavailable")
	}

	mock.ExpectQuery("SELECT start_time, duration_minutes").
		WithArgs("2026-09-01", "").
		WillReturnRows(pgxmock.NewRows([]string{"start_time", "duration_minutes"}).
			AddRow("09:00", 90))
	if !p.CheckAvailability(ctx, "2026-09-01", "11:00", 60, "") {
		t.Error("non-overlapping slot should be available")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCheckAvailabilityFailsClosed(t *testing.T) {
	p, mock := newTestPostgres(t)

	mock.ExpectQuery("SELECT start_time, duration_minutes").
		WithArgs("2026-09-01", "").
		WillReturnError(errors.New("connection reset"))
	if p.CheckAvailability(context.Background(), "2026-09-01", "11:00", 60, "") {
		t.Error("query failure must report unavailable")
	}

	if p.CheckAvailability(context.Background(), "2026-09-01", "11:00", 60, "Dr. Necunoscut") {
		t.Error("unknown doctor must be unavailable")
	}
}

func TestPostgresCreateAppointment(t *testing.T) {
	p, mock := newTestPostgres(t)

	mock.ExpectExec("INSERT INTO appointments").
		WithArgs(pgxmock.AnyArg(), "Maria Pop", "0722000000", "2026-09-01", "11:00",
			120, "root_canal", "Dr. Ana Popescu", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	// Doctor omitted: the default doctor is booked, and the duration
	// comes from the service catalog.
	id, ok := p.CreateAppointment(context.Background(), NewAppointment{
		PatientName: "Maria Pop",
		Phone:       "0722000000",
		Date:        "2026-09-01",
		Time:        "11:00",
		Service:     "root_canal",
	})
	if !ok || id == "" {
		t.Fatalf("create failed, id=%q ok=%v", id, ok)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCancelAppointment(t *testing.T) {
	p, mock := newTestPostgres(t)
	ctx := context.Background()

	mock.ExpectExec("UPDATE appointments").
		WithArgs("abc-123").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	if !p.CancelAppointment(ctx, "abc-123") {
		t.Error("first cancel should succeed")
	}

	// Status predicate no longer matches, zero rows updated.
	mock.ExpectExec("UPDATE appointments").
		WithArgs("abc-123").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	if p.CancelAppointment(ctx, "abc-123") {
		t.Error("second cancel must return false")
	}
}

func TestPostgresUpdateAppointment(t *testing.T) {
	p, mock := newTestPostgres(t)

	mock.ExpectExec("UPDATE appointments").
		WithArgs("abc-123", "2026-09-02", "13:00").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	if !p.UpdateAppointment(context.Background(), "abc-123", Update{Date: "2026-09-02", Time: "13:00"}) {
		t.Error("update should succeed")
	}

	mock.ExpectExec("UPDATE appointments").
		WithArgs("missing", "2026-09-02", "").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	if p.UpdateAppointment(context.Background(), "missing", Update{Date: "2026-09-02"}) {
		t.Error("unknown id should not update")
	}
}

func TestPostgresFindAppointment(t *testing.T) {
	p, mock := newTestPostgres(t)
	ctx := context.Background()
	created := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, patient_name").
		WithArgs("Maria Pop", "").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "patient_name", "phone", "date", "start_time",
			"service", "doctor", "status", "created_at",
		}).AddRow("abc-123", "Maria Pop", "0722000000", "2026-09-01", "11:00",
			"teeth_cleaning", "Dr. Ana Popescu", "scheduled", created))

	appt, found := p.FindAppointment(ctx, "Maria Pop", "")
	if !found {
		t.Fatal("find failed")
	}
	if appt.ID != "abc-123" || appt.Time != "11:00" || appt.Status != StatusScheduled {
		t.Errorf("unexpected appointment: %+v", appt)
	}

	mock.ExpectQuery("SELECT id, patient_name").
		WithArgs("Nimeni Niciodata", "").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "patient_name", "phone", "date", "start_time",
			"service", "doctor", "status", "created_at",
		}))
	if _, found := p.FindAppointment(ctx, "Nimeni Niciodata", ""); found {
		t.Error("no rows should report not found")
	}
}
