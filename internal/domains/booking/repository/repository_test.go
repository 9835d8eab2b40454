package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appointly/infras/otel/mocks"
	"appointly/infras/postgres"
	"appointly/internal/domains/booking/model"
	"appointly/internal/domains/booking/repository"
	"appointly/internal/scheduling"
	"appointly/shared/failure"
)

var (
	start = time.Date(2026, 3, 2, 1, 30, 0, 0, time.UTC)
	end   = start.Add(30 * time.Minute)
)

var activeColumns = []string{"id", "scope_id", "start_time", "end_time", "status", "seat"}

func newRepository(t *testing.T) (repository.Booking, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	return repository.New(postgres.NewFromDB(sqlx.NewDb(db, "postgres")), mocks.NewOtel()), mock
}

func newBooking() model.Booking {
	return model.Booking{
		ID:          "booking-new",
		ScopeID:     "scope-1",
		ScopeKind:   "campaign",
		ClientName:  "Ana",
		ClientEmail: "ana@example.com",
		StartTime:   start,
		EndTime:     end,
		Status:      model.StatusConfirmed,
		AccessCode:  "0123456789abcdef0123456789abcdef",
	}
}

func TestInsertGuarded_AssignsLowestFreeSeat(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs("scope-1|2026-03-02T01:30:00Z").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE scope_id = \\$1").
		WithArgs("scope-1", start, end).
		WillReturnRows(sqlmock.NewRows(activeColumns).
			AddRow("a", "scope-1", start, end, "confirmed", 0).
			AddRow("b", "scope-1", start, end, "confirmed", 2))
	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	res, err := repo.InsertGuarded(context.Background(), newBooking(), model.Guard{Capacity: 3, Mode: scheduling.ModeStartInRange})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Seat)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertGuarded_FullSlot(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE scope_id = \\$1").
		WillReturnRows(sqlmock.NewRows(activeColumns).AddRow("a", "scope-1", start, end, "confirmed", 0))
	mock.ExpectRollback()

	_, err := repo.InsertGuarded(context.Background(), newBooking(), model.Guard{Capacity: 1, Mode: scheduling.ModeStartInRange})
	require.Error(t, err)
	assert.True(t, failure.IsKind(err, failure.KindSlotTaken))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertGuarded_OverlapLocksScope(t *testing.T) {
	repo, mock := newRepository(t)

	earlier := start.Add(-15 * time.Minute)

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WithArgs("scope-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE scope_id = \\$1").
		WillReturnRows(sqlmock.NewRows(activeColumns).AddRow("a", "scope-1", earlier, earlier.Add(30*time.Minute), "confirmed", 0))
	mock.ExpectRollback()

	booking := newBooking()
	booking.ScopeKind = "event"

	_, err := repo.InsertGuarded(context.Background(), booking, model.Guard{Capacity: 1, Mode: scheduling.ModeOverlap})
	require.Error(t, err)
	assert.True(t, failure.IsKind(err, failure.KindSlotTaken))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertGuarded_ConstraintViolation(t *testing.T) {
	tests := []struct {
		name       string
		code       pq.ErrorCode
		constraint string
		wantKind   failure.Kind
	}{
		{name: "seat", code: "23505", constraint: model.ConstraintSeat, wantKind: failure.KindSlotTaken},
		{name: "campaign email", code: "23505", constraint: model.ConstraintClientEmail, wantKind: failure.KindDuplicateBooking},
		{name: "scope deleted", code: "23503", constraint: "bookings_scope_id_fkey", wantKind: failure.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepository(t)

			mock.ExpectBegin()
			mock.ExpectExec("SELECT pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectQuery("SELECT (.+) FROM bookings WHERE scope_id = \\$1").WillReturnRows(sqlmock.NewRows(activeColumns))
			mock.ExpectExec("INSERT INTO bookings").WillReturnError(&pq.Error{Code: tt.code, Constraint: tt.constraint})
			mock.ExpectRollback()

			_, err := repo.InsertGuarded(context.Background(), newBooking(), model.Guard{Capacity: 1, Mode: scheduling.ModeStartInRange})
			require.Error(t, err)
			assert.True(t, failure.IsKind(err, tt.wantKind))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRescheduleGuarded(t *testing.T) {
	repo, mock := newRepository(t)

	newStart := start.Add(time.Hour)
	newEnd := newStart.Add(30 * time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1 FOR UPDATE").
		WithArgs("booking-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "scope_id", "start_time", "end_time", "status", "seat", "rescheduled_count"}).
			AddRow("booking-1", "scope-1", start, end, "confirmed", 0, 1))
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE scope_id = \\$1").
		WithArgs("scope-1", newStart, newEnd).
		WillReturnRows(sqlmock.NewRows(activeColumns).AddRow("other", "scope-1", newStart, newEnd, "confirmed", 0))
	mock.ExpectExec("UPDATE bookings SET status = \\$2").
		WithArgs("booking-1", model.StatusRescheduled, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET start_time = \\$2").
		WithArgs("booking-1", newStart, newEnd, 1, model.StatusConfirmed, sqlmock.AnyArg(), "guest").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := repo.RescheduleGuarded(context.Background(), "booking-1", newStart, newEnd,
		model.Guard{Capacity: 2, Mode: scheduling.ModeStartInRange}, "guest")
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, res.Status)
	assert.Equal(t, 2, res.RescheduledCount)
	assert.Equal(t, 1, res.Seat)
	assert.True(t, res.StartTime.Equal(newStart))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRescheduleGuarded_Rejected(t *testing.T) {
	t.Run("terminal status", func(t *testing.T) {
		repo, mock := newRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").
			WillReturnRows(sqlmock.NewRows([]string{"id", "scope_id", "status"}).AddRow("booking-1", "scope-1", "cancelled"))
		mock.ExpectRollback()

		_, err := repo.RescheduleGuarded(context.Background(), "booking-1", start, end,
			model.Guard{Capacity: 1, Mode: scheduling.ModeStartInRange}, "guest")
		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindInvalidState))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("slot taken leaves row untouched", func(t *testing.T) {
		repo, mock := newRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").
			WillReturnRows(sqlmock.NewRows([]string{"id", "scope_id", "status"}).AddRow("booking-1", "scope-1", "confirmed"))
		mock.ExpectExec("SELECT pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE scope_id = \\$1").
			WillReturnRows(sqlmock.NewRows(activeColumns).AddRow("other", "scope-1", start, end, "confirmed", 0))
		mock.ExpectRollback()

		_, err := repo.RescheduleGuarded(context.Background(), "booking-1", start, end,
			model.Guard{Capacity: 1, Mode: scheduling.ModeStartInRange}, "guest")
		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindSlotTaken))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransition(t *testing.T) {
	reason := "sick"

	t.Run("applied", func(t *testing.T) {
		repo, mock := newRepository(t)

		mock.ExpectExec("UPDATE bookings SET status = \\$3").
			WithArgs("booking-1", model.StatusConfirmed, model.StatusCancelled, &reason, sqlmock.AnyArg(), sqlmock.AnyArg(), "guest").
			WillReturnResult(sqlmock.NewResult(0, 1))

		res, err := repo.Transition(context.Background(), model.Booking{ID: "booking-1", Status: model.StatusConfirmed},
			model.StatusCancelled, &reason, "guest")
		require.NoError(t, err)
		assert.Equal(t, model.StatusCancelled, res.Status)
		assert.NotNil(t, res.CancelledAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lost race", func(t *testing.T) {
		repo, mock := newRepository(t)

		mock.ExpectExec("UPDATE bookings SET status = \\$3").WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := repo.Transition(context.Background(), model.Booking{ID: "booking-1", Status: model.StatusConfirmed},
			model.StatusCompleted, nil, "owner-1")
		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindInvalidState))
	})
}

func TestListActiveBetween(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectPrepare("SELECT (.+) FROM bookings (.+) ORDER BY bookings.start_time ASC").
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows(activeColumns).AddRow("a", "scope-1", start, end, "confirmed", 0))

	res, err := repo.ListActiveBetween(context.Background(), "scope-1", start, end)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "a", res[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
