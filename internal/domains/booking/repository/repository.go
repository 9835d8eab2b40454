package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"appointly/infras/otel"
	"appointly/infras/postgres"
	"appointly/internal/domains/booking/model"
	"appointly/internal/scheduling"
	"appointly/shared/constant"
	gDto "appointly/shared/dto"
	"appointly/shared/failure"
	"appointly/shared/logger"
	gRepo "appointly/shared/repository"
)

const (
	lockQuery = "SELECT pg_advisory_xact_lock(hashtext($1))"

	activeInRangeQuery = "SELECT %s FROM bookings WHERE scope_id = $1 AND status <> 'cancelled' " +
		"AND start_time < $3 AND end_time > $2"

	lockRowQuery = "SELECT %s FROM bookings WHERE id = $1 FOR UPDATE"

	markRescheduledQuery = "UPDATE bookings SET status = $2, modified_at = $3 WHERE id = $1"

	moveQuery = "UPDATE bookings SET start_time = $2, end_time = $3, seat = $4, status = $5, " +
		"rescheduled_count = rescheduled_count + 1, modified_at = $6, modified_by = $7 WHERE id = $1"

	transitionQuery = "UPDATE bookings SET status = $3, cancel_reason = $4, cancelled_at = $5, " +
		"modified_at = $6, modified_by = $7 WHERE id = $1 AND status = $2"
)

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	// ListActiveBetween returns non-cancelled bookings of a scope overlapping [from, to).
	ListActiveBetween(ctx context.Context, scopeID string, from, to time.Time) ([]model.Booking, error)
	// InsertGuarded serialises on the slot, recounts and assigns the lowest free seat before inserting.
	InsertGuarded(ctx context.Context, booking model.Booking, guard model.Guard) (model.Booking, error)
	// RescheduleGuarded moves a confirmed booking to [start, end) under the same guard as InsertGuarded.
	RescheduleGuarded(ctx context.Context, id string, start, end time.Time, guard model.Guard, actor string) (model.Booking, error)
	// Transition changes status only if the row still has booking.Status.
	Transition(ctx context.Context, booking model.Booking, next model.Status, reason *string, actor string) (model.Booking, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) ListActiveBetween(ctx context.Context, scopeID string, from, to time.Time) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ListActiveBetween")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldScopeID, Value: scopeID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Value: model.StatusCancelled, Operator: gDto.FilterOperatorNotEq, Table: model.TableName},
			gDto.Filter{
				Field:    model.FieldStartTime,
				ArgName:  "range_end",
				Value:    to,
				Operator: gDto.FilterOperatorLess,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldEndTime,
				ArgName:  "range_start",
				Value:    from,
				Operator: gDto.FilterOperatorGreater,
				Table:    model.TableName,
			},
		},
	}

	return r.GetAll(ctx, gDto.QueryParams{ //nolint:wrapcheck
		SortBy:  model.TableName + "." + model.FieldStartTime,
		SortDir: gDto.SortDirAsc,
	}, filter)
}

func (r *repositoryImpl) InsertGuarded(ctx context.Context, booking model.Booking, guard model.Guard) (model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.InsertGuarded")
	defer scope.End()

	err := r.db.ExecuteTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := r.lock(ctx, tx, lockKey(booking.ScopeID, booking.StartTime, guard.Mode)); err != nil {
			return err
		}

		seat, err := r.claimSeat(ctx, tx, booking.ScopeID, booking.StartTime, booking.EndTime, guard, "")
		if err != nil {
			return err
		}

		booking.Seat = seat

		if err = r.InsertTx(ctx, tx, booking); err != nil {
			return constraintViolation(err)
		}

		return nil
	})
	if err != nil {
		scope.TraceError(err)

		return model.Booking{}, err //nolint:wrapcheck
	}

	return booking, nil
}

func (r *repositoryImpl) RescheduleGuarded(
	ctx context.Context,
	id string,
	start, end time.Time,
	guard model.Guard,
	actor string,
) (res model.Booking, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.RescheduleGuarded")
	defer scope.End()

	err = r.db.ExecuteTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		current, err := r.lockRow(ctx, tx, id)
		if err != nil {
			return err
		}

		if !current.Status.CanTransition(model.StatusRescheduled) {
			return failure.InvalidState(fmt.Sprintf("booking is %s and cannot be rescheduled", current.Status)) //nolint:wrapcheck
		}

		if err = r.lock(ctx, tx, lockKey(current.ScopeID, start, guard.Mode)); err != nil {
			return err
		}

		seat, err := r.claimSeat(ctx, tx, current.ScopeID, start, end, guard, current.ID)
		if err != nil {
			return err
		}

		now := time.Now()

		if _, err = tx.ExecContext(ctx, markRescheduledQuery, current.ID, model.StatusRescheduled, now); err != nil {
			return fmt.Errorf("failed to mark booking rescheduled: %w", err)
		}

		if _, err = tx.ExecContext(ctx, moveQuery, current.ID, start, end, seat, model.StatusConfirmed, now, actor); err != nil {
			return constraintViolation(fmt.Errorf("failed to move booking: %w", err))
		}

		res = current
		res.StartTime = start
		res.EndTime = end
		res.Seat = seat
		res.Status = model.StatusConfirmed
		res.RescheduledCount++
		res.ModifiedAt = now
		res.ModifiedBy = actor

		return nil
	})
	if err != nil {
		scope.TraceError(err)

		return model.Booking{}, err //nolint:wrapcheck
	}

	return res, nil
}

func (r *repositoryImpl) Transition(
	ctx context.Context,
	booking model.Booking,
	next model.Status,
	reason *string,
	actor string,
) (model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Transition")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, transitionQuery)

	now := time.Now()

	var cancelledAt *time.Time
	if next == model.StatusCancelled {
		cancelledAt = &now
	}

	result, err := r.db.Write.ExecContext(ctx, transitionQuery, booking.ID, booking.Status, next, reason, cancelledAt, now, actor)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return model.Booking{}, fmt.Errorf("failed to update booking status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return model.Booking{}, fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return model.Booking{}, failure.InvalidState("booking status changed, reload and try again") //nolint:wrapcheck
	}

	booking.Status = next
	booking.CancelReason = reason
	booking.CancelledAt = cancelledAt
	booking.ModifiedAt = now
	booking.ModifiedBy = actor

	return booking, nil
}

func (r *repositoryImpl) lock(ctx context.Context, tx *sqlx.Tx, key string) error {
	if _, err := tx.ExecContext(ctx, lockQuery, key); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to acquire slot lock: %w", err)
	}

	return nil
}

func (r *repositoryImpl) lockRow(ctx context.Context, tx *sqlx.Tx, id string) (model.Booking, error) {
	var current model.Booking

	err := tx.GetContext(ctx, &current, fmt.Sprintf(lockRowQuery, r.selectColumns()), id)
	if errors.Is(err, sql.ErrNoRows) {
		return current, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return current, fmt.Errorf("failed to lock booking: %w", err)
	}

	return current, nil
}

// claimSeat recounts conflicts under the slot lock and returns the lowest free seat at start.
func (r *repositoryImpl) claimSeat(
	ctx context.Context,
	tx *sqlx.Tx,
	scopeID string,
	start, end time.Time,
	guard model.Guard,
	excludeID string,
) (int, error) {
	var active []model.Booking

	if err := tx.SelectContext(ctx, &active, fmt.Sprintf(activeInRangeQuery, r.selectColumns()), scopeID, start, end); err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to load active bookings: %w", err)
	}

	count := scheduling.CountConflicts(model.ToBooked(active), start, end, guard.Mode, excludeID)
	if !scheduling.HasCapacity(count, guard.Capacity) {
		return 0, failure.SlotTaken("the selected time is no longer available") //nolint:wrapcheck
	}

	seat, ok := freeSeat(active, start, guard.Capacity, excludeID)
	if !ok {
		return 0, failure.SlotTaken("the selected time is no longer available") //nolint:wrapcheck
	}

	return seat, nil
}

func (r *repositoryImpl) selectColumns() string {
	return strings.Join(r.Columns, ", ")
}

func freeSeat(active []model.Booking, start time.Time, capacity int, excludeID string) (int, bool) {
	if capacity < 1 {
		capacity = 1
	}

	taken := make(map[int]bool, len(active))

	for _, b := range active {
		if b.ID == excludeID || !b.StartTime.Equal(start) {
			continue
		}

		taken[b.Seat] = true
	}

	for seat := range capacity {
		if !taken[seat] {
			return seat, true
		}
	}

	return 0, false
}

// lockKey picks the advisory lock. Overlap mode locks the whole scope since bookings with
// different starts can still collide.
func lockKey(scopeID string, start time.Time, mode scheduling.Mode) string {
	if mode == scheduling.ModeOverlap {
		return scopeID
	}

	return scopeID + "|" + start.UTC().Format(time.RFC3339)
}

// constraintViolation turns the storage arbiters into domain failures. A foreign key violation
// means the scope was deleted between resolution and insert.
func constraintViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	if string(pqErr.Code) == constant.PqErrorCodeFkViolation {
		return failure.NotFound("scope") //nolint:wrapcheck
	}

	if string(pqErr.Code) != constant.PqErrorCodeUniqueViolation {
		return err
	}

	switch pqErr.Constraint {
	case model.ConstraintSeat:
		return failure.SlotTaken("the selected time is no longer available") //nolint:wrapcheck
	case model.ConstraintClientEmail:
		return failure.DuplicateBooking("this email already has a booking for this campaign") //nolint:wrapcheck
	default:
		return err
	}
}
