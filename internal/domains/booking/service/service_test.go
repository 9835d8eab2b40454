package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"appointly/config"
	kafkaMocks "appointly/infras/kafka/mocks"
	"appointly/infras/otel/mocks"
	availabilityMocks "appointly/internal/domains/availability/mocks"
	availabilityModel "appointly/internal/domains/availability/model"
	bookingMocks "appointly/internal/domains/booking/mocks"
	"appointly/internal/domains/booking/model"
	"appointly/internal/domains/booking/model/dto"
	"appointly/internal/domains/booking/service"
	invitationMocks "appointly/internal/domains/invitation/mocks"
	invitationModel "appointly/internal/domains/invitation/model"
	scopeMocks "appointly/internal/domains/scope/mocks"
	scopeModel "appointly/internal/domains/scope/model"
	"appointly/internal/scheduling"
	"appointly/shared/constant"
	gDto "appointly/shared/dto"
	"appointly/shared/failure"
	"appointly/shared/timezone"
)

const (
	topic   = "booking.events"
	ownerID = "owner-1"
)

type fixture struct {
	repo         *bookingMocks.MockBooking
	scopes       *scopeMocks.MockScopeService
	invitations  *invitationMocks.MockInvitationService
	availability *availabilityMocks.MockAvailabilityService
	kafka        *kafkaMocks.MockClient
	svc          service.Booking
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Booking.DefaultDurationMin = 30
	cfg.Booking.MaxDaysAhead = 90
	cfg.Booking.RescheduleMaxCount = 2
	cfg.Kafka.Topics.BookingEvents = topic

	f := fixture{
		repo:         bookingMocks.NewMockBooking(ctrl),
		scopes:       scopeMocks.NewMockScopeService(ctrl),
		invitations:  invitationMocks.NewMockInvitationService(ctrl),
		availability: availabilityMocks.NewMockAvailabilityService(ctrl),
		kafka:        kafkaMocks.NewMockClient(ctrl),
	}

	f.svc = service.New(f.repo, f.scopes, f.invitations, f.availability, f.kafka, cfg, mocks.NewOtel())

	return f
}

// nextMonday is at least two days ahead so "past slot" filtering never interferes.
func nextMonday() time.Time {
	day := timezone.AtMinute(timezone.Now(), 0).AddDate(0, 0, 2)
	for day.Weekday() != time.Monday {
		day = day.AddDate(0, 0, 1)
	}

	return day
}

func dayString(day time.Time) string {
	return day.Format(constant.DayFormat)
}

func at(day time.Time, clock string) time.Time {
	minute, err := scheduling.ParseClock(clock)
	if err != nil {
		panic(err)
	}

	return timezone.AtMinute(day, minute)
}

func mondaySnapshot() availabilityModel.Snapshot {
	return availabilityModel.Snapshot{
		Rules: []scheduling.Rule{{DayOfWeek: time.Monday, Start: "09:00", End: "17:00", Available: true}},
	}
}

func eventScope() scopeModel.Scope {
	return scopeModel.Scope{ID: "scope-1", OwnerID: ownerID, Kind: scopeModel.KindEvent, DurationMinutes: 30, Active: true}
}

func campaignScope() scopeModel.Scope {
	custom := `{"time_slots":[{"start":"08:30","end":"17:00","slots_per_hour":9}],"duration":30}`

	return scopeModel.Scope{
		ID:                 "scope-2",
		OwnerID:            ownerID,
		Kind:               scopeModel.KindCampaign,
		DurationMinutes:    60,
		CustomAvailability: &custom,
		Active:             true,
	}
}

func seats(day time.Time, clock string, n int) []model.Booking {
	start := at(day, clock)
	res := make([]model.Booking, n)

	for i := range n {
		res[i] = model.Booking{
			ID:        "b" + string(rune('a'+i)),
			StartTime: start,
			EndTime:   start.Add(30 * time.Minute),
			Status:    model.StatusConfirmed,
			Seat:      i,
		}
	}

	return res
}

func (f fixture) expectPlan(target scopeModel.Scope, bookings []model.Booking) {
	f.availability.EXPECT().Snapshot(gomock.Any(), target.OwnerID).Return(mondaySnapshot(), nil)
	f.repo.EXPECT().ListActiveBetween(gomock.Any(), target.ID, gomock.Any(), gomock.Any()).Return(bookings, nil)
}

func TestComputeAvailableSlots_WeeklyRule(t *testing.T) {
	f := newFixture(t)
	day := nextMonday()

	f.scopes.EXPECT().Resolve(gomock.Any(), "scope-1").Return(eventScope(), nil)
	f.expectPlan(eventScope(), nil)

	res, err := f.svc.ComputeAvailableSlots(context.Background(), "scope-1", dayString(day))
	require.NoError(t, err)

	assert.Len(t, res.Slots, 16)
	assert.Equal(t, "09:00", res.Slots[0])
	assert.Equal(t, "16:30", res.Slots[15])
	assert.NotContains(t, res.Slots, "17:00")
	assert.Equal(t, 30, res.Duration)
}

func TestComputeAvailableSlots_CampaignCapacity(t *testing.T) {
	tests := []struct {
		name     string
		booked   int
		wantSlot bool
	}{
		{name: "eight of nine taken", booked: 8, wantSlot: true},
		{name: "all nine taken", booked: 9, wantSlot: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			day := nextMonday()

			f.scopes.EXPECT().Resolve(gomock.Any(), "scope-2").Return(campaignScope(), nil)
			f.expectPlan(campaignScope(), seats(day, "08:30", tt.booked))

			res, err := f.svc.ComputeAvailableSlots(context.Background(), "scope-2", dayString(day))
			require.NoError(t, err)

			if tt.wantSlot {
				assert.Equal(t, "08:30", res.Slots[0])
				assert.Len(t, res.Slots, 17)
			} else {
				assert.NotContains(t, res.Slots, "08:30")
				assert.Len(t, res.Slots, 16)
			}
		})
	}
}

func TestComputeAvailableSlots_OutsideHorizon(t *testing.T) {
	f := newFixture(t)

	f.scopes.EXPECT().Resolve(gomock.Any(), "scope-1").Return(eventScope(), nil).Times(2)

	res, err := f.svc.ComputeAvailableSlots(context.Background(), "scope-1", dayString(timezone.Now().AddDate(0, 0, -3)))
	require.NoError(t, err)
	assert.Empty(t, res.Slots)

	res, err = f.svc.ComputeAvailableSlots(context.Background(), "scope-1", dayString(timezone.Now().AddDate(0, 0, 120)))
	require.NoError(t, err)
	assert.Empty(t, res.Slots)

	_, err = f.svc.ComputeAvailableSlots(context.Background(), "scope-1", "03/02/2026")
	require.Error(t, err)
	assert.True(t, failure.IsKind(err, failure.KindValidation))
}

func TestComputeAvailableSlots_MalformedOverride(t *testing.T) {
	f := newFixture(t)
	broken := `{"time_slots":[{"start":"10:00","end":"09:00"}]}`
	target := eventScope()
	target.CustomAvailability = &broken

	f.scopes.EXPECT().Resolve(gomock.Any(), "scope-1").Return(target, nil)

	_, err := f.svc.ComputeAvailableSlots(context.Background(), "scope-1", dayString(nextMonday()))
	require.Error(t, err)
	assert.True(t, failure.IsKind(err, failure.KindValidation))
}

func TestCreate(t *testing.T) {
	day := nextMonday()
	request := dto.CreateBookingRequest{ClientName: "Ana", ClientEmail: "Ana@Example.com", Date: dayString(day), Time: "10:00"}

	tests := []struct {
		name      string
		scopeID   string
		req       dto.CreateBookingRequest
		setupMock func(f fixture)
		wantKind  failure.Kind
		warnings  int
	}{
		{
			name: "confirmed and published",
			req:  request,
			setupMock: func(f fixture) {
				f.scopes.EXPECT().ResolveFresh(gomock.Any(), "scope-1").Return(eventScope(), nil)
				f.expectPlan(eventScope(), nil)
				f.repo.EXPECT().
					InsertGuarded(gomock.Any(), gomock.Any(), model.Guard{Capacity: 1, Mode: scheduling.ModeOverlap}).
					DoAndReturn(func(_ context.Context, booking model.Booking, _ model.Guard) (model.Booking, error) {
						assert.Equal(t, "ana@example.com", booking.ClientEmail)
						assert.Equal(t, model.StatusConfirmed, booking.Status)
						assert.True(t, booking.StartTime.Equal(at(day, "10:00")))
						assert.Equal(t, 30*time.Minute, booking.EndTime.Sub(booking.StartTime))
						assert.Len(t, booking.AccessCode, 32)

						return booking, nil
					})
				f.kafka.EXPECT().SendMessages(gomock.Any(), topic, gomock.Any()).Return(nil)
			},
		},
		{
			name: "publish failure keeps booking",
			req:  request,
			setupMock: func(f fixture) {
				f.scopes.EXPECT().ResolveFresh(gomock.Any(), "scope-1").Return(eventScope(), nil)
				f.expectPlan(eventScope(), nil)
				f.repo.EXPECT().InsertGuarded(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, booking model.Booking, _ model.Guard) (model.Booking, error) {
						return booking, nil
					})
				f.kafka.EXPECT().SendMessages(gomock.Any(), topic, gomock.Any()).Return(errors.New("broker down"))
			},
			warnings: 1,
		},
		{
			name: "inactive scope",
			req:  request,
			setupMock: func(f fixture) {
				f.scopes.EXPECT().ResolveFresh(gomock.Any(), "scope-1").Return(scopeModel.Scope{}, failure.NotFound("scope not found"))
			},
			wantKind: failure.KindNotFound,
		},
		{
			name: "invitation bound to another email",
			req: dto.CreateBookingRequest{
				ClientName: "Bob", ClientEmail: "bob@example.com", Date: dayString(day), Time: "10:00", InvitationToken: "tok",
			},
			setupMock: func(f fixture) {
				f.scopes.EXPECT().ResolveFresh(gomock.Any(), "scope-1").Return(eventScope(), nil)
				f.invitations.EXPECT().ResolveToken(gomock.Any(), "tok").
					Return(invitationModel.Invitation{ID: "inv-1", ScopeID: "scope-1", Email: "ana@example.com"}, nil)
			},
			wantKind: failure.KindIdentityMismatch,
		},
		{
			name: "invitation of another scope",
			req: dto.CreateBookingRequest{
				ClientName: "Ana", ClientEmail: "ana@example.com", Date: dayString(day), Time: "10:00", InvitationToken: "tok",
			},
			setupMock: func(f fixture) {
				f.scopes.EXPECT().ResolveFresh(gomock.Any(), "scope-1").Return(eventScope(), nil)
				f.invitations.EXPECT().ResolveToken(gomock.Any(), "tok").
					Return(invitationModel.Invitation{ID: "inv-1", ScopeID: "scope-9", Email: "ana@example.com"}, nil)
			},
			wantKind: failure.KindNotFound,
		},
		{
			name:    "campaign duplicate email",
			scopeID: "scope-2",
			req:  dto.CreateBookingRequest{ClientName: "Ana", ClientEmail: "ana@example.com", Date: dayString(day), Time: "08:30"},
			setupMock: func(f fixture) {
				f.scopes.EXPECT().ResolveFresh(gomock.Any(), "scope-2").Return(campaignScope(), nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantKind: failure.KindDuplicateBooking,
		},
		{
			name:      "blank client name",
			req:       dto.CreateBookingRequest{ClientName: "   ", ClientEmail: "ana@example.com", Date: dayString(day), Time: "10:00"},
			setupMock: func(fixture) {},
			wantKind:  failure.KindValidation,
		},
		{
			name: "time not on the grid",
			req:  dto.CreateBookingRequest{ClientName: "Ana", ClientEmail: "ana@example.com", Date: dayString(day), Time: "10:10"},
			setupMock: func(f fixture) {
				f.scopes.EXPECT().ResolveFresh(gomock.Any(), "scope-1").Return(eventScope(), nil)
				f.expectPlan(eventScope(), nil)
			},
			wantKind: failure.KindValidation,
		},
		{
			name: "time in the past",
			req: dto.CreateBookingRequest{
				ClientName: "Ana", ClientEmail: "ana@example.com", Date: dayString(timezone.Now().AddDate(0, 0, -7)), Time: "10:00",
			},
			setupMock: func(f fixture) {
				f.scopes.EXPECT().ResolveFresh(gomock.Any(), "scope-1").Return(eventScope(), nil)
			},
			wantKind: failure.KindValidation,
		},
		{
			name: "fresh check finds the slot full",
			req:  request,
			setupMock: func(f fixture) {
				f.scopes.EXPECT().ResolveFresh(gomock.Any(), "scope-1").Return(eventScope(), nil)
				f.expectPlan(eventScope(), seats(day, "09:45", 1))
			},
			wantKind: failure.KindSlotTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			scopeID := tt.scopeID
			if scopeID == "" {
				scopeID = "scope-1"
			}

			res, err := f.svc.Create(context.Background(), scopeID, tt.req)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.True(t, failure.IsKind(err, tt.wantKind), "got %v", err)

				return
			}

			require.NoError(t, err)
			assert.Len(t, res.AccessCode, 32)
			assert.Equal(t, "confirmed", res.Booking.Status)
			assert.Equal(t, "10:00", res.Booking.StartTime)
			assert.Len(t, res.Warnings, tt.warnings)
		})
	}
}

// Two clients see the same free slot; the guarded insert lets one through and the refreshed list drops it.
func TestCreate_ConcurrentLoserRefreshes(t *testing.T) {
	f := newFixture(t)
	day := nextMonday()
	target := eventScope()
	winner := seats(day, "10:00", 1)

	f.scopes.EXPECT().ResolveFresh(gomock.Any(), "scope-1").Return(target, nil)
	f.scopes.EXPECT().Resolve(gomock.Any(), "scope-1").Return(target, nil)
	f.availability.EXPECT().Snapshot(gomock.Any(), ownerID).Return(mondaySnapshot(), nil).Times(2)

	gomock.InOrder(
		f.repo.EXPECT().ListActiveBetween(gomock.Any(), "scope-1", gomock.Any(), gomock.Any()).Return(nil, nil),
		f.repo.EXPECT().ListActiveBetween(gomock.Any(), "scope-1", gomock.Any(), gomock.Any()).Return(winner, nil),
	)

	f.repo.EXPECT().InsertGuarded(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(model.Booking{}, failure.SlotTaken("the selected time is no longer available"))

	_, err := f.svc.Create(context.Background(), "scope-1", dto.CreateBookingRequest{
		ClientName: "Bob", ClientEmail: "bob@example.com", Date: dayString(day), Time: "10:00",
	})
	require.Error(t, err)
	assert.True(t, failure.IsKind(err, failure.KindSlotTaken))

	res, err := f.svc.ComputeAvailableSlots(context.Background(), "scope-1", dayString(day))
	require.NoError(t, err)
	assert.NotContains(t, res.Slots, "10:00")
	assert.Contains(t, res.Slots, "10:30")
}

func TestCheckAvailability(t *testing.T) {
	f := newFixture(t)
	day := nextMonday()

	f.scopes.EXPECT().Resolve(gomock.Any(), "scope-1").Return(eventScope(), nil).Times(4)
	f.availability.EXPECT().Snapshot(gomock.Any(), ownerID).Return(mondaySnapshot(), nil).Times(3)
	f.repo.EXPECT().ListActiveBetween(gomock.Any(), "scope-1", gomock.Any(), gomock.Any()).Return(seats(day, "11:00", 1), nil).Times(3)

	res, err := f.svc.CheckAvailability(context.Background(), "scope-1", dayString(day), "11:00")
	require.NoError(t, err)
	assert.False(t, res.Available)

	res, err = f.svc.CheckAvailability(context.Background(), "scope-1", dayString(day), "11:30")
	require.NoError(t, err)
	assert.True(t, res.Available)

	res, err = f.svc.CheckAvailability(context.Background(), "scope-1", dayString(day), "18:00")
	require.NoError(t, err)
	assert.False(t, res.Available)

	res, err = f.svc.CheckAvailability(context.Background(), "scope-1", dayString(timezone.Now().AddDate(0, 0, 120)), "10:00")
	require.NoError(t, err)
	assert.False(t, res.Available)
}

func TestCheckAvailability_MalformedOverride(t *testing.T) {
	f := newFixture(t)
	broken := `{"time_slots":[{"start":"10:00","end":"09:00"}]}`
	target := eventScope()
	target.CustomAvailability = &broken

	f.scopes.EXPECT().Resolve(gomock.Any(), "scope-1").Return(target, nil)

	res, err := f.svc.CheckAvailability(context.Background(), "scope-1", dayString(nextMonday()), "10:00")
	require.Error(t, err)
	assert.True(t, failure.IsKind(err, failure.KindValidation))
	assert.False(t, res.Available)
}

func TestCheckAvailability_MalformedRule(t *testing.T) {
	f := newFixture(t)
	snapshot := availabilityModel.Snapshot{
		Rules: []scheduling.Rule{{DayOfWeek: time.Monday, Start: "17:00", End: "09:00", Available: true}},
	}

	f.scopes.EXPECT().Resolve(gomock.Any(), "scope-1").Return(eventScope(), nil)
	f.availability.EXPECT().Snapshot(gomock.Any(), ownerID).Return(snapshot, nil)
	f.repo.EXPECT().ListActiveBetween(gomock.Any(), "scope-1", gomock.Any(), gomock.Any()).Return(nil, nil)

	_, err := f.svc.CheckAvailability(context.Background(), "scope-1", dayString(nextMonday()), "10:00")
	require.Error(t, err)
	assert.True(t, failure.IsKind(err, failure.KindValidation))
}

func TestIsSlotAvailable_ResolvesCapacity(t *testing.T) {
	f := newFixture(t)
	day := nextMonday()
	start := at(day, "08:30")

	f.scopes.EXPECT().Resolve(gomock.Any(), "scope-2").Return(campaignScope(), nil).Times(2)
	f.repo.EXPECT().ListActiveBetween(gomock.Any(), "scope-2", start, start.Add(30*time.Minute)).
		Return(seats(day, "08:30", 8), nil).Times(2)

	ok, err := f.svc.IsSlotAvailable(context.Background(), "scope-2", start, start.Add(30*time.Minute), 0)
	require.NoError(t, err)
	assert.True(t, ok, "override capacity of nine applies")

	ok, err = f.svc.IsSlotAvailable(context.Background(), "scope-2", start, start.Add(30*time.Minute), 8)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsSlotAvailable_RejectsEmptyInterval(t *testing.T) {
	f := newFixture(t)
	start := at(nextMonday(), "09:00")

	_, err := f.svc.IsSlotAvailable(context.Background(), "scope-2", start, start, 0)
	require.Error(t, err)
	assert.True(t, failure.IsKind(err, failure.KindValidation))
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name     string
		status   model.Status
		wantKind failure.Kind
	}{
		{name: "confirmed", status: model.StatusConfirmed},
		{name: "already cancelled", status: model.StatusCancelled, wantKind: failure.KindInvalidState},
		{name: "completed", status: model.StatusCompleted, wantKind: failure.KindInvalidState},
		{name: "no show", status: model.StatusNoShow, wantKind: failure.KindInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			booking := model.Booking{ID: "booking-1", ClientEmail: "ana@example.com", Status: tt.status, StartTime: time.Now()}

			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

			if tt.wantKind == "" {
				f.repo.EXPECT().Transition(gomock.Any(), booking, model.StatusCancelled, gomock.Any(), "ana@example.com").
					DoAndReturn(func(_ context.Context, b model.Booking, next model.Status, reason *string, _ string) (model.Booking, error) {
						require.NotNil(t, reason)
						assert.Equal(t, "sick", *reason)
						b.Status = next
						b.CancelReason = reason

						return b, nil
					})
				f.kafka.EXPECT().SendMessages(gomock.Any(), topic, gomock.Any()).Return(nil)
			}

			res, err := f.svc.Cancel(context.Background(), "code", dto.CancelBookingRequest{Reason: " sick "})
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.True(t, failure.IsKind(err, tt.wantKind))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "cancelled", res.Booking.Status)
			assert.Empty(t, res.Warnings)
		})
	}
}

func TestCancel_UnknownCode(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

	_, err := f.svc.Cancel(context.Background(), "nope", dto.CancelBookingRequest{})
	require.Error(t, err)
	assert.True(t, failure.IsKind(err, failure.KindNotFound))

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

	_, err = f.svc.GetByAccessCode(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, failure.IsKind(err, failure.KindNotFound))
}

func TestReschedule(t *testing.T) {
	day := nextMonday()
	own := model.Booking{
		ID:          "booking-1",
		ScopeID:     "scope-1",
		ClientEmail: "ana@example.com",
		Status:      model.StatusConfirmed,
		StartTime:   at(day, "09:00"),
		EndTime:     at(day, "10:00"),
	}

	t.Run("own booking does not block its new slot", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(own, nil)
		f.scopes.EXPECT().ResolveFresh(gomock.Any(), "scope-1").Return(eventScope(), nil)
		f.expectPlan(eventScope(), []model.Booking{own})
		f.repo.EXPECT().
			RescheduleGuarded(gomock.Any(), "booking-1", at(day, "09:30"), at(day, "10:00"), model.Guard{Capacity: 1, Mode: scheduling.ModeOverlap}, "ana@example.com").
			DoAndReturn(func(_ context.Context, _ string, start, end time.Time, _ model.Guard, _ string) (model.Booking, error) {
				moved := own
				moved.StartTime = start
				moved.EndTime = end
				moved.RescheduledCount = 1

				return moved, nil
			})
		f.kafka.EXPECT().SendMessages(gomock.Any(), topic, gomock.Any()).Return(nil)

		res, err := f.svc.Reschedule(context.Background(), "code", dto.RescheduleBookingRequest{Date: dayString(day), Time: "09:30"})
		require.NoError(t, err)
		assert.Equal(t, "09:30", res.Booking.StartTime)
		assert.Equal(t, 1, res.Booking.RescheduledCount)
	})

	t.Run("slot taken keeps original", func(t *testing.T) {
		f := newFixture(t)
		other := seats(day, "11:00", 1)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(own, nil)
		f.scopes.EXPECT().ResolveFresh(gomock.Any(), "scope-1").Return(eventScope(), nil)
		f.expectPlan(eventScope(), append([]model.Booking{own}, other...))

		_, err := f.svc.Reschedule(context.Background(), "code", dto.RescheduleBookingRequest{Date: dayString(day), Time: "11:00"})
		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindSlotTaken))
	})

	t.Run("limit reached", func(t *testing.T) {
		f := newFixture(t)
		tired := own
		tired.RescheduledCount = 2

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tired, nil)

		_, err := f.svc.Reschedule(context.Background(), "code", dto.RescheduleBookingRequest{Date: dayString(day), Time: "11:00"})
		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindInvalidState))
	})

	t.Run("cancelled booking", func(t *testing.T) {
		f := newFixture(t)
		cancelled := own
		cancelled.Status = model.StatusCancelled

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cancelled, nil)

		_, err := f.svc.Reschedule(context.Background(), "code", dto.RescheduleBookingRequest{Date: dayString(day), Time: "11:00"})
		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindInvalidState))
	})
}

func TestUpdateStatus(t *testing.T) {
	ownerCtx := context.WithValue(context.Background(), constant.ContextKeyUserID, ownerID)
	booking := model.Booking{ID: "booking-1", ScopeID: "scope-1", Status: model.StatusConfirmed, StartTime: time.Now()}

	t.Run("owner completes booking", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		f.scopes.EXPECT().Owned(gomock.Any(), "scope-1").Return(eventScope(), nil)
		f.repo.EXPECT().Transition(gomock.Any(), booking, model.StatusCompleted, nil, ownerID).
			DoAndReturn(func(_ context.Context, b model.Booking, next model.Status, _ *string, _ string) (model.Booking, error) {
				b.Status = next

				return b, nil
			})
		f.kafka.EXPECT().SendMessages(gomock.Any(), topic, gomock.Any()).Return(nil)

		res, err := f.svc.UpdateStatus(ownerCtx, "booking-1", dto.UpdateStatusRequest{Status: "completed"})
		require.NoError(t, err)
		assert.Equal(t, "completed", res.Booking.Status)
	})

	t.Run("other owner sees not found", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		f.scopes.EXPECT().Owned(gomock.Any(), "scope-1").Return(scopeModel.Scope{}, failure.NotFound("scope not found"))

		_, err := f.svc.UpdateStatus(ownerCtx, "booking-1", dto.UpdateStatusRequest{Status: "completed"})
		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindNotFound))
	})

	t.Run("terminal status", func(t *testing.T) {
		f := newFixture(t)
		done := booking
		done.Status = model.StatusCompleted

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(done, nil)
		f.scopes.EXPECT().Owned(gomock.Any(), "scope-1").Return(eventScope(), nil)

		_, err := f.svc.UpdateStatus(ownerCtx, "booking-1", dto.UpdateStatusRequest{Status: "no_show"})
		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindInvalidState))
	})
}

func TestGetAll_SortWhitelist(t *testing.T) {
	f := newFixture(t)

	f.scopes.EXPECT().Owned(gomock.Any(), "scope-1").Return(eventScope(), nil)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
			assert.Equal(t, "bookings.start_time", params.SortBy)
			assert.Equal(t, gDto.SortDirDesc, params.SortDir)

			return []model.Booking{{ID: "a"}}, nil
		})

	res, err := f.svc.GetAll(context.Background(), "scope-1", gDto.QueryParams{Page: 1, Limit: 10, SortBy: "1; DROP TABLE bookings"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalData)
	assert.Len(t, res.Bookings, 1)
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, model.StatusConfirmed.CanTransition(model.StatusCancelled))
	assert.True(t, model.StatusConfirmed.CanTransition(model.StatusRescheduled))
	assert.True(t, model.StatusRescheduled.CanTransition(model.StatusConfirmed))
	assert.False(t, model.StatusCancelled.CanTransition(model.StatusConfirmed))
	assert.False(t, model.StatusCompleted.CanTransition(model.StatusCancelled))
	assert.False(t, model.StatusNoShow.CanTransition(model.StatusRescheduled))
	assert.False(t, model.StatusConfirmed.CanTransition(model.StatusConfirmed))
}
