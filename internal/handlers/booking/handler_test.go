package booking_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"appointly/config"
	"appointly/infras/jwt"
	otelMocks "appointly/infras/otel/mocks"
	"appointly/internal/domains/booking/mocks"
	"appointly/internal/domains/booking/model/dto"
	"appointly/internal/handlers/booking"
	"appointly/permissions"
	"appointly/shared/failure"
	"appointly/transport/http/middleware"
)

func newServer(t *testing.T) (*mocks.MockBookingService, http.Handler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	service := mocks.NewMockBookingService(ctrl)

	cfg := &config.Config{}
	cfg.JWT.AccessSecret = "test-secret"

	otl := otelMocks.NewOtel()
	authRole := middleware.NewAuthRoleMiddleware(jwt.New(cfg), otl, &permissions.PermissionData{})

	handler := booking.New(service, authRole, otl)

	router := chi.NewRouter()
	router.Route("/v1", handler.Router)

	return service, router
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var request *http.Request
	if body == "" {
		request = httptest.NewRequest(method, target, nil)
	} else {
		request = httptest.NewRequest(method, target, strings.NewReader(body))
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	return recorder
}

type errorBody struct {
	Error string       `json:"error"`
	Kind  failure.Kind `json:"kind"`
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var body errorBody
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	return body
}

func TestGetSlots(t *testing.T) {
	service, router := newServer(t)

	recorder := serve(router, http.MethodGet, "/v1/scopes/scope-1/slots", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, failure.KindValidation, decodeError(t, recorder).Kind)

	service.EXPECT().ComputeAvailableSlots(gomock.Any(), "scope-1", "2026-11-02").Return(dto.SlotsResponse{
		ScopeID: "scope-1", Date: "2026-11-02", Duration: 30, Slots: []string{"09:00", "09:30"},
	}, nil)

	recorder = serve(router, http.MethodGet, "/v1/scopes/scope-1/slots?date=2026-11-02", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":{"scope_id":"scope-1","date":"2026-11-02","duration":30,"slots":["09:00","09:30"]}}`, recorder.Body.String())
}

func TestCheckAvailability_RejectsBadClock(t *testing.T) {
	_, router := newServer(t)

	recorder := serve(router, http.MethodGet, "/v1/scopes/scope-1/availability?date=2026-11-02&time=9am", "")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "value must be a time in HH:MM format", decodeError(t, recorder).Error)
}

func TestCheckRange(t *testing.T) {
	start := time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	tests := []struct {
		name     string
		query    string
		mock     func(*mocks.MockBookingService)
		wantCode int
		wantBody string
	}{
		{
			name:     "missing start",
			query:    "end=2026-11-02T09:30:00Z",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "end before start",
			query:    "start=2026-11-02T09:30:00Z&end=2026-11-02T09:00:00Z",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "bad capacity",
			query:    "start=2026-11-02T09:00:00Z&end=2026-11-02T09:30:00Z&capacity=0",
			wantCode: http.StatusBadRequest,
		},
		{
			name:  "capacity resolved by the service",
			query: "start=2026-11-02T09:00:00Z&end=2026-11-02T09:30:00Z",
			mock: func(s *mocks.MockBookingService) {
				s.EXPECT().IsSlotAvailable(gomock.Any(), "scope-1", start, end, 0).Return(true, nil)
			},
			wantCode: http.StatusOK,
			wantBody: `{"data":{"scope_id":"scope-1","start":"2026-11-02T09:00:00Z","end":"2026-11-02T09:30:00Z","available":true}}`,
		},
		{
			name:  "explicit capacity",
			query: "start=2026-11-02T09:00:00Z&end=2026-11-02T09:30:00Z&capacity=3",
			mock: func(s *mocks.MockBookingService) {
				s.EXPECT().IsSlotAvailable(gomock.Any(), "scope-1", start, end, 3).Return(false, nil)
			},
			wantCode: http.StatusOK,
			wantBody: `{"data":{"scope_id":"scope-1","start":"2026-11-02T09:00:00Z","end":"2026-11-02T09:30:00Z","available":false}}`,
		},
		{
			name:  "unknown scope",
			query: "start=2026-11-02T09:00:00Z&end=2026-11-02T09:30:00Z",
			mock: func(s *mocks.MockBookingService) {
				s.EXPECT().IsSlotAvailable(gomock.Any(), "scope-1", start, end, 0).Return(false, failure.NotFound("scope not found"))
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, router := newServer(t)
			if tt.mock != nil {
				tt.mock(service)
			}

			recorder := serve(router, http.MethodGet, "/v1/scopes/scope-1/availability/range?"+tt.query, "")
			assert.Equal(t, tt.wantCode, recorder.Code)

			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, recorder.Body.String())
			}
		})
	}
}

func TestCreateBooking(t *testing.T) {
	const body = `{"client_name":"Ada","client_email":"ada@example.com","date":"2026-11-02","time":"09:00"}`

	tests := []struct {
		name     string
		body     string
		mock     func(*mocks.MockBookingService)
		wantCode int
		wantKind failure.Kind
	}{
		{
			name:     "invalid body",
			body:     `{"client_name":"Ada","date":"2026-11-02","time":"09:00"}`,
			wantCode: http.StatusBadRequest,
			wantKind: failure.KindValidation,
		},
		{
			name:     "blank name",
			body:     `{"client_name":"   ","client_email":"ada@example.com","date":"2026-11-02","time":"09:00"}`,
			wantCode: http.StatusBadRequest,
			wantKind: failure.KindValidation,
		},
		{
			name: "slot taken",
			body: body,
			mock: func(s *mocks.MockBookingService) {
				s.EXPECT().Create(gomock.Any(), "scope-1", gomock.Any()).Return(dto.CreateBookingResponse{}, failure.SlotTaken("the selected time is no longer available"))
			},
			wantCode: http.StatusConflict,
			wantKind: failure.KindSlotTaken,
		},
		{
			name: "identity mismatch",
			body: body,
			mock: func(s *mocks.MockBookingService) {
				s.EXPECT().Create(gomock.Any(), "scope-1", gomock.Any()).Return(dto.CreateBookingResponse{}, failure.IdentityMismatch("this invitation belongs to another email"))
			},
			wantCode: http.StatusForbidden,
			wantKind: failure.KindIdentityMismatch,
		},
		{
			name: "created",
			body: body,
			mock: func(s *mocks.MockBookingService) {
				s.EXPECT().Create(gomock.Any(), "scope-1", dto.CreateBookingRequest{
					ClientName: "Ada", ClientEmail: "ada@example.com", Date: "2026-11-02", Time: "09:00",
				}).Return(dto.CreateBookingResponse{
					BookingResult: dto.BookingResult{Booking: dto.BookingResponse{ID: "booking-1", Status: "confirmed"}},
					AccessCode:    "0123456789abcdef0123456789abcdef",
				}, nil)
			},
			wantCode: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, router := newServer(t)
			if tt.mock != nil {
				tt.mock(service)
			}

			recorder := serve(router, http.MethodPost, "/v1/scopes/scope-1/bookings", tt.body)
			assert.Equal(t, tt.wantCode, recorder.Code)

			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, decodeError(t, recorder).Kind)

				return
			}

			var created struct {
				Data dto.CreateBookingResponse `json:"data"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
			assert.Equal(t, "0123456789abcdef0123456789abcdef", created.Data.AccessCode)
			assert.Equal(t, "booking-1", created.Data.Booking.ID)
		})
	}
}

func TestCancelBooking(t *testing.T) {
	service, router := newServer(t)

	service.EXPECT().Cancel(gomock.Any(), "code-1", dto.CancelBookingRequest{}).Return(dto.BookingResult{
		Booking:  dto.BookingResponse{ID: "booking-1", Status: "cancelled"},
		Warnings: []string{"booking saved, but calendar and email updates are delayed"},
	}, nil)

	recorder := serve(router, http.MethodDelete, "/v1/manage/code-1", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"warnings":["booking saved, but calendar and email updates are delayed"]`)

	service.EXPECT().Cancel(gomock.Any(), "code-2", dto.CancelBookingRequest{Reason: "sick"}).Return(dto.BookingResult{}, failure.InvalidState("booking is already cancelled"))

	recorder = serve(router, http.MethodDelete, "/v1/manage/code-2", `{"reason":"sick"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	assert.Equal(t, failure.KindInvalidState, decodeError(t, recorder).Kind)
}

func TestRescheduleBooking(t *testing.T) {
	service, router := newServer(t)

	service.EXPECT().Reschedule(gomock.Any(), "code-1", dto.RescheduleBookingRequest{Date: "2026-11-03", Time: "10:00"}).
		Return(dto.BookingResult{Booking: dto.BookingResponse{ID: "booking-1", RescheduledCount: 1}}, nil)

	recorder := serve(router, http.MethodPost, "/v1/manage/code-1/reschedule", `{"date":"2026-11-03","time":"10:00"}`)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"rescheduled_count":1`)
}

func TestOwnerRoutesRequireToken(t *testing.T) {
	_, router := newServer(t)

	recorder := serve(router, http.MethodGet, "/v1/scopes/scope-1/bookings", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = serve(router, http.MethodPatch, "/v1/bookings/booking-1/status", `{"status":"completed"}`)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
