package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appointly/shared/failure"
	"appointly/transport/http/response"
)

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
		wantKind failure.Kind
	}{
		{
			name:     "slot taken",
			err:      failure.SlotTaken("the selected time is no longer available"),
			wantCode: http.StatusConflict,
			wantMsg:  "the selected time is no longer available",
			wantKind: failure.KindSlotTaken,
		},
		{
			name:     "wrapped invalid state",
			err:      errors.Join(errors.New("context"), failure.InvalidState("booking is cancelled")),
			wantCode: http.StatusUnprocessableEntity,
			wantMsg:  "booking is cancelled",
			wantKind: failure.KindInvalidState,
		},
		{
			name:     "downstream failure is masked",
			err:      failure.DownstreamSync(errors.New("broker at 10.0.0.4:9092 refused")),
			wantCode: http.StatusBadGateway,
			wantMsg:  "internal server error",
			wantKind: failure.KindDownstreamSync,
		},
		{
			name:     "plain error is masked",
			err:      errors.New("pq: connection refused"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			response.WithError(recorder, tt.err)

			assert.Equal(t, tt.wantCode, recorder.Code)
			assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

			var body response.Error
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantMsg, *body.Error)
			assert.Equal(t, tt.wantKind, body.Kind)
		})
	}
}

func TestWithError_Unauthorized(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithError(recorder, failure.Unauthorized("Token has expired"))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "Bearer", recorder.Header().Get("WWW-Authenticate"))
}

func TestWithJSON(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithJSON(recorder, http.StatusCreated, map[string]string{"access_code": "abc"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"data":{"access_code":"abc"}}`, recorder.Body.String())
}
