package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"appointly/shared/constant"
	"appointly/shared/failure"
	"appointly/shared/logger"
)

const internalErrorMessage = "internal server error"

type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

// Error is the body of every failed request. Kind lets clients branch without parsing the message.
type Error struct {
	Error *string      `json:"error,omitempty"`
	Kind  failure.Kind `json:"kind,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: &message})
}

func WithJSON(writer http.ResponseWriter, code int, jsonPayload any) {
	write(writer, code, Data[any]{Data: &jsonPayload})
}

// WithError answers with the status and message of the innermost Failure, so wrapping context
// added on the way up stays in the logs. Anything in the 5xx range is reported generically.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)
	message := internalErrorMessage

	var fail *failure.Failure
	if code < http.StatusInternalServerError && errors.As(err, &fail) {
		message = fail.Message
	} else {
		log.Error().Err(err).Int("status", code).Msg("request failed")
	}

	if code == http.StatusUnauthorized {
		writer.Header().Set("WWW-Authenticate", "Bearer")
	}

	write(writer, code, Error{Error: &message, Kind: failure.GetKind(err)})
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

// WithPreparingShutdown tells load balancers to stop routing here during the grace period.
func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
