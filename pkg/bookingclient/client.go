// Package bookingclient talks to the public booking API. GET and DELETE calls are retried with
// exponential backoff on network timeouts and 5xx answers. POST calls create or move a booking,
// so they are retried only when the connection was never made.
package bookingclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"

	"appointly/shared/failure"
)

const (
	defaultMaxTries        = 3
	defaultInitialInterval = 200 * time.Millisecond
	defaultMaxInterval     = 2 * time.Second
	defaultTimeout         = 10 * time.Second
)

type Config struct {
	BaseURL         string
	HTTPClient      *http.Client
	MaxTries        uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

type Client struct {
	baseURL         string
	http            *http.Client
	maxTries        uint
	initialInterval time.Duration
	maxInterval     time.Duration
}

func New(cfg Config) *Client {
	client := &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		http:            cfg.HTTPClient,
		maxTries:        cfg.MaxTries,
		initialInterval: cfg.InitialInterval,
		maxInterval:     cfg.MaxInterval,
	}

	if client.http == nil {
		client.http = &http.Client{Timeout: defaultTimeout}
	}

	if client.maxTries == 0 {
		client.maxTries = defaultMaxTries
	}

	if client.initialInterval <= 0 {
		client.initialInterval = defaultInitialInterval
	}

	if client.maxInterval <= 0 {
		client.maxInterval = defaultMaxInterval
	}

	return client
}

func (c *Client) Slots(ctx context.Context, scopeID, date string) (Slots, error) {
	query := url.Values{"date": {date}}

	return do[Slots](ctx, c, http.MethodGet, "/v1/scopes/"+url.PathEscape(scopeID)+"/slots?"+query.Encode(), nil)
}

func (c *Client) CheckAvailability(ctx context.Context, scopeID, date, clock string) (bool, error) {
	query := url.Values{"date": {date}, "time": {clock}}

	res, err := do[availability](ctx, c, http.MethodGet, "/v1/scopes/"+url.PathEscape(scopeID)+"/availability?"+query.Encode(), nil)

	return res.Available, err
}

func (c *Client) Book(ctx context.Context, scopeID string, req BookRequest) (Created, error) {
	return do[Created](ctx, c, http.MethodPost, "/v1/scopes/"+url.PathEscape(scopeID)+"/bookings", req)
}

func (c *Client) Get(ctx context.Context, accessCode string) (Booking, error) {
	return do[Booking](ctx, c, http.MethodGet, "/v1/manage/"+url.PathEscape(accessCode), nil)
}

func (c *Client) Cancel(ctx context.Context, accessCode, reason string) (Result, error) {
	var body any
	if reason != "" {
		body = map[string]string{"reason": reason}
	}

	return do[Result](ctx, c, http.MethodDelete, "/v1/manage/"+url.PathEscape(accessCode), body)
}

func (c *Client) Reschedule(ctx context.Context, accessCode, date, clock string) (Result, error) {
	body := map[string]string{"date": date, "time": clock}

	return do[Result](ctx, c, http.MethodPost, "/v1/manage/"+url.PathEscape(accessCode)+"/reschedule", body)
}

func do[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var (
		zero    T
		payload []byte
	)

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("failed to encode request body: %w", err)
		}

		payload = encoded
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.initialInterval
	policy.MaxInterval = c.maxInterval

	operation := func() (T, error) {
		res, err := c.send(ctx, method, path, payload)
		if err == nil {
			return decode[T](res)
		}

		if retryable(ctx, method, err) {
			return zero, err
		}

		return zero, backoff.Permanent(err)
	}

	notify := func(err error, wait time.Duration) {
		log.Debug().Err(err).Str("method", method).Str("path", path).Dur("wait", wait).Msg("retrying booking api request")
	}

	//nolint:wrapcheck
	return backoff.Retry(ctx, operation, backoff.WithBackOff(policy), backoff.WithMaxTries(c.maxTries), backoff.WithNotify(notify))
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	request.Header.Set("Accept", "application/json")

	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to call booking api: %w", err)
	}

	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read booking api response: %w", err)
	}

	if response.StatusCode >= http.StatusBadRequest {
		return nil, decodeError(response.StatusCode, raw)
	}

	return raw, nil
}

func decode[T any](raw []byte) (T, error) {
	var (
		zero T
		body envelope[T]
	)

	if err := json.Unmarshal(raw, &body); err != nil {
		return zero, backoff.Permanent(fmt.Errorf("failed to decode booking api response: %w", err))
	}

	if body.Data == nil {
		return zero, nil
	}

	return *body.Data, nil
}

func decodeError(status int, raw []byte) *Error {
	apiErr := &Error{Status: status, Message: http.StatusText(status)}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return apiErr
	}

	apiErr.Kind = failure.Kind(body.Kind)

	switch {
	case body.Error != nil:
		apiErr.Message = *body.Error
	case body.Message != nil:
		apiErr.Message = *body.Message
	}

	return apiErr
}

// retryable reports whether another attempt could succeed without doing the work twice. The
// caller's own cancellation is final.
func retryable(ctx context.Context, method string, err error) bool {
	if ctx.Err() != nil {
		return false
	}

	if unsent(err) {
		return true
	}

	// A POST that timed out or failed with a 5xx may have committed a booking.
	if method == http.MethodPost {
		return false
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.retryable()
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}

// unsent reports a failure to connect, before any request bytes reached the server.
func unsent(err error) bool {
	var opErr *net.OpError

	return errors.As(err, &opErr) && opErr.Op == "dial"
}
