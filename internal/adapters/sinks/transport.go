package sinks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"
)

// Options controls outbound calls shared by every HTTP sink.
type Options struct {
	Timeout    time.Duration
	MaxRetries uint64
	BaseDelay  time.Duration
	Logger     *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = 200 * time.Millisecond
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// StatusError is a non-2xx response from a sink endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether the request is worth repeating.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

func newClient(baseURL string, opts Options) *resty.Client {
	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "contact-relay/1.0")
	if baseURL != "" {
		client.SetBaseURL(baseURL)
	}
	return client
}

// send runs call with exponential backoff. Transport errors, 429 and 5xx are
// retried; any other non-2xx status fails at once.
func send(ctx context.Context, opts Options, call func(ctx context.Context) (*resty.Response, error)) (*resty.Response, error) {
	backoff := retry.WithMaxRetries(opts.MaxRetries,
		retry.WithCappedDuration(5*time.Second, retry.NewExponential(opts.BaseDelay)))

	var resp *resty.Response
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		r, err := call(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return retry.RetryableError(err)
		}
		resp = r
		if r.IsSuccess() {
			return nil
		}

		statusErr := &StatusError{StatusCode: r.StatusCode(), Body: truncate(r.String(), 256)}
		if statusErr.Temporary() {
			opts.Logger.Debug("retrying sink request", "status", r.StatusCode(), "url", r.Request.URL)
			return retry.RetryableError(statusErr)
		}
		return statusErr
	})
	return resp, err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
