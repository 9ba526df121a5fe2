package errutil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dcrisk/pkg/utils/logging"
)

// Handle logs the error with a message and reports it to Sentry when a client is bound.
// The error is returned unchanged so callers can keep propagating it.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	logging.From(ctx).Error(msg, errorAttrs(err)...)
	capture(ctx, err)
	return err
}

// ErrorResponse is the JSON body of every API error
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleHTTP logs the error and writes a JSON error body. Messages of 5xx errors stay in
// the log; the client only sees the status text. Only 5xx errors are forwarded to Sentry.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int) {
	if err == nil {
		return
	}

	attrs := append([]any{slog.Int("status", statusCode)}, errorAttrs(err)...)
	logging.From(ctx).Error("HTTP error", attrs...)

	msg := err.Error()
	if statusCode >= http.StatusInternalServerError {
		capture(ctx, err)
		msg = http.StatusText(statusCode)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: msg})
}

func errorAttrs(err error) []any {
	attrs := []any{slog.String("error", err.Error())}

	var ge *goerr.Error
	if errors.As(err, &ge) {
		attrs = append(attrs,
			slog.Any("values", ge.Values()),
			slog.Any("stack", ge.Stacks()),
		)
	}
	return attrs
}

func capture(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() == nil {
		return
	}
	hub.CaptureException(err)
}
