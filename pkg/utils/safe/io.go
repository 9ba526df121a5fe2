package safe

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dcrisk/pkg/utils/logging"
)

// ErrTooLarge is returned by ReadAll when the input exceeds the limit
var ErrTooLarge = goerr.New("input exceeds size limit")

// Close closes closer and logs a failure instead of returning it. A nil closer is ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Warn("Failed to close",
			slog.String("target", fmt.Sprintf("%T", closer)),
			slog.Any("error", err),
		)
	}
}

// Write writes data and logs a failure. Used for response bodies, where the status line
// is already sent and nothing else can be done.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if _, err := w.Write(data); err != nil {
		logging.From(ctx).Error("Failed to write", slog.Int("bytes", len(data)), slog.Any("error", err))
	}
}

// ReadAll reads r to the end, failing with ErrTooLarge past limit bytes
func ReadAll(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read")
	}
	if int64(len(data)) > limit {
		return nil, goerr.Wrap(ErrTooLarge, "input too large", goerr.V("limit", limit))
	}
	return data, nil
}
