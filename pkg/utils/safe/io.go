package safe

import (
	"context"
	"io"

	"github.com/secmon-lab/analytics-agent/pkg/utils/logging"
)

// Close closes closer and logs the failure instead of returning it.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("failed to close", logging.ErrAttr(err))
	}
}

func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if _, err := w.Write(data); err != nil {
		logging.From(ctx).Error("failed to write", logging.ErrAttr(err))
	}
}
