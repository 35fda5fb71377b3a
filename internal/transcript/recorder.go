package transcript

import (
	"context"

	"github.com/brightsmile-dental/voice-assistant/internal/flow"
	"github.com/brightsmile-dental/voice-assistant/pkg/logging"
)

// Recorder is a flow observer that writes every event into a Store.
// Store failures are logged and swallowed: recording must never break
// a live call.
type Recorder struct {
	store  Store
	logger *logging.Logger
}

// NewRecorder builds a recorder over the store.
func NewRecorder(store Store, logger *logging.Logger) *Recorder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Recorder{store: store, logger: logger}
}

var _ flow.Observer = (*Recorder)(nil)

// Observe appends the event to the session transcript.
func (r *Recorder) Observe(ctx context.Context, event flow.Event) {
	if err := r.store.Append(ctx, event); err != nil {
		r.logger.Warn("transcript append failed",
			"session_id", event.SessionID,
			"kind", string(event.Kind),
			"error", err,
		)
	}
}
