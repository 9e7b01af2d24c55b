package email

import (
	"context"
	"fmt"
	"time"

	"dunning-dashboard/internal/core/domain"

	"github.com/rs/zerolog"
)

// Simulated logs the message instead of sending it. Only selected in demo builds.
type Simulated struct {
	log zerolog.Logger
}

// NewSimulated creates a simulated provider.
func NewSimulated(log zerolog.Logger) Simulated {
	return Simulated{log: log}
}

func (s Simulated) Send(_ context.Context, msg domain.OutboundEmail) (string, error) {
	id := fmt.Sprintf("sim_%d", time.Now().UnixNano())
	s.log.Info().
		Str("email_id", id).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("simulated email send")
	return id, nil
}
