package service

import (
	"context"
	"errors"

	"dunning-dashboard/internal/core/domain"
	"dunning-dashboard/internal/core/ports"
	"dunning-dashboard/pkg/apperror"

	"github.com/rs/zerolog"
)

// storageError maps a repository failure onto the API error catalog. Real
// failures are logged with msg and returned with their message exposed.
func storageError(log zerolog.Logger, err error, msg string) error {
	if errors.Is(err, ports.ErrStorageNotConfigured) {
		return apperror.ErrStorageNotConfigured()
	}
	log.Error().Err(err).Msg(msg)
	return apperror.ErrUpstream(err)
}

// publish sends a domain event. Delivery is best effort: a broker outage is
// logged and never fails the request that already committed.
func publish(ctx context.Context, pub ports.EventPublisher, log zerolog.Logger, t domain.EventType, data any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, domain.NewEvent(t, data)); err != nil {
		log.Warn().Err(err).Str("event", string(t)).Msg("failed to publish domain event")
	}
}
