package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dunning-dashboard/internal/core/ports"
	"dunning-dashboard/pkg/apperror"
	"dunning-dashboard/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const (
	// HeaderWebhookSignature carries "t=<unix>,v1=<hex hmac>[,v1=...]".
	HeaderWebhookSignature = "X-Whop-Signature"

	// CtxWebhookBody holds the verified raw request body.
	CtxWebhookBody = "webhook_body"
)

var errMalformedSignature = errors.New("malformed signature header")

// WebhookSignatureConfig configures signature verification for one endpoint.
type WebhookSignatureConfig struct {
	Scope     string // replay-guard namespace, one per endpoint
	Secret    string
	Tolerance time.Duration
}

// ParseSignatureHeader splits a signature header into its timestamp and
// v1 signatures. A sender rotating its secret sends one v1 per key.
// Unknown elements are ignored.
func ParseSignatureHeader(header string) (int64, []string, error) {
	var (
		ts   int64
		sigs []string
		err  error
	)
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			ts, err = strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, nil, errMalformedSignature
			}
		case "v1":
			if value != "" {
				sigs = append(sigs, value)
			}
		}
	}
	if ts == 0 || len(sigs) == 0 {
		return 0, nil, errMalformedSignature
	}
	return ts, sigs, nil
}

// WebhookSignature verifies the sender's HMAC over "<t>.<body>" and guards
// against replays of an already processed delivery.
// Pipeline: secret present -> header -> timestamp -> signature -> replay check.
// The first v1 value that verifies is the replay key.
// When the downstream handler fails with a 5xx the replay marker is released
// so that the sender's redelivery is processed.
func WebhookSignature(
	cfg WebhookSignatureConfig,
	sigSvc ports.SignatureService,
	nonceStore ports.NonceStore,
	log zerolog.Logger,
) gin.HandlerFunc {
	nonceTTL := 2 * cfg.Tolerance

	return func(c *gin.Context) {
		if cfg.Secret == "" {
			log.Error().Str("scope", cfg.Scope).Msg("webhook secret not configured")
			response.Error(c, apperror.ErrMissingWebhookSecret())
			c.Abort()
			return
		}

		header := c.GetHeader(HeaderWebhookSignature)
		if header == "" {
			response.Error(c, apperror.ErrMissingSignature())
			c.Abort()
			return
		}
		timestamp, candidates, err := ParseSignatureHeader(header)
		if err != nil {
			response.Error(c, apperror.ErrInvalidSignature())
			c.Abort()
			return
		}

		drift := time.Since(time.Unix(timestamp, 0))
		if drift > cfg.Tolerance || drift < -cfg.Tolerance {
			response.Error(c, apperror.ErrTimestampExpired())
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				response.Error(c, apperror.ErrPayloadTooLarge())
			} else {
				response.Error(c, apperror.Validation("cannot read request body"))
			}
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		payload := sigSvc.BuildSignedPayload(timestamp, body)
		signature, verified := lo.Find(candidates, func(sig string) bool {
			return sigSvc.Verify(cfg.Secret, payload, sig)
		})
		if !verified {
			log.Warn().Str("scope", cfg.Scope).Str("client_ip", c.ClientIP()).Msg("webhook signature mismatch")
			response.Error(c, apperror.ErrInvalidSignature())
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		isNew, guardErr := nonceStore.CheckAndSet(ctx, cfg.Scope, signature, nonceTTL)
		if guardErr != nil {
			log.Warn().Err(guardErr).Str("scope", cfg.Scope).Msg("replay guard unavailable, processing delivery")
			isNew = true
		}
		if !isNew {
			log.Info().Str("scope", cfg.Scope).Msg("duplicate webhook delivery acknowledged")
			response.OK(c, gin.H{"duplicate": true})
			c.Abort()
			return
		}

		c.Set(CtxWebhookBody, body)
		c.Next()

		if c.Writer.Status() >= http.StatusInternalServerError && guardErr == nil {
			if relErr := nonceStore.Release(ctx, cfg.Scope, signature); relErr != nil {
				log.Warn().Err(relErr).Str("scope", cfg.Scope).Msg("failed to release replay marker")
			}
		}
	}
}
