// Package email delivers recovery emails through the Resend API.
package email

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"dunning-dashboard/config"
	"dunning-dashboard/internal/buildmode"
	"dunning-dashboard/internal/core/domain"
	"dunning-dashboard/internal/core/ports"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// NewProvider picks the provider for cfg. Without an API key, demo builds get
// the simulated provider and every other build gets one that refuses to send.
func NewProvider(cfg config.EmailConfig, log zerolog.Logger) ports.EmailProvider {
	switch {
	case cfg.Configured():
		c, err := NewClient(cfg, &http.Client{Timeout: cfg.Timeout})
		if err != nil {
			log.Error().Err(err).Msg("invalid email configuration, sends will fail with CFG_003")
			return Unconfigured{}
		}
		return c
	case buildmode.Demo:
		log.Warn().Msg("email api key not set, using simulated provider")
		return Simulated{log: log}
	default:
		log.Warn().Msg("email api key not set, sends will fail with CFG_003")
		return Unconfigured{}
	}
}

// Client sends mail through the Resend SDK.
type Client struct {
	resend *resend.Client
}

// NewClient creates an API-backed provider. An empty cfg.BaseURL keeps the
// SDK's default endpoint.
func NewClient(cfg config.EmailConfig, httpClient *http.Client) (*Client, error) {
	rc := resend.NewCustomClient(httpClient, cfg.APIKey)
	if cfg.BaseURL != "" {
		base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse email base url: %w", err)
		}
		rc.BaseURL = base
	}
	return &Client{resend: rc}, nil
}

// Send delivers msg and returns the provider message id. An error answer
// from the API wraps ports.ErrEmailRejected; transport failures do not.
func (c *Client) Send(ctx context.Context, msg domain.OutboundEmail) (string, error) {
	sent, err := c.resend.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("send email: %w", err)
		}
		return "", fmt.Errorf("%w: %s", ports.ErrEmailRejected, strings.TrimPrefix(err.Error(), "[ERROR]: "))
	}
	if sent == nil || sent.Id == "" {
		return "", fmt.Errorf("email provider returned no message id")
	}
	return sent.Id, nil
}

// Unconfigured fails every send with ports.ErrEmailNotConfigured.
type Unconfigured struct{}

func (Unconfigured) Send(context.Context, domain.OutboundEmail) (string, error) {
	return "", ports.ErrEmailNotConfigured
}
