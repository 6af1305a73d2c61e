// Package display mirrors shown quotes to a Quote/0 e-ink device.
package display

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/1set/quote0"

	"github.com/jsamuelsen/quotebox/internal/domain"
	"github.com/jsamuelsen/quotebox/internal/platform/logging"
)

const serviceName = "quote0"

// Config configures a Quote0 display.
type Config struct {
	APIKey   string
	DeviceID string

	// BaseURL overrides the Quote/0 API host.
	BaseURL string

	// HTTPClient, when set, replaces the SDK's default client.
	HTTPClient *http.Client

	// Options are passed to the SDK after the ones derived from this config.
	Options []quote0.ClientOption

	Logger *slog.Logger
}

// Quote0 implements ports.QuoteDisplay. The category becomes the title line
// and the quote text the message lines.
type Quote0 struct {
	client   *quote0.Client
	deviceID string
	logger   *slog.Logger
}

// New creates a Quote0 display.
func New(cfg Config) (*Quote0, error) {
	if cfg.DeviceID == "" {
		return nil, errors.New("device id is required")
	}

	opts := []quote0.ClientOption{
		quote0.WithDefaultDeviceID(cfg.DeviceID),
		quote0.WithUserAgent("quotebox"),
	}

	if cfg.BaseURL != "" {
		opts = append(opts, quote0.WithBaseURL(cfg.BaseURL))
	}

	if cfg.HTTPClient != nil {
		opts = append(opts, quote0.WithHTTPClient(cfg.HTTPClient))
	}

	opts = append(opts, cfg.Options...)

	client, err := quote0.NewClient(cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating quote0 client: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Quote0{
		client:   client,
		deviceID: cfg.DeviceID,
		logger:   logger.With(slog.String("component", "display.Quote0")),
	}, nil
}

// Show implements ports.QuoteDisplay.
func (d *Quote0) Show(ctx context.Context, quote domain.Quote) error {
	_, err := d.client.SendText(ctx, quote0.TextRequest{
		RefreshNow: quote0.Bool(true),
		DeviceID:   d.deviceID,
		Title:      quote.Category,
		Message:    quote.Text,
		Signature:  "quotebox",
	})
	if err != nil {
		return mapError(err)
	}

	logging.Trace(ctx, logging.FromContextOr(ctx, d.logger), "quote mirrored",
		slog.String("device_id", d.deviceID),
		slog.String("category", quote.Category),
	)

	return nil
}

func mapError(err error) error {
	switch {
	case quote0.IsAuthError(err):
		return domain.NewForbiddenError("show quote", "quote0 rejected the api key")
	case quote0.IsRateLimitError(err):
		return domain.NewUnavailableError(serviceName, "rate limit exceeded")
	default:
		return domain.NewUnavailableError(serviceName, err.Error())
	}
}
