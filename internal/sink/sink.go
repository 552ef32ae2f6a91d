// Package sink receives submitted listing drafts.
package sink

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/second-chance/internal/model"
)

// Sink is the external collaborator a validated submission is handed to.
type Sink interface {
	Submit(ctx context.Context, s model.Submission) error
}

// Func adapts a function to Sink.
type Func func(ctx context.Context, s model.Submission) error

func (f Func) Submit(ctx context.Context, s model.Submission) error {
	return f(ctx, s)
}

// LogSink writes each submission as one structured log entry.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(l zerolog.Logger) *LogSink {
	return &LogSink{logger: l.With().Str("component", "sink").Logger()}
}

func (s *LogSink) Submit(ctx context.Context, sub model.Submission) error {
	var total int64
	for _, img := range sub.Images {
		total += img.Size
	}

	s.logger.Info().
		Str("draft_id", sub.DraftID).
		Str("title", sub.Title).
		Str("category", sub.Category).
		Str("price", sub.Price).
		Str("location", sub.Location).
		Str("description", sub.Description).
		Strs("images", sub.ImageNames()).
		Int("image_count", len(sub.Images)).
		Int64("image_bytes", total).
		Msg("Produkt hochladen")

	return nil
}
