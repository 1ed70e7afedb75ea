package generation

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// minAnswerLength filters degenerate completions: a backend output shorter
// than this is treated as a failure and the cascade moves on.
const minAnswerLength = 30

// Cascade tries an ordered list of backends until one produces an acceptable
// answer. Backends are invoked strictly sequentially, never retried within a
// request, and every failure is absorbed here. The cascade never fabricates
// content: when all backends fail it returns the empty string and the caller
// applies its fallback.
type Cascade struct {
	backends []Backend
	logger   *zap.Logger
}

// NewCascade creates a cascade over backends in priority order.
func NewCascade(logger *zap.Logger, backends ...Backend) *Cascade {
	return &Cascade{
		backends: backends,
		logger:   logger,
	}
}

// Generate returns the first acceptable backend output, or "" when every
// backend is unconfigured, fails, or produces a degenerate answer.
func (c *Cascade) Generate(ctx context.Context, question, contextText string) string {
	for i, b := range c.backends {
		if !b.Configured() {
			c.logger.Debug("backend skipped, not configured",
				zap.String("backend", b.Name()))
			continue
		}

		c.logger.Info("attempting generation backend",
			zap.String("backend", b.Name()),
			zap.Int("position", i+1),
			zap.Int("total", len(c.backends)))

		out, err := b.Attempt(ctx, question, contextText)
		if err != nil {
			c.logger.Warn("backend attempt failed",
				zap.String("backend", b.Name()),
				zap.Error(err))
			continue
		}

		out = strings.TrimSpace(out)
		if len(out) < minAnswerLength {
			c.logger.Warn("backend output too short, discarded",
				zap.String("backend", b.Name()),
				zap.Int("length", len(out)))
			continue
		}

		c.logger.Info("backend produced answer",
			zap.String("backend", b.Name()),
			zap.Int("length", len(out)))
		return out
	}

	c.logger.Warn("all generation backends exhausted")
	return ""
}
