package generation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const longAnswer = "Selon le Code pénal marocain, le vol est puni de l'emprisonnement d'un à cinq ans."

// stubBackend scripts one backend's behavior and records whether it was asked.
type stubBackend struct {
	name       string
	configured bool
	output     string
	err        error
	calls      int
}

func (s *stubBackend) Name() string     { return s.name }
func (s *stubBackend) Configured() bool { return s.configured }

func (s *stubBackend) Attempt(ctx context.Context, question, contextText string) (string, error) {
	s.calls++
	return s.output, s.err
}

func TestCascadeGenerate(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("first configured backend wins", func(t *testing.T) {
		first := &stubBackend{name: "openai", configured: true, output: longAnswer}
		second := &stubBackend{name: "groq", configured: true, output: longAnswer}
		cascade := NewCascade(logger, first, second)

		out := cascade.Generate(ctx, "question", "")

		assert.Equal(t, longAnswer, out)
		assert.Equal(t, 1, first.calls)
		assert.Equal(t, 0, second.calls, "later backends must not run after a success")
	})

	t.Run("failures fall through in order", func(t *testing.T) {
		first := &stubBackend{name: "openai", configured: true, err: errors.New("401 unauthorized")}
		second := &stubBackend{name: "groq", configured: true, output: longAnswer}
		cascade := NewCascade(logger, first, second)

		out := cascade.Generate(ctx, "question", "")

		assert.Equal(t, longAnswer, out)
		assert.Equal(t, 1, first.calls)
		assert.Equal(t, 1, second.calls)
	})

	t.Run("unconfigured backends are skipped without an attempt", func(t *testing.T) {
		first := &stubBackend{name: "openai", configured: false, output: longAnswer}
		second := &stubBackend{name: "groq", configured: true, output: longAnswer}
		cascade := NewCascade(logger, first, second)

		out := cascade.Generate(ctx, "question", "")

		assert.Equal(t, longAnswer, out)
		assert.Equal(t, 0, first.calls)
	})

	t.Run("short output is discarded", func(t *testing.T) {
		first := &stubBackend{name: "openai", configured: true, output: "Oui."}
		second := &stubBackend{name: "groq", configured: true, output: longAnswer}
		cascade := NewCascade(logger, first, second)

		out := cascade.Generate(ctx, "question", "")

		assert.Equal(t, longAnswer, out)
		assert.Equal(t, 1, first.calls)
		assert.Equal(t, 1, second.calls)
	})

	t.Run("output is trimmed before the length check", func(t *testing.T) {
		padded := &stubBackend{name: "openai", configured: true, output: "   " + longAnswer + "\n"}
		cascade := NewCascade(logger, padded)

		out := cascade.Generate(ctx, "question", "")

		assert.Equal(t, longAnswer, out)
		assert.False(t, strings.HasPrefix(out, " "))
	})

	t.Run("exhaustion returns empty string, never an error", func(t *testing.T) {
		first := &stubBackend{name: "openai", configured: true, err: errors.New("timeout")}
		second := &stubBackend{name: "groq", configured: false}
		third := &stubBackend{name: "huggingface", configured: true, output: "court"}
		cascade := NewCascade(logger, first, second, third)

		out := cascade.Generate(ctx, "question", "")

		assert.Empty(t, out)
	})

	t.Run("no backends at all", func(t *testing.T) {
		cascade := NewCascade(logger)

		assert.Empty(t, cascade.Generate(ctx, "question", ""))
	})
}
