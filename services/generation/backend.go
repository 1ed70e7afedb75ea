package generation

import "context"

// Backend is one answer-generation capability in the cascade. Implementations
// own their credentials, model identifier, timeout and sampling settings, and
// must absorb their own failures: Attempt returns an error for the cascade to
// log and move past, never to propagate.
//
// An empty contextText selects the open-domain conversational prompt; a
// non-empty one selects the grounded legal prompt constrained to the supplied
// context.
type Backend interface {
	// Name returns the backend name (e.g. "openai", "groq").
	Name() string

	// Configured reports whether the backend has usable configuration.
	// Unconfigured backends are skipped without being attempted.
	Configured() bool

	// Attempt generates an answer for the question, optionally grounded in
	// contextText.
	Attempt(ctx context.Context, question, contextText string) (string, error)
}

// Known placeholder credentials left by setup templates. A key matching one of
// these is treated the same as no key at all.
var placeholderKeys = map[string]struct{}{
	"":                  {},
	"sk-votre-clé-ici":  {},
	"your-api-key":      {},
	"changeme":          {},
}

// keyConfigured reports whether an API key is present and not a placeholder.
func keyConfigured(key string) bool {
	_, placeholder := placeholderKeys[key]
	return !placeholder
}
