package llm

import (
	"context"

	"github.com/saitejab/docuquery/pkg/logger_i"
)

// Constructor builds one backend. Registered by main so this package does
// not import the provider implementations.
type Constructor func(ctx context.Context) Provider

// SelectProvider resolves the configured backend by name. A nil return is
// valid and means the engine answers in degraded mode instead of crashing.
func SelectProvider(ctx context.Context, name string, constructors map[string]Constructor) Provider {
	logger := logger_i.NewLogger("llm_factory")

	if name == "" {
		name = "gemini"
	}
	construct, ok := constructors[name]
	if !ok {
		logger.Error("Unknown generation provider", "provider", name)
		return nil
	}

	provider := construct(ctx)
	if provider == nil {
		logger.Warn("Generation provider unavailable, answers degrade to top-chunk fallback", "provider", name)
	}
	return provider
}
