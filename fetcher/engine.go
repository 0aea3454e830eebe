package fetcher

import (
	"context"

	"policysync/logger"
)

// Engine executes fetch cycles: it resolves the provider for an event, then
// runs open/fetch/process under the provider's retry policy, releasing the
// connection at the end of every attempt.
type Engine struct {
	registry *Registry
}

func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// HandleEvent runs one fetch cycle and returns the processed, JSON-able
// value. All errors except those the provider degrades internally (absent
// configuration) surface here after the retry policy is exhausted.
func (e *Engine) HandleEvent(ctx context.Context, event FetchEvent) (any, error) {
	factory, err := e.registry.Lookup(event.Fetcher)
	if err != nil {
		return nil, err
	}

	provider, err := factory(event)
	if err != nil {
		return nil, err
	}

	var out any
	attempt := func() error {
		if err := provider.Open(ctx); err != nil {
			return err
		}
		defer func() {
			if closeErr := provider.Close(); closeErr != nil {
				logger.Warn("provider close failed", "event_id", event.ID, "error", closeErr)
			}
		}()

		raw, err := provider.Fetch(ctx)
		if err != nil {
			return err
		}

		out, err = provider.Process(raw)
		return err
	}

	if err := provider.RetryConfig().Run(ctx, attempt); err != nil {
		return nil, err
	}
	return out, nil
}
