package fetcher

import "context"

// FetchProvider is the capability contract a fetch provider implements.
//
// The agent drives one fetch cycle as: Open, Fetch, Process, Close — with
// Close always executed once Open has been attempted, and the whole cycle
// wrapped by the provider's retry policy. Providers own no state beyond the
// connection acquired in Open; a provider instance serves a single event and
// is never shared across cycles.
type FetchProvider interface {
	// RetryConfig declares the retry policy the agent applies around the
	// provider's fetch cycle. Policy is data; the agent owns the control flow.
	RetryConfig() RetryConfig

	// Open acquires the provider's connection. The connection must be
	// authenticated and usable when Open returns nil.
	Open(ctx context.Context) error

	// Close releases the connection. Idempotent, and safe to call when Open
	// was never called or failed.
	Close() error

	// Fetch retrieves the raw records for this event. An absent or incomplete
	// configuration yields an empty result, not an error.
	Fetch(ctx context.Context) (any, error)

	// Process transforms the raw records from Fetch into a JSON-serializable
	// value. Pure: no I/O, no mutation of the input.
	Process(raw any) (any, error)
}

// Factory constructs a provider for one event.
type Factory func(event FetchEvent) (FetchProvider, error)
