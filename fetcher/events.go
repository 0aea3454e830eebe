// Package fetcher defines the contract between the synchronization agent and
// its fetch providers: the event envelope delivered per fetch cycle, the
// provider capability interface, the provider registry, and the declarative
// retry policy the agent applies around each cycle.
package fetcher

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Config is the base fetcher-configuration shape. Provider packages embed it
// and add their own fields; only the discriminator is common.
type Config struct {
	Fetcher string `json:"fetcher"`
}

// FetchEvent is the envelope describing one unit of data to fetch: which
// provider handles it, the base connection string, and the provider-specific
// configuration payload. The payload stays raw JSON until the matching
// provider parses it into its own config type.
type FetchEvent struct {
	ID      string          `json:"id"`
	Fetcher string          `json:"fetcher"`
	URL     string          `json:"url"`
	Config  json.RawMessage `json:"config,omitempty"`
}

// NewFetchEvent builds an event with a fresh id. config may be nil when the
// source carries no provider-specific configuration.
func NewFetchEvent(fetcherName, url string, config json.RawMessage) FetchEvent {
	return FetchEvent{
		ID:      uuid.NewString(),
		Fetcher: fetcherName,
		URL:     url,
		Config:  config,
	}
}
