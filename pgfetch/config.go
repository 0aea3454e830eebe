// Package pgfetch implements the SQL fetch provider, the near-duplicate
// sibling of the directory provider: same event shape and lifecycle, a
// Postgres connection and a read-only transaction instead of an LDAP bind.
package pgfetch

import (
	"encoding/json"
	"fmt"

	"policysync/fetcher"
)

// ProviderName is the fetcher discriminator carried by events addressed to
// this provider.
const ProviderName = "PostgresFetchProvider"

// ConnectionParams override or complement parts of the event's dsn. All
// fields are optional.
type ConnectionParams struct {
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
	Host     string `json:"host,omitempty"`
	Port     uint16 `json:"port,omitempty"`
	// TLS disables transport security when explicitly set to false.
	TLS *bool `json:"tls,omitempty"`
}

// Config is the SQL fetcher configuration embedded in a fetch event.
type Config struct {
	Fetcher          string            `json:"fetcher"`
	ConnectionParams *ConnectionParams `json:"connection_params,omitempty"`
	// Query is the SELECT statement run against the database.
	Query string `json:"query,omitempty"`
	// FetchOne returns only the first row of the result set, as a single
	// object rather than a list.
	FetchOne bool `json:"fetch_one,omitempty"`
}

// DefaultConfig returns the empty configuration substituted when an event
// carries none.
func DefaultConfig() *Config {
	return &Config{Fetcher: ProviderName}
}

// Event is the SQL-specialized fetch event.
type Event struct {
	fetcher.FetchEvent
	Config *Config
}

// ParseEvent specializes a generic fetch event for this provider.
func ParseEvent(event fetcher.FetchEvent) (*Event, error) {
	if event.Fetcher != ProviderName {
		return nil, &fetcher.ValidationError{
			Reason: fmt.Sprintf("event addresses fetcher %q, not %q", event.Fetcher, ProviderName),
		}
	}

	cfg := DefaultConfig()
	if len(event.Config) > 0 {
		if err := json.Unmarshal(event.Config, cfg); err != nil {
			return nil, &fetcher.ValidationError{
				Reason: fmt.Sprintf("malformed %s config payload: %v", ProviderName, err),
			}
		}
	}

	return &Event{FetchEvent: event, Config: cfg}, nil
}
