// Package ldapfetch implements the directory fetch provider: it binds to an
// LDAP server, runs a paged search and hands the agent a DN-keyed map of the
// requested attributes.
package ldapfetch

import (
	"encoding/json"
	"fmt"

	"policysync/fetcher"
)

// ProviderName is the fetcher discriminator carried by events addressed to
// this provider.
const ProviderName = "LdapFetchProvider"

// ConnectionParams override or complement parts of the event's base
// connection string. All fields are optional; an empty string means "not
// set" and falls back to the base connection string or library defaults.
type ConnectionParams struct {
	// User is the bind DN used to authenticate.
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
	// URL is the directory server URL, e.g. ldaps://host:636.
	URL string `json:"url,omitempty"`
}

// Config is the directory-specific fetcher configuration embedded in a fetch
// event. Root, Search and Attributes are all required for a meaningful
// search; leaving any of them unset is tolerated and yields an empty result.
type Config struct {
	Fetcher          string            `json:"fetcher"`
	ConnectionParams *ConnectionParams `json:"connection_params,omitempty"`
	// Root is the search base DN.
	Root string `json:"root,omitempty"`
	// Search is the LDAP search filter.
	Search string `json:"search,omitempty"`
	// Attributes lists the attribute names to retrieve.
	Attributes []string `json:"attributes,omitempty"`
}

// DefaultConfig returns the empty configuration substituted when an event
// carries none.
func DefaultConfig() *Config {
	return &Config{Fetcher: ProviderName}
}

func (c *Config) complete() bool {
	return c.Root != "" && c.Search != "" && len(c.Attributes) > 0
}

// Event is the directory-specialized fetch event.
type Event struct {
	fetcher.FetchEvent
	Config *Config
}

// ParseEvent specializes a generic fetch event for this provider, validating
// the discriminator and decoding the configuration payload. An absent
// payload yields the default configuration, never a nil one.
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
