package ldapfetch

import (
	"context"

	"github.com/go-ldap/ldap/v3"
	"github.com/pkg/errors"

	"policysync/fetcher"
	"policysync/logger"
)

// pageSize bounds each search request so directories that cap a single
// response (commonly at 1000 entries) are still traversed completely.
const pageSize = 100

// searchConn is the slice of *ldap.Conn the provider uses.
type searchConn interface {
	SearchWithPaging(searchRequest *ldap.SearchRequest, pagingSize uint32) (*ldap.SearchResult, error)
	Close() error
}

// Provider fetches authorization data from a directory server. One instance
// serves one fetch event; the connection lives for a single fetch cycle.
type Provider struct {
	event *Event
	conn  searchConn
}

// New constructs the provider for a parsed event. The event's configuration
// is never nil afterwards.
func New(event *Event) *Provider {
	if event.Config == nil {
		event.Config = DefaultConfig()
	}
	return &Provider{event: event}
}

// Register wires the provider into a fetcher registry.
func Register(registry *fetcher.Registry) error {
	return registry.Register(ProviderName, func(event fetcher.FetchEvent) (fetcher.FetchProvider, error) {
		parsed, err := ParseEvent(event)
		if err != nil {
			return nil, err
		}
		return New(parsed), nil
	})
}

// RetryConfig declares the fetch-cycle retry policy: up to 10 attempts with
// randomized exponential backoff, query errors excluded, final error
// re-raised.
func (p *Provider) RetryConfig() fetcher.RetryConfig {
	return fetcher.RetryConfig{
		MaxAttempts: 10,
		Unretryable: fetcher.IsQueryError,
	}
}

// Open dials the directory server and binds. The server URL comes from the
// connection params when set, else from the event's base connection string.
// go-ldap has no read-only session mode; the provider only ever issues
// search operations.
func (p *Provider) Open(ctx context.Context) error {
	serverURL := p.event.URL
	var user, password string
	if cp := p.event.Config.ConnectionParams; cp != nil {
		if cp.URL != "" {
			serverURL = cp.URL
		}
		user = cp.User
		password = cp.Password
	}

	conn, err := ldap.DialURL(serverURL)
	if err != nil {
		return errors.Wrapf(err, "failed to connect to directory server %s", serverURL)
	}

	if user != "" {
		err = conn.Bind(user, password)
	} else {
		err = conn.UnauthenticatedBind("")
	}
	if err != nil {
		conn.Close()
		return errors.Wrapf(err, "failed to bind to directory server %s", serverURL)
	}

	p.conn = conn
	return nil
}

// Close unbinds and drops the connection. Safe to call when Open was never
// called or failed.
func (p *Provider) Close() error {
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

// Fetch runs the paged search and returns the raw records. An incomplete
// configuration degrades to an empty result with a warning: an unconfigured
// optional data source is a valid steady state, not a failure.
func (p *Provider) Fetch(ctx context.Context) (any, error) {
	cfg := p.event.Config
	if !cfg.complete() {
		logger.Warn("incomplete fetcher config: directory data entries require root, search and attributes to specify what data to fetch",
			"event_id", p.event.ID)
		return []SearchRecord{}, nil
	}

	if _, err := ldap.CompileFilter(cfg.Search); err != nil {
		return nil, &fetcher.QueryError{Err: errors.Wrapf(err, "invalid search filter %q", cfg.Search)}
	}

	if p.conn == nil {
		return nil, errors.New("directory connection is not open")
	}

	logger.Debug("fetching from directory", "event_id", p.event.ID, "root", cfg.Root, "filter", cfg.Search)

	request := ldap.NewSearchRequest(
		cfg.Root,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, 0, false,
		cfg.Search,
		cfg.Attributes,
		nil,
	)

	result, err := p.conn.SearchWithPaging(request, pageSize)
	if err != nil {
		if isQueryFailure(err) {
			return nil, &fetcher.QueryError{Err: err}
		}
		return nil, errors.Wrap(err, "directory search failed")
	}

	return recordsFromEntries(result.Entries), nil
}

// Process reduces raw search records to the value map the host republishes:
// DN → requested attributes actually present on the entry. Records that are
// not real entries are dropped; attributes outside the configured list are
// dropped; missing attributes are omitted rather than null-filled. Duplicate
// DNs overwrite, last record wins.
func (p *Provider) Process(raw any) (any, error) {
	records, ok := raw.([]SearchRecord)
	if !ok {
		return nil, errors.Errorf("unexpected raw record type %T", raw)
	}

	wanted := make(map[string]struct{}, len(p.event.Config.Attributes))
	for _, name := range p.event.Config.Attributes {
		wanted[name] = struct{}{}
	}

	values := make(map[string]map[string]any, len(records))
	for _, record := range records {
		if record.Type != EntryType {
			continue
		}

		attrs := make(map[string]any)
		for name, vals := range record.Attributes {
			if _, ok := wanted[name]; !ok {
				continue
			}
			switch len(vals) {
			case 0:
			case 1:
				attrs[name] = vals[0]
			default:
				attrs[name] = append([]string(nil), vals...)
			}
		}
		values[record.DN] = attrs
	}

	logger.Info("processed directory entries", "event_id", p.event.ID, "entries", len(values), "values", values)
	return values, nil
}

// isQueryFailure classifies search failures that retrying cannot fix.
func isQueryFailure(err error) bool {
	return ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) ||
		ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidDNSyntax) ||
		ldap.IsErrorWithCode(err, ldap.ErrorFilterCompile)
}
