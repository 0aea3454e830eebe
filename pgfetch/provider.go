package pgfetch

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/pkg/errors"

	"policysync/fetcher"
	"policysync/logger"
)

// Provider fetches authorization data from a Postgres database. One instance
// serves one fetch event; connection and transaction live for a single fetch
// cycle.
type Provider struct {
	event *Event
	conn  *pgx.Conn
	tx    pgx.Tx
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

// RetryConfig declares the same policy as the directory provider: up to 10
// attempts with randomized exponential backoff, query errors excluded.
func (p *Provider) RetryConfig() fetcher.RetryConfig {
	return fetcher.RetryConfig{
		MaxAttempts: 10,
		Unretryable: fetcher.IsQueryError,
	}
}

// Open connects using the event's dsn with connection-param overrides
// applied, then begins a read-only transaction so the sync agent can never
// write through this provider.
func (p *Provider) Open(ctx context.Context) error {
	connConfig, err := pgx.ParseConfig(p.event.URL)
	if err != nil {
		return &fetcher.ValidationError{Reason: "invalid dsn: " + err.Error()}
	}

	if cp := p.event.Config.ConnectionParams; cp != nil {
		if cp.User != "" {
			connConfig.User = cp.User
		}
		if cp.Password != "" {
			connConfig.Password = cp.Password
		}
		if cp.Host != "" {
			connConfig.Host = cp.Host
		}
		if cp.Port != 0 {
			connConfig.Port = cp.Port
		}
		if cp.TLS != nil && !*cp.TLS {
			connConfig.TLSConfig = nil
		}
	}

	conn, err := pgx.ConnectConfig(ctx, connConfig)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to connect to database")
	}

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		conn.Close(ctx)
		return pkgerrors.Wrap(err, "failed to begin read-only transaction")
	}

	p.conn = conn
	p.tx = tx
	return nil
}

// Close ends the transaction and closes the connection. Safe to call when
// Open was never called or failed.
func (p *Provider) Close() error {
	ctx := context.Background()

	if p.tx != nil {
		if err := p.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.Warn("transaction rollback failed", "event_id", p.event.ID, "error", err)
		}
		p.tx = nil
	}

	if p.conn != nil {
		err := p.conn.Close(ctx)
		p.conn = nil
		return err
	}
	return nil
}

// Fetch runs the configured query in the read-only transaction and returns
// the rows as plain maps. A missing query degrades to an empty result with a
// warning.
func (p *Provider) Fetch(ctx context.Context) (any, error) {
	cfg := p.event.Config
	if cfg.Query == "" {
		logger.Warn("incomplete fetcher config: sql data entries require a query to specify what data to fetch",
			"event_id", p.event.ID)
		return []map[string]any{}, nil
	}

	if p.tx == nil {
		return nil, pkgerrors.New("database transaction is not open")
	}

	logger.Debug("fetching from database", "event_id", p.event.ID)

	rows, err := p.tx.Query(ctx, cfg.Query)
	if err != nil {
		return nil, classify(err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, classify(err)
	}
	return records, nil
}

// Process returns the row list as-is, or just the first row (an empty object
// when there is none) under fetch_one.
func (p *Provider) Process(raw any) (any, error) {
	records, ok := raw.([]map[string]any)
	if !ok {
		return nil, pkgerrors.Errorf("unexpected raw record type %T", raw)
	}

	if p.event.Config.FetchOne {
		if len(records) > 0 {
			return records[0], nil
		}
		return map[string]any{}, nil
	}

	logger.Info("processed database rows", "event_id", p.event.ID, "rows", len(records))
	return records, nil
}

// classify wraps server errors that retrying cannot fix (SQLSTATE classes 22
// data exception and 42 syntax or access rule violation) as query errors.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 {
		switch pgErr.Code[:2] {
		case "22", "42":
			return &fetcher.QueryError{Err: err}
		}
	}
	return pkgerrors.Wrap(err, "database query failed")
}
