package pgfetch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policysync/fetcher"
)

func queryEvent(t *testing.T, fetchOne bool) *Event {
	t.Helper()
	payload, err := json.Marshal(Config{
		Fetcher:  ProviderName,
		Query:    "SELECT username, role FROM permissions",
		FetchOne: fetchOne,
	})
	require.NoError(t, err)

	event, err := ParseEvent(fetcher.NewFetchEvent(ProviderName, "postgres://reader@db.example.com/authz", payload))
	require.NoError(t, err)
	return event
}

func TestNewSubstitutesDefaultConfig(t *testing.T) {
	event, err := ParseEvent(fetcher.NewFetchEvent(ProviderName, "postgres://db.example.com/authz", nil))
	require.NoError(t, err)

	event.Config = nil
	provider := New(event)

	require.NotNil(t, provider.event.Config)
	assert.Equal(t, ProviderName, provider.event.Config.Fetcher)
}

func TestParseEventRejectsWrongFetcher(t *testing.T) {
	_, err := ParseEvent(fetcher.NewFetchEvent("LdapFetchProvider", "ldap://directory", nil))
	assert.True(t, fetcher.IsValidationError(err))
}

func TestFetchWithoutQueryYieldsEmptyResult(t *testing.T) {
	event, err := ParseEvent(fetcher.NewFetchEvent(ProviderName, "postgres://db.example.com/authz", nil))
	require.NoError(t, err)
	provider := New(event)

	raw, fetchErr := provider.Fetch(context.Background())
	require.NoError(t, fetchErr)

	records, ok := raw.([]map[string]any)
	require.True(t, ok)
	assert.Empty(t, records)
}

func TestProcessReturnsRowList(t *testing.T) {
	provider := New(queryEvent(t, false))

	raw := []map[string]any{
		{"username": "alice", "role": "admin"},
		{"username": "bob", "role": "viewer"},
	}

	out, err := provider.Process(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, out)

	_, err = json.Marshal(out)
	require.NoError(t, err)
}

func TestProcessFetchOneReturnsFirstRow(t *testing.T) {
	provider := New(queryEvent(t, true))

	raw := []map[string]any{
		{"username": "alice", "role": "admin"},
		{"username": "bob", "role": "viewer"},
	}

	out, err := provider.Process(raw)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"username": "alice", "role": "admin"}, out)
}

func TestProcessFetchOneWithNoRowsReturnsEmptyObject(t *testing.T) {
	provider := New(queryEvent(t, true))

	out, err := provider.Process([]map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, out)
}

func TestCloseWithoutOpenIsNoOp(t *testing.T) {
	provider := New(queryEvent(t, false))
	assert.NoError(t, provider.Close())
	assert.NoError(t, provider.Close())
}

func TestClassifyMarksSyntaxAndDataErrorsUnretryable(t *testing.T) {
	undefinedTable := &pgconn.PgError{Code: "42P01"}
	assert.True(t, fetcher.IsQueryError(classify(undefinedTable)))

	badCast := &pgconn.PgError{Code: "22P02"}
	assert.True(t, fetcher.IsQueryError(classify(badCast)))

	tooManyConnections := &pgconn.PgError{Code: "53300"}
	assert.False(t, fetcher.IsQueryError(classify(tooManyConnections)))

	plain := errors.New("connection reset")
	assert.False(t, fetcher.IsQueryError(classify(plain)))
}
