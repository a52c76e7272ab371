package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresStore(mock, "kiosk-1"), mock
}

func TestPostgresStore_Get(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT value FROM client_storage").
		WithArgs("kiosk-1", "auth_token").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow("a.b.c"))

	v, ok, err := s.Get(context.Background(), "auth_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a.b.c", v)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetMissing(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT value FROM client_storage").
		WithArgs("kiosk-1", "auth_token").
		WillReturnError(pgx.ErrNoRows)

	_, ok, err := s.Get(context.Background(), "auth_token")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT value FROM client_storage").
		WithArgs("kiosk-1", "auth_token").
		WillReturnError(errors.New("connection reset"))

	_, ok, err := s.Get(context.Background(), "auth_token")
	assert.False(t, ok)
	assert.ErrorContains(t, err, "connection reset")
}

func TestPostgresStore_SetUpserts(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO client_storage").
		WithArgs("kiosk-1", "auth_token", "a.b.c").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.Set(context.Background(), "auth_token", "a.b.c"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RemoveMissingIsFine(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM client_storage").
		WithArgs("kiosk-1", "auth_token").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, s.Remove(context.Background(), "auth_token"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Ping(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectPing()

	assert.NoError(t, Ping(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}
