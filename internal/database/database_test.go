package database

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"authgate/internal/domain"
)

func TestConnect_SQLiteMigrates(t *testing.T) {
	db, err := Connect(":memory:", zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "access_tokens", "refresh_tokens"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestConnect_RecordNotFoundIsNotLogged(t *testing.T) {
	var buf bytes.Buffer
	db, err := Connect(":memory:", zerolog.New(&buf))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	buf.Reset()

	var rt domain.RefreshToken
	err = db.WithContext(context.Background()).Where("hash = ?", "missing").First(&rt).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NotContains(t, buf.String(), "record not found")
}

func TestConnect_SQLErrorsGoThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	db, err := Connect(":memory:", zerolog.New(&buf))
	require.NoError(t, err)

	assert.Error(t, db.Exec("SELECT * FROM no_such_table").Error)
	assert.Contains(t, buf.String(), `"component":"gorm"`)
	assert.Contains(t, buf.String(), "no_such_table")
}

func TestIsPostgres(t *testing.T) {
	assert.True(t, IsPostgres("postgres://u:p@db/auth"))
	assert.True(t, IsPostgres("postgresql://u:p@db/auth"))
	assert.False(t, IsPostgres("authgate.db"))
	assert.False(t, IsPostgres(":memory:"))
}
