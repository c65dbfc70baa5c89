package postgres

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migrations, migrationsDir+"/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	schema, err := fs.ReadFile(migrations, files[0])
	require.NoError(t, err)

	sql := string(schema)
	assert.Contains(t, sql, "-- +goose Up")
	assert.Contains(t, sql, "-- +goose Down")
	for _, table := range []string{"suppliers", "products", "receipts", "receipt_items", "sales", "sale_items", "reservations", "sys_sequences"} {
		assert.Contains(t, sql, "CREATE TABLE "+table+" (", table)
	}
	assert.Contains(t, sql, "CONSTRAINT products_article_key UNIQUE (article)")
	assert.False(t, strings.Contains(strings.ToUpper(sql), "REFERENCES"), "document links are plain columns")
}

func TestParseMigrateCommand(t *testing.T) {
	for _, s := range []string{"up", "down", "status"} {
		cmd, err := ParseMigrateCommand(s)
		require.NoError(t, err)
		assert.Equal(t, MigrateCommand(s), cmd)
	}

	_, err := ParseMigrateCommand("sideways")
	assert.ErrorContains(t, err, "unknown migrate command")

	// rejected before any connection is opened
	err = Migrate(context.Background(), &Pool{}, "sideways")
	assert.ErrorContains(t, err, "unknown migrate command")
}
