package register_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockQueries(t *testing.T) {
	repo := NewStockRepo(nil)

	tests := []struct {
		name     string
		build    func() (string, []any, error)
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "levels",
			build:    func() (string, []any, error) { return repo.levelsQuery([]int64{1, 2}, false).ToSql() },
			wantSQL:  "SELECT id, current_stock FROM products WHERE id IN ($1,$2) ORDER BY id",
			wantArgs: []any{int64(1), int64(2)},
		},
		{
			name:     "levels for update",
			build:    func() (string, []any, error) { return repo.levelsQuery([]int64{3}, true).ToSql() },
			wantSQL:  "SELECT id, current_stock FROM products WHERE id IN ($1) ORDER BY id FOR UPDATE",
			wantArgs: []any{int64(3)},
		},
		{
			name:     "increase",
			build:    func() (string, []any, error) { return repo.increaseQuery(7, 5).ToSql() },
			wantSQL:  "UPDATE products SET current_stock = current_stock + $1 WHERE id = $2",
			wantArgs: []any{int64(5), int64(7)},
		},
		{
			name:     "guarded decrease",
			build:    func() (string, []any, error) { return repo.decreaseQuery(7, 12).ToSql() },
			wantSQL:  "UPDATE products SET current_stock = current_stock - $1 WHERE id = $2 AND current_stock >= $3",
			wantArgs: []any{int64(12), int64(7), int64(12)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := tt.build()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
