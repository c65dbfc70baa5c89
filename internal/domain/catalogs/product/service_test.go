package product

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/tx/txtest"
	"stockbook/internal/core/types"
	"stockbook/internal/domain"
)

type memRepo struct {
	rows   map[int64]Product
	nextID int64
	err    error
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[int64]Product{}}
}

func (r *memRepo) Create(ctx context.Context, p *Product) error {
	if r.err != nil {
		return r.err
	}
	r.nextID++
	p.Assign(r.nextID, time.Now())
	r.rows[p.ID] = *p
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, id int64) (*Product, error) {
	p, ok := r.rows[id]
	if !ok {
		return nil, apperror.NewNotFound("products", id)
	}
	return &p, nil
}

func (r *memRepo) Update(ctx context.Context, p *Product) error {
	old, ok := r.rows[p.ID]
	if !ok {
		return apperror.NewNotFound("products", p.ID)
	}
	updated := *p
	updated.CurrentStock = old.CurrentStock
	updated.CreatedAt = old.CreatedAt
	r.rows[p.ID] = updated
	return nil
}

func (r *memRepo) Delete(ctx context.Context, id int64) error {
	delete(r.rows, id)
	return nil
}

func (r *memRepo) List(ctx context.Context, f domain.ListFilter) ([]*Product, error) {
	var out []*Product
	q := strings.ToLower(f.Search)
	for _, p := range r.rows {
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Article), q) {
			continue
		}
		p := p
		out = append(out, &p)
	}
	return out, nil
}

func (r *memRepo) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := r.rows[id]
	return ok, nil
}

func (r *memRepo) ExistsByArticle(ctx context.Context, article string, excludeID int64) (bool, error) {
	for _, p := range r.rows {
		if p.Article == article && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func validProduct(article string) *Product {
	return &Product{
		Article:       article,
		Name:          "Widget " + article,
		PurchasePrice: types.MustMoney("1.50"),
		RetailPrice:   types.MustMoney("2.25"),
		MinStock:      3,
	}
}

func TestCreate_StartsAtZeroStock(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, &txtest.Manager{})

	p := validProduct("A-1")
	p.CurrentStock = 500

	require.NoError(t, svc.Create(context.Background(), p))
	assert.NotZero(t, p.ID)
	assert.Equal(t, int64(0), repo.rows[p.ID].CurrentStock)
}

func TestCreate_DuplicateArticle(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, &txtest.Manager{})
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, validProduct("A-1")))

	err := svc.Create(ctx, validProduct(" A-1 "))
	require.Error(t, err)
	assert.True(t, apperror.IsDuplicate(err))
	assert.Len(t, repo.rows, 1)
}

func TestUpdate(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, &txtest.Manager{})
	ctx := context.Background()

	first := validProduct("A-1")
	second := validProduct("B-2")
	require.NoError(t, svc.Create(ctx, first))
	require.NoError(t, svc.Create(ctx, second))

	t.Run("keeps own article", func(t *testing.T) {
		first.Name = "Renamed"
		require.NoError(t, svc.Update(ctx, first))
		assert.Equal(t, "Renamed", repo.rows[first.ID].Name)
	})

	t.Run("article taken by another product", func(t *testing.T) {
		second.Article = "A-1"
		err := svc.Update(ctx, second)
		assert.True(t, apperror.IsDuplicate(err))
	})

	t.Run("stock is not writable", func(t *testing.T) {
		stored := repo.rows[first.ID]
		stored.CurrentStock = 7
		repo.rows[first.ID] = stored

		first.CurrentStock = 1000
		require.NoError(t, svc.Update(ctx, first))
		assert.Equal(t, int64(7), repo.rows[first.ID].CurrentStock)
	})

	t.Run("unknown product", func(t *testing.T) {
		ghost := validProduct("Z-9")
		ghost.ID = 999
		err := svc.Update(ctx, ghost)
		require.Error(t, err)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("missing id", func(t *testing.T) {
		err := svc.Update(ctx, validProduct("C-3"))
		assert.True(t, apperror.IsValidation(err))
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(p *Product)
		field string
	}{
		{name: "valid", edit: func(p *Product) {}},
		{name: "blank article", edit: func(p *Product) { p.Article = "   " }, field: "article"},
		{name: "blank name", edit: func(p *Product) { p.Name = "" }, field: "name"},
		{name: "negative purchase price", edit: func(p *Product) { p.PurchasePrice = types.MustMoney("-0.01") }, field: "purchasePrice"},
		{name: "negative retail price", edit: func(p *Product) { p.RetailPrice = types.MustMoney("-1") }, field: "retailPrice"},
		{name: "sub-cent purchase price", edit: func(p *Product) { p.PurchasePrice = types.MustMoney("1.005") }, field: "purchasePrice"},
		{name: "sub-cent retail price", edit: func(p *Product) { p.RetailPrice = types.MustMoney("0.333") }, field: "retailPrice"},
		{name: "trailing zeros", edit: func(p *Product) { p.RetailPrice = types.MustMoney("2.500") }},
		{name: "negative min stock", edit: func(p *Product) { p.MinStock = -1 }, field: "minStock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProduct("A-1")
			tt.edit(p)
			err := p.Validate(context.Background())
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}
}

func TestDeleteAndGet(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, &txtest.Manager{})
	ctx := context.Background()

	p := validProduct("A-1")
	require.NoError(t, svc.Create(ctx, p))
	require.NoError(t, svc.Delete(ctx, p.ID))

	_, err := svc.GetByID(ctx, p.ID)
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "product not found", appErr.Message)

	assert.True(t, apperror.IsNotFound(svc.Delete(ctx, p.ID)))
}

func TestSearch(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, &txtest.Manager{})
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, &Product{Article: "BLT-10", Name: "Bolt"}))
	require.NoError(t, svc.Create(ctx, &Product{Article: "NUT-10", Name: "Nut"}))

	got, err := svc.Search(ctx, "blt")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bolt", got[0].Name)
}

func TestStorageErrorsAreWrapped(t *testing.T) {
	repo := newMemRepo()
	repo.err = errors.New("connection reset")
	svc := NewService(repo, &txtest.Manager{})

	err := svc.Create(context.Background(), validProduct("A-1"))
	require.Error(t, err)
	assert.True(t, apperror.IsStorage(err))
	assert.Equal(t, 500, apperror.GetHTTPStatus(err))
}
