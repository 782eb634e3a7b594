package service

import (
	"context"
	"testing"

	"github.com/emrgen/linkset/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCategoryService_AssignCategories(t *testing.T) {
	f := newFixture(t)
	svc := NewProductCategoryService(f.links)
	ctx := context.TODO()

	product := f.product(t)
	categories := f.categories(t, 3)
	f.link(t, model.ProductCategories, product.ID, categories[0])

	res, err := svc.AssignCategories(ctx, product.ID, categories, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Assigned)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, []uint{categories[1], categories[2]}, res.NewlyAssigned)
	assert.Equal(t, []uint{categories[0]}, res.AlreadyAssigned)

	// repeated call reports counts instead of doing nothing silently
	res, err = svc.AssignCategories(ctx, product.ID, categories, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Assigned)
	assert.Equal(t, 3, res.Skipped)
	assert.Equal(t, 3, res.Total)
	assert.Empty(t, res.NewlyAssigned)

	// a smaller set never unassigns
	res, err = svc.AssignCategories(ctx, product.ID, categories[:1], nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
}

func TestProductCategoryService_LinkAndList(t *testing.T) {
	f := newFixture(t)
	svc := NewProductCategoryService(f.links)
	ctx := context.TODO()

	older := f.product(t)
	newer := f.product(t)
	categories := f.categories(t, 2)

	_, err := svc.LinkCategory(ctx, older.ID, categories[0], nil)
	require.NoError(t, err)
	_, err = svc.LinkCategory(ctx, newer.ID, categories[0], nil)
	require.NoError(t, err)
	_, err = svc.LinkCategory(ctx, newer.ID, categories[1], nil)
	require.NoError(t, err)

	_, err = svc.LinkCategory(ctx, newer.ID, categories[1], nil)
	assert.ErrorIs(t, err, ErrConflict)

	list, err := svc.ListCategories(ctx, newer.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, categories[0], list[0].ID)

	products, err := svc.ListProducts(ctx, categories[0])
	require.NoError(t, err)
	require.Len(t, products, 2)

	require.NoError(t, svc.UnlinkCategory(ctx, newer.ID, categories[0]))
	assert.ErrorIs(t, svc.UnlinkCategory(ctx, newer.ID, categories[0]), ErrNotFound)

	products, err = svc.ListProducts(ctx, categories[0])
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, older.ID, products[0].ID)

	_, err = svc.ListProducts(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
