package service

import (
	"context"

	"github.com/emrgen/linkset/internal/model"
	"github.com/emrgen/linkset/internal/reconcile"
)

// NewProductCategoryService creates a new ProductCategoryService.
func NewProductCategoryService(links *LinkService) *ProductCategoryService {
	return &ProductCategoryService{links: links}
}

// ProductCategoryService assigns categories to products. Bulk assignment is
// additive and never removes an existing category.
type ProductCategoryService struct {
	links *LinkService
}

type AssignCategoriesResult struct {
	Assigned        int
	Skipped         int
	Total           int
	NewlyAssigned   []uint
	AlreadyAssigned []uint
}

// AssignCategories links every category in categoryIDs to the product.
// Repeating the call is a visible no-op: Assigned is 0 and Skipped equals the
// number of distinct categories.
func (p *ProductCategoryService) AssignCategories(ctx context.Context, productID uint, categoryIDs []uint, actor *uint) (*AssignCategoriesResult, error) {
	res, err := p.links.Reconcile(ctx, model.ProductCategories, productID, categoryIDs, reconcile.Additive, actor)
	if err != nil {
		return nil, err
	}

	return &AssignCategoriesResult{
		Assigned:        res.Added,
		Skipped:         res.Skipped,
		Total:           res.Total,
		NewlyAssigned:   res.NewlyAdded,
		AlreadyAssigned: res.AlreadyLinked,
	}, nil
}

func (p *ProductCategoryService) LinkCategory(ctx context.Context, productID, categoryID uint, actor *uint) (*model.Link, error) {
	return p.links.Attach(ctx, model.ProductCategories, productID, categoryID, actor)
}

func (p *ProductCategoryService) UnlinkCategory(ctx context.Context, productID, categoryID uint) error {
	return p.links.Detach(ctx, model.ProductCategories, productID, categoryID)
}

// ListCategories returns the categories of a product ordered by id.
func (p *ProductCategoryService) ListCategories(ctx context.Context, productID uint) ([]model.Category, error) {
	categories := make([]model.Category, 0)
	if err := p.links.ListTargets(ctx, model.ProductCategories, productID, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ListProducts returns the products in a category, newest first.
func (p *ProductCategoryService) ListProducts(ctx context.Context, categoryID uint) ([]model.Product, error) {
	products := make([]model.Product, 0)
	if err := p.links.ListSources(ctx, model.ProductCategories, categoryID, &products); err != nil {
		return nil, err
	}
	return products, nil
}
