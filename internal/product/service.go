package product

import "context"

// Catalog is the lookup the cart and checkout consume.
type Catalog interface {
	// GetProduct returns an active product. Inactive products are
	// reported as ErrProductNotFound.
	GetProduct(ctx context.Context, id uint) (*Product, error)
	GetProducts(ctx context.Context, ids []uint) (map[uint]*Product, error)
}

type catalog struct {
	repo Repository
}

func NewCatalog(repo Repository) Catalog {
	return &catalog{repo: repo}
}

func (c *catalog) GetProduct(ctx context.Context, id uint) (*Product, error) {
	p, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// GetProducts fails with ErrProductNotFound if any id is missing or inactive.
func (c *catalog) GetProducts(ctx context.Context, ids []uint) (map[uint]*Product, error) {
	found, err := c.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		p, ok := found[id]
		if !ok || !p.IsActive() {
			return nil, ErrProductNotFound
		}
	}
	return found, nil
}
