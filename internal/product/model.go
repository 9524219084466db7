package product

import "github.com/shopspring/decimal"

const StatusActive = "active"

// Product is the read-only catalog view the storefront core needs.
type Product struct {
	ID     uint            `json:"id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Stock  int             `json:"stock"`
	Status string          `json:"status"`
}

func (p *Product) IsActive() bool {
	return p.Status == StatusActive
}
