package review

import "context"

// PurchaseVerifier answers whether a user has a delivered order containing
// a product. The order service implements it.
type PurchaseVerifier interface {
	HasDeliveredOrderContaining(ctx context.Context, userID, productID uint) (bool, error)
}

// Gate decides who may review a product. Purchase is checked before an
// existing review.
type Gate struct {
	purchases PurchaseVerifier
	reviews   Repository
}

func NewGate(purchases PurchaseVerifier, reviews Repository) *Gate {
	return &Gate{purchases: purchases, reviews: reviews}
}

func (g *Gate) CanReview(ctx context.Context, userID, productID uint) (Decision, error) {
	purchased, err := g.purchases.HasDeliveredOrderContaining(ctx, userID, productID)
	if err != nil {
		return Decision{}, err
	}
	if !purchased {
		return Decision{Reason: ReasonNotPurchased}, nil
	}

	reviewed, err := g.reviews.ExistsForUser(ctx, userID, productID)
	if err != nil {
		return Decision{}, err
	}
	if reviewed {
		return Decision{Reason: ReasonAlreadyReviewed}, nil
	}

	return Decision{Allowed: true}, nil
}
