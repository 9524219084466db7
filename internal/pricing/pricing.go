// Package pricing computes cart totals: subtotal, coupon discount, tax and
// grand total. It holds no state; callers decide what to do with a Result.
package pricing

import (
	"errors"
	"fmt"
	"time"

	"storefront-be/internal/coupon"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the scale used when totals are displayed or stored.
const MoneyPlaces = 2

var (
	ErrInvalidLine    = errors.New("cart line must have positive price and quantity")
	ErrInvalidTaxRate = errors.New("tax rate must not be negative")
)

var hundred = decimal.NewFromInt(100)

type Line struct {
	ProductID uint
	UnitPrice decimal.Decimal
	Quantity  int
}

// Result holds unrounded totals. Use Rounded before presenting or
// persisting them.
type Result struct {
	Subtotal              decimal.Decimal
	Discount              decimal.Decimal
	SubtotalAfterDiscount decimal.Decimal
	Tax                   decimal.Decimal
	Total                 decimal.Decimal
}

func (r Result) Rounded() Result {
	return Result{
		Subtotal:              r.Subtotal.Round(MoneyPlaces),
		Discount:              r.Discount.Round(MoneyPlaces),
		SubtotalAfterDiscount: r.SubtotalAfterDiscount.Round(MoneyPlaces),
		Tax:                   r.Tax.Round(MoneyPlaces),
		Total:                 r.Total.Round(MoneyPlaces),
	}
}

type Engine struct {
	now func() time.Time
}

// NewEngine returns an engine using now as its clock. A nil clock means
// the current time in UTC.
func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Engine{now: now}
}

// Compute prices lines with an optional coupon. A coupon that is expired or
// whose minimum is not met fails with coupon.ErrInvalidCoupon rather than
// being skipped. The discount never exceeds the subtotal.
func (e *Engine) Compute(lines []Line, c *coupon.Coupon, taxRatePercent decimal.Decimal) (Result, error) {
	if taxRatePercent.IsNegative() {
		return Result{}, ErrInvalidTaxRate
	}

	subtotal, err := Subtotal(lines)
	if err != nil {
		return Result{}, err
	}

	discount := decimal.Zero
	if c != nil {
		if err := e.checkApplicable(c, subtotal); err != nil {
			return Result{}, err
		}
		discount = discountFor(c, subtotal)
	}

	after := subtotal.Sub(discount)
	tax := after.Mul(taxRatePercent).Div(hundred)

	return Result{
		Subtotal:              subtotal,
		Discount:              discount,
		SubtotalAfterDiscount: after,
		Tax:                   tax,
		Total:                 after.Add(tax),
	}, nil
}

func Subtotal(lines []Line) (decimal.Decimal, error) {
	subtotal := decimal.Zero
	for _, l := range lines {
		if l.Quantity <= 0 || !l.UnitPrice.IsPositive() {
			return decimal.Zero, fmt.Errorf("%w: product %d", ErrInvalidLine, l.ProductID)
		}
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return subtotal, nil
}

func (e *Engine) checkApplicable(c *coupon.Coupon, subtotal decimal.Decimal) error {
	if c.IsExpired(e.now()) {
		return fmt.Errorf("%w: %s expired on %s", coupon.ErrInvalidCoupon, c.Code, c.ExpiryDate.Format(coupon.DateLayout))
	}
	if subtotal.LessThan(c.MinCartValue) {
		return fmt.Errorf("%w: %s requires a cart of at least %s", coupon.ErrInvalidCoupon, c.Code, c.MinCartValue.StringFixed(MoneyPlaces))
	}
	return nil
}

func discountFor(c *coupon.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	var d decimal.Decimal
	switch c.DiscountType {
	case coupon.DiscountFixed:
		d = c.Value
	case coupon.DiscountPercentage:
		d = subtotal.Mul(c.Value).Div(hundred)
	default:
		return decimal.Zero
	}

	if d.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(d, subtotal)
}
