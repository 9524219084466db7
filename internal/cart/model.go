package cart

import (
	"fmt"
	"time"

	"storefront-be/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps a single line.
const MaxLineQuantity = 99

type Line struct {
	ProductID uint            `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// AppliedDiscount is the last computed, rounded totals snapshot. It is
// derived from Lines and CouponCode and never authoritative.
type AppliedDiscount struct {
	CouponCode            string          `json:"couponCode,omitempty"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	DiscountAmount        decimal.Decimal `json:"discountAmount"`
	SubtotalAfterDiscount decimal.Decimal `json:"subtotalAfterDiscount"`
	TaxAmount             decimal.Decimal `json:"taxAmount"`
	Total                 decimal.Decimal `json:"total"`
	ComputedAt            time.Time       `json:"computedAt"`
}

// Session is a cart owned by a user or a guest browser session.
type Session struct {
	Owner      string           `json:"owner"`
	Lines      []Line           `json:"lines"`
	CouponCode string           `json:"couponCode,omitempty"`
	Applied    *AppliedDiscount `json:"applied,omitempty"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// View is a session as returned to callers. CouponDropped reports that a
// previously applied coupon stopped qualifying and was removed.
type View struct {
	Session
	CouponDropped bool `json:"couponDropped,omitempty"`
}

func NewSession(owner string) *Session {
	return &Session{Owner: owner, Lines: []Line{}}
}

func (s *Session) IsEmpty() bool {
	return len(s.Lines) == 0
}

func (s *Session) PricingLines() []pricing.Line {
	lines := make([]pricing.Line, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = pricing.Line{ProductID: l.ProductID, UnitPrice: l.UnitPrice, Quantity: l.Quantity}
	}
	return lines
}

func (s *Session) ProductIDs() []uint {
	ids := make([]uint, len(s.Lines))
	for i, l := range s.Lines {
		ids[i] = l.ProductID
	}
	return ids
}

func (s *Session) lineIndex(productID uint) int {
	for i, l := range s.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Session) clone() *Session {
	cp := *s
	cp.Lines = append([]Line(nil), s.Lines...)
	if s.Applied != nil {
		a := *s.Applied
		cp.Applied = &a
	}
	return &cp
}

func snapshotOf(res pricing.Result, code string, at time.Time) *AppliedDiscount {
	r := res.Rounded()
	return &AppliedDiscount{
		CouponCode:            code,
		Subtotal:              r.Subtotal,
		DiscountAmount:        r.Discount,
		SubtotalAfterDiscount: r.SubtotalAfterDiscount,
		TaxAmount:             r.Tax,
		Total:                 r.Total,
		ComputedAt:            at,
	}
}

func UserOwner(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

func GuestOwner(id uuid.UUID) string {
	return "guest:" + id.String()
}

type AddLineInput struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

func (in AddLineInput) Validate() error {
	if in.ProductID == 0 {
		return ErrInvalidProduct
	}
	if in.Quantity <= 0 || in.Quantity > MaxLineQuantity {
		return ErrInvalidQuantity
	}
	return nil
}

type UpdateQuantityInput struct {
	Quantity int `json:"quantity"`
}

type ApplyCouponInput struct {
	Code string `json:"code"`
}
