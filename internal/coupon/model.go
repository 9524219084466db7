package coupon

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

const DateLayout = "2006-01-02"

func (t DiscountType) IsValid() bool {
	return t == DiscountFixed || t == DiscountPercentage
}

type Coupon struct {
	ID           uint            `json:"id"`
	Code         string          `json:"code"`
	DiscountType DiscountType    `json:"discountType"`
	Value        decimal.Decimal `json:"value"`
	MinCartValue decimal.Decimal `json:"minCartValue"`
	ExpiryDate   time.Time       `json:"expiryDate"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// IsExpired reports whether now falls on a calendar day after ExpiryDate.
// The expiry day itself is still valid. "Today" is the UTC calendar day.
func (c *Coupon) IsExpired(now time.Time) bool {
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	ey, em, ed := c.ExpiryDate.Date()
	expiry := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)

	return today.After(expiry)
}

// Input is the admin payload for creating or editing a coupon.
type Input struct {
	Code         string          `json:"code"`
	DiscountType DiscountType    `json:"discountType"`
	Value        decimal.Decimal `json:"value"`
	MinCartValue decimal.Decimal `json:"minCartValue"`
	ExpiryDate   string          `json:"expiryDate"`
}

// ToCoupon validates the input and returns the normalized coupon.
func (in Input) ToCoupon() (*Coupon, error) {
	code := NormalizeCode(in.Code)
	if code == "" || len(code) > 64 {
		return nil, ErrInvalidCode
	}
	if !in.DiscountType.IsValid() {
		return nil, ErrInvalidDiscountType
	}
	if !in.Value.IsPositive() {
		return nil, ErrInvalidValue
	}
	if in.DiscountType == DiscountPercentage && in.Value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, ErrInvalidValue
	}
	if in.MinCartValue.IsNegative() {
		return nil, ErrInvalidMinCartValue
	}

	expiry, err := time.Parse(DateLayout, strings.TrimSpace(in.ExpiryDate))
	if err != nil {
		return nil, ErrInvalidExpiryDate
	}

	return &Coupon{
		Code:         code,
		DiscountType: in.DiscountType,
		Value:        in.Value,
		MinCartValue: in.MinCartValue,
		ExpiryDate:   expiry,
	}, nil
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
