package address

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Address rows are never edited in place: an update deactivates the old
// row and inserts a new one, so orders keep the address they shipped to.
type Address struct {
	ID     uuid.UUID `json:"id"`
	UserID uint      `json:"userId"`

	Label        string `json:"label"`
	ReceiverName string `json:"receiverName"`
	Phone        string `json:"phone"`

	Line1 string  `json:"line1"`
	Line2 *string `json:"line2,omitempty"`

	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`

	IsDefault bool      `json:"isDefault"`
	IsActive  bool      `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

type Input struct {
	Label        string  `json:"label"`
	ReceiverName string  `json:"receiverName"`
	Phone        string  `json:"phone"`
	Line1        string  `json:"line1"`
	Line2        *string `json:"line2"`
	City         string  `json:"city"`
	Province     string  `json:"province"`
	PostalCode   string  `json:"postalCode"`
	Country      string  `json:"country"`
	SetAsDefault bool    `json:"setAsDefault"`
}

// Validate trims every field in place and reports the first missing one.
func (in *Input) Validate() error {
	required := []struct {
		name  string
		value *string
	}{
		{"receiverName", &in.ReceiverName},
		{"phone", &in.Phone},
		{"line1", &in.Line1},
		{"city", &in.City},
		{"province", &in.Province},
		{"postalCode", &in.PostalCode},
		{"country", &in.Country},
	}
	for _, f := range required {
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidAddress, f.name)
		}
	}

	in.Label = strings.TrimSpace(in.Label)
	in.Country = strings.ToUpper(in.Country)
	if len(in.Country) != 2 {
		return fmt.Errorf("%w: country must be a 2-letter code", ErrInvalidAddress)
	}
	for _, r := range strings.TrimPrefix(in.Phone, "+") {
		if (r < '0' || r > '9') && r != ' ' && r != '-' {
			return fmt.Errorf("%w: phone must contain digits only", ErrInvalidAddress)
		}
	}

	if in.Line2 != nil {
		l2 := strings.TrimSpace(*in.Line2)
		if l2 == "" {
			in.Line2 = nil
		} else {
			in.Line2 = &l2
		}
	}
	return nil
}

func (in Input) toAddress(userID uint) *Address {
	return &Address{
		ID:           uuid.New(),
		UserID:       userID,
		Label:        in.Label,
		ReceiverName: in.ReceiverName,
		Phone:        in.Phone,
		Line1:        in.Line1,
		Line2:        in.Line2,
		City:         in.City,
		Province:     in.Province,
		PostalCode:   in.PostalCode,
		Country:      in.Country,
		IsDefault:    in.SetAsDefault,
		IsActive:     true,
	}
}
