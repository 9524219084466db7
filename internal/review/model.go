package review

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 2000
)

type Review struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"userId"`
	ProductID    uint      `json:"productId"`
	Rating       int       `json:"rating"`
	Comment      *string   `json:"comment,omitempty"`
	IsVerified   bool      `json:"isVerified"`
	HelpfulCount int       `json:"helpfulCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Reason string

const (
	ReasonNotPurchased    Reason = "not_purchased"
	ReasonAlreadyReviewed Reason = "already_reviewed"
)

// Err returns the error a rejected submission reports for r.
func (r Reason) Err() error {
	switch r {
	case ReasonNotPurchased:
		return ErrNotPurchased
	case ReasonAlreadyReviewed:
		return ErrAlreadyReviewed
	}
	return nil
}

type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  Reason `json:"reason,omitempty"`
}

type Summary struct {
	ProductID     uint    `json:"productId"`
	Count         int     `json:"count"`
	AverageRating float64 `json:"averageRating"`
}

type Input struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
}

var commentPolicy = bluemonday.StrictPolicy()

// Normalize validates the input and returns it with the comment stripped of
// markup. A comment that is empty after stripping becomes nil.
func (in Input) Normalize() (Input, error) {
	if in.Rating < MinRating || in.Rating > MaxRating {
		return Input{}, ErrInvalidRating
	}

	out := Input{Rating: in.Rating}
	if in.Comment != nil {
		c := strings.TrimSpace(commentPolicy.Sanitize(*in.Comment))
		if utf8.RuneCountInString(c) > MaxCommentLength {
			return Input{}, ErrCommentTooLong
		}
		if c != "" {
			out.Comment = &c
		}
	}
	return out, nil
}
