package review

import "errors"

const PgUniqueViolation = "23505"

var (
	// -- Validation & Input --
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrCommentTooLong = errors.New("comment is too long")

	// -- Eligibility --
	ErrNotPurchased    = errors.New("product must be delivered to you before it can be reviewed")
	ErrAlreadyReviewed = errors.New("you have already reviewed this product")
	ErrDuplicateReview = errors.New("duplicate review")
	ErrNotOwner        = errors.New("review belongs to another user")
	ErrReviewNotFound  = errors.New("review not found")
)
