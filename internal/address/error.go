package address

import "errors"

var (
	ErrInvalidAddress  = errors.New("invalid address")
	ErrAddressNotFound = errors.New("address not found")
	ErrNotOwner        = errors.New("address belongs to another user")
)
