package utils

import "errors"

// Common application errors used across services.
var (
	ErrProductNotFound = errors.New("PRODUCT_NOT_FOUND")
	ErrDuplicateID     = errors.New("DUPLICATE_PRODUCT_ID")
)
