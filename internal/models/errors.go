package models

import "errors"

// Common errors used throughout the application
var (
	ErrEventNotFound         = errors.New("event not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrTicketNotFound        = errors.New("ticket not found")
	ErrCouponNotFound        = errors.New("coupon not found")
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrUnauthorized          = errors.New("unauthorized access")
	ErrInvalidInput          = errors.New("invalid input")
	ErrDuplicateEntry        = errors.New("duplicate entry")
	ErrInsufficientInventory = errors.New("not enough tickets available")
)
