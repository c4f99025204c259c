package service

import "errors"

// Sentinel errors forming the error taxonomy. Handlers map these onto HTTP
// statuses: validation -> 400, conflicts -> 409, not found -> 404,
// credentials -> 401; anything else is logged and returned as a generic 500.
var (
	ErrValidation            = errors.New("validation failed")
	ErrInvalidAmount         = errors.New("amount must be greater than zero")
	ErrInvalidPaymentMethod  = errors.New("payment method must be PIX, CASH or CARD")
	ErrInsufficientStock     = errors.New("insufficient stock quantity")
	ErrInsufficientSaleStock = errors.New("insufficient quantity available for sale")
	ErrProductHasSales       = errors.New("cannot delete a product with recorded sales")

	ErrProductNotFound = errors.New("product not found")

	ErrProductNameTaken = errors.New("a product with this name already exists")
	ErrUsernameTaken    = errors.New("username already taken")

	ErrInvalidCredentials = errors.New("invalid username or password")
)
