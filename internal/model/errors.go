package model

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrInvalidRadius         = errors.New("invalid radius")
	ErrMerchantNotFound      = errors.New("merchant not found")
	ErrCardNotFound          = errors.New("card not found")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCardAlreadyExists     = errors.New("card already exists")
	ErrCategoryAlreadyExists = errors.New("category already exists")

	// ErrStoreUnavailable wraps every persistence failure.
	ErrStoreUnavailable = errors.New("store unavailable")
)
