package catalog

import "errors"

var (
	ErrValidation     = errors.New("validation error")
	ErrNotFound       = errors.New("listing not found")
	ErrForbidden      = errors.New("listing does not belong to caller")
	ErrPriceOutOfBand = errors.New("daily price outside the allowed band")
)
