package booking

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("listing not found")
	ErrLandlordNotPayable = errors.New("landlord has not completed payment setup")
	ErrNotAvailable       = errors.New("listing is not available for the requested dates")
	ErrProcessor          = errors.New("payment processor error")
)
