package review

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrBookingNotFound = errors.New("booking not found")
	ErrNotRenter       = errors.New("only the renter may review a booking")
	ErrNotReviewable   = errors.New("booking is not reviewable yet")
	ErrAlreadyExists   = errors.New("booking already reviewed")
)
