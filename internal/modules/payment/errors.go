package payment

import "errors"

var (
	ErrNoAccount = errors.New("no connected account")
	ErrForbidden = errors.New("booking does not belong to caller")
)
