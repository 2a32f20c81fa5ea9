package paymentlog

import "errors"

var (
	ErrEntryNotFound     = errors.New("payment log entry not found")
	ErrInvalidReturnCode = errors.New("invalid return code")
	ErrInvalidSort       = errors.New("invalid sort column")
)
