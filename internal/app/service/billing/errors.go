package billing

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is the root of every ConfigurationError.
	ErrConfiguration = errors.New("invalid dues configuration")
	// ErrMemberNotFound is returned when the record store has no such member.
	ErrMemberNotFound = errors.New("member not found")
	// ErrLedgerInconsistency marks a ledger entry whose dates cannot be used.
	ErrLedgerInconsistency = errors.New("inconsistent ledger entry")
)

// ConfigurationError reports a setting that would corrupt due-date math.
type ConfigurationError struct {
	Setting string
	Value   string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Setting, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }
