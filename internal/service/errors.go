package service

import (
	"errors"
	"fmt"
)

// Error taxonomy of the finance core. Callers branch with errors.Is;
// every failure path wraps one of these sentinels with a reason.
var (
	ErrValidation            = errors.New("validation failed")
	ErrNotFound              = errors.New("not found")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrConfiguration         = errors.New("configuration error")
	ErrDuplicateDistribution = errors.New("already distributed")
	ErrConcurrencyConflict   = errors.New("concurrent write conflict")
	ErrNoOp                  = errors.New("nothing to do")
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrNotFound}, args...)...)
}

func configurationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrConfiguration}, args...)...)
}
