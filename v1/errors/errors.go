package errors

import "errors"

var (
	ErrReentrancyConflict = errors.New("reentrancy conflict")
)
