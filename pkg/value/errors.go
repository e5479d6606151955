package value

import (
	"errors"
	"fmt"
)

// ErrTypeMismatch is matched by every *TypeMismatchError.
var ErrTypeMismatch = errors.New("value: type mismatch")

// TypeMismatchError reports a checked conversion or edit that asked for a
// variant the value does not hold.
type TypeMismatchError struct {
	Expected DataType
	Actual   DataType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("value: invalid cast from %s to %s", e.Actual.Name(), e.Expected.Name())
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}
