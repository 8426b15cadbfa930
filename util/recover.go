package util

import (
	"errors"
	"fmt"
)

// InterfaceToError converts the value returned by recover() into an error.
func InterfaceToError(errorInterface interface{}) error {
	// Attempt to coerce into error
	err, ok := errorInterface.(error)
	if ok {
		return err
	}

	// Otherwise attempt to coerce into string
	stringifiedErr, ok := errorInterface.(string)
	if ok {
		return errors.New(stringifiedErr)
	}

	// Otherwise, just ditch with a generic error.
	return fmt.Errorf("recovered from a panic that was neither a string nor an error: %v", errorInterface)
}

// Guard runs fn and turns a panic into an error, so that goroutines resolving futures always resolve them.
func Guard(fn func() error) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("recovered from panic: %w", InterfaceToError(recovered))
		}
	}()

	return fn()
}
