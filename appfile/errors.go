package appfile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("app file not found")
	ErrAlreadyExists = errors.New("app file already exists")
	ErrMalformedData = errors.New("malformed app file")
	ErrNotBound      = errors.New("app descriptor is not bound to a file")

	ErrEnvironmentNotInitialized = fmt.Errorf("%w: development environment is not initialized", ErrConfiguration)
	ErrPackageMissing            = fmt.Errorf("%w: settings package is missing", ErrConfiguration)
)

// NotFoundError is returned when no tier holds the requested app file. It
// lists every path that was probed, in probe order.
type NotFoundError struct {
	Name   string
	Probed []string
}

func (e *NotFoundError) Error() string {
	if len(e.Probed) == 0 {
		return fmt.Sprintf("app file %q not found, no location was probed", e.Name)
	}
	return fmt.Sprintf("none of the following app files exist: %s", strings.Join(e.Probed, ", "))
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
