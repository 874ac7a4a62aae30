package env

import "errors"

var ErrUnknownClass = errors.New("unknown global env class")
