package paths

import "errors"

// ErrUnsupportedPlatform is returned for any platform other than Linux, Darwin or Windows.
var ErrUnsupportedPlatform = errors.New("unsupported platform")
