package sample

import "errors"

// ErrConfig is returned by constructors for out-of-range parameters.
var ErrConfig = errors.New("sample: invalid configuration")
