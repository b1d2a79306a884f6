package sca

import "errors"

var (
	// ErrConfig is returned by New and Config.Validate when a parameter is
	// out of range. The wrapping error names the offending field.
	ErrConfig = errors.New("sca: invalid configuration")

	// ErrForest is returned by Skeleton.Validate when a parent chain does not
	// end at a root or a node exceeds the child ceiling.
	ErrForest = errors.New("sca: forest invariant violated")
)
