package scoring

import "errors"

// Sentinel kinds reported by Validate. The engine itself never fails.
var (
	ErrNegativeCounter = errors.New("negative activity counter")
	ErrNonFiniteAmount = errors.New("non-finite closed business amount")
)
