package algorithm

import "errors"

// The environment ships without an algorithm; downstream images register
// theirs from an init function before the transformer binary runs.
var registered Calculator

// ErrNoAlgorithm is returned when no algorithm implementation was registered
var ErrNoAlgorithm = errors.New("no algorithm registered: the algorithm image must call algorithm.Register")

// Register installs the algorithm implementation for this image.
// Last registration wins.
func Register(c Calculator) {
	registered = c
}

// Registered returns the installed algorithm implementation
func Registered() (Calculator, error) {
	if registered == nil {
		return nil, ErrNoAlgorithm
	}
	return registered, nil
}
