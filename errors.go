package fg

import "errors"

// Error taxonomy shared by all packages of this module. Packages wrap these
// with context, clients check with errors.Is.
var (
	// ErrDimensionMismatch indicates disagreeing lengths of breakpoints, samples or
	// mode vectors, or splines which disagree on domain or segment count.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrSingularSystem indicates a spline system without a unique solution.
	ErrSingularSystem = errors.New("singular linear system")
	// ErrDomain indicates an evaluation outside of a spline's domain. Plain
	// evaluation returns 0 instead; only strict accessors report it.
	ErrDomain = errors.New("argument outside of domain")
	// ErrIndex indicates an out-of-range segment or harmonic index.
	ErrIndex = errors.New("index out of range")
)
