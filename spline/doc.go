// Package spline fits piecewise cubic interpolants through time-tagged samples.
/*

A spline in this package is a function of time t, defined piecewise by cubic
polynomials

	a·τ³ + b·τ² + c·τ + d,   τ = t - t_i,

between consecutive breakpoints t₀ < t₁ < … < t_{n-1}. Coefficients are kept in
the local time τ of their segment, which keeps the fit exact for time tags far
from 0; Segment.Absolute expands them into powers of t. Two-dimensional paths
are fitted as one spline per axis. All axes share breakpoints and the mode
vector, and therefore share the linear system which determines the
coefficients: the system is assembled and factorized once and then solved
for every axis.

# Modes

Every breakpoint carries a Mode. For j ≥ 1, modes[j] tells whether the segment
ending at t_j is a full cubic or is forced to be affine (a = b = 0). modes[0]
selects the boundary condition at t₀: Cubic clamps the first derivative to 0,
Linear requests a vanishing cubic coefficient instead. At t_{n-1} the first
derivative is clamped whenever the last segment is cubic.

Continuity of the first and second derivative is enforced at every joint
between two cubic segments. A cubic segment meeting a linear one continues
its slope, but not its curvature.

# Usage

Clients usually build a "skeleton" first, with a builder pattern close to
MetaPost path expressions (package qualifiers omitted):

	Nullpath().Knot(0, P(0,0)).Curve().Knot(1, P(2,3)).Line().Knot(2, P(5,3)).End()

and then fit it:

	sx, sy, err := skeleton.Fit()

Lower level access is available with NewSystem, System.Factorize and
Factorized.Solve. A system without a unique solution is reported as
fg.ErrSingularSystem, together with the unknowns which could not be
determined.

For drawing, BezierControls converts a pair of coordinate splines into cubic
Bézier form.

# BSD License

Copyright (c) 2024, François Straet.

All rights reserved.

Please refer to the license file for more information.
*/
package spline
