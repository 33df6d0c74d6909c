// Package fourier computes truncated complex Fourier series of spline paths.
//
// A path is given by two splines x(t), y(t) over a common domain
// [t_i, t_f] and is read as one complex signal f(t) = x(t) + jy(t). With
// period T = t_f - t_i and ω₀ = 2π/T, the coefficient of harmonic k is
//
//	c.k = 1/T ∫ f(t)·e^{-jkω₀t} dt
//
// and is computed in closed form, segment by segment. The series
// Σ c.k·e^{jkω₀t} redraws the path as a chain of rotating vectors.
//
// # BSD License
//
// Copyright (c) 2024, François Straet.
//
// All rights reserved.
//
// Please refer to the license file for more information.
package fourier
