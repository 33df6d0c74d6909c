/*
Package codec reads and writes the text formats of fg: lists of time-tagged
points and raw Fourier coefficients.

A point list holds one point per line,

	<t>: (<x>, <y>)

optionally followed by the word "linear", which forces the segment ending at
this point to be a straight line (on the first line it selects the linear
boundary condition). Blank lines and lines starting with '#' are skipped.

A coefficient list holds one harmonic per line, starting at harmonic 0,

	(<re>,<im>) & (<re>,<im>)

the first pair being the coefficient of harmonic k, the second the one of -k.

Numbers are decimal floating point literals, including exponent form, a
leading or trailing '.', "inf" and "NaN".

# BSD License

Copyright (c) 2024, François Straet.

All rights reserved.

Please refer to the license file for more information.
*/
package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	fg "github.com/Rayerdyne/FG"
	"github.com/Rayerdyne/FG/spline"
	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/cast"
)

// tracer writes to trace with key 'codec'
func tracer() tracing.Trace {
	return tracing.Select("codec")
}

var (
	// ErrSyntax indicates a malformed line. The error message carries the line number.
	ErrSyntax = errors.New("syntax error")
	// ErrTooFewPoints indicates a point list with less than 2 points.
	ErrTooFewPoints = errors.New("need at least 2 points")
)

// PointSet is a parsed point list.
type PointSet struct {
	T     []float64     // time tags
	P     []fg.Pair     // points
	Modes []spline.Mode // mode per point
}

// Len returns the number of points.
func (ps *PointSet) Len() int {
	return len(ps.T)
}

// Skeleton converts the point set into a skeleton, ready to be fitted.
func (ps *PointSet) Skeleton() *spline.Skeleton {
	sk := spline.Nullpath()
	for i := range ps.T {
		if i > 0 && ps.Modes[i] == spline.Linear {
			sk.Line()
		}
		sk.Knot(ps.T[i], ps.P[i])
	}
	if ps.Len() > 0 && ps.Modes[0] == spline.Linear {
		sk.LinearStart()
	}
	return sk.End()
}

// ReadPoints parses a point list.
func ReadPoints(r io.Reader) (*PointSet, error) {
	ps := &PointSet{}
	err := scanLines(r, func(lineno int, line string) error {
		t, p, mode, err := parsePoint(line)
		if err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrSyntax, lineno, err)
		}
		ps.T = append(ps.T, t)
		ps.P = append(ps.P, p)
		ps.Modes = append(ps.Modes, mode)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if ps.Len() < 2 {
		return nil, fmt.Errorf("%w: have %d", ErrTooFewPoints, ps.Len())
	}
	tracer().Infof("read %d points", ps.Len())
	return ps, nil
}

// scanLines calls fn for every non-blank, non-comment line.
func scanLines(r io.Reader, fn func(int, string) error) error {
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := fn(lineno, line); err != nil {
			tracer().Errorf("%v", err)
			return err
		}
	}
	return scanner.Err()
}

// parsePoint parses "t: (x, y) [linear]".
func parsePoint(line string) (float64, fg.Pair, spline.Mode, error) {
	tpart, rest, found := strings.Cut(line, ":")
	if !found {
		return 0, fg.Origin, spline.Cubic, fmt.Errorf("missing ':' in %q", line)
	}
	t, err := parseFloat(tpart)
	if err != nil {
		return 0, fg.Origin, spline.Cubic, err
	}
	rest = strings.TrimSpace(rest)
	mode := spline.Cubic
	if i := strings.LastIndex(rest, ")"); i >= 0 {
		switch suffix := strings.TrimSpace(rest[i+1:]); suffix {
		case "":
		case "linear":
			mode = spline.Linear
		case "cubic":
		default:
			return 0, fg.Origin, spline.Cubic, fmt.Errorf("unknown segment mode %q", suffix)
		}
		rest = rest[:i+1]
	}
	x, y, err := parsePair(rest)
	if err != nil {
		return 0, fg.Origin, spline.Cubic, err
	}
	return t, fg.P(x, y), mode, nil
}

// parsePair parses "(a, b)".
func parsePair(s string) (float64, float64, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
		return 0, 0, fmt.Errorf("expected (a, b), have %q", s)
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected 2 components, have %d in %q", len(parts), s)
	}
	a, err := parseFloat(parts[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := parseFloat(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("missing number")
	}
	return cast.ToFloat64E(s)
}
