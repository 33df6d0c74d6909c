package spline

import (
	"bytes"
	"fmt"
	"math"
)

// Extend a slice of modes to make room for index i.
// Will do nothing if the slice is already large enough.
func extendM(arr []Mode, i int, deflt Mode) []Mode {
	l := len(arr)
	if i >= l {
		arr = append(arr, make([]Mode, i-l+1)...)
		for ; i >= l; i-- {
			arr[i] = deflt
		}
	}
	return arr
}

// Get a mode from a slice if present, default value deflt otherwise.
func getM(arr []Mode, i int, deflt Mode) Mode {
	if i >= len(arr) {
		return deflt
	}
	return arr[i]
}

// AsString returns a skeleton in MetaPost-like notation: knots joined by ".."
// for curves and by "--" for lines, each knot prefixed by its time tag.
//
//	0:(1,1) .. 1:(2,2) -- 2:(3,1)
func AsString(sk *Skeleton) string {
	var buffer bytes.Buffer
	if sk.Mode(0) == Linear && sk.N() > 0 {
		buffer.WriteString("{linear} ")
	}
	for i := 0; i < sk.N(); i++ {
		if i > 0 {
			if sk.Mode(i) == Linear {
				buffer.WriteString(" -- ")
			} else {
				buffer.WriteString(" .. ")
			}
		}
		pt := sk.Z(i)
		buffer.WriteString(fmt.Sprintf("%g:(%g,%g)", round(sk.T(i)), round(pt.X()), round(pt.Y())))
	}
	return buffer.String()
}

func round(x float64) float64 {
	return math.Round(x*10000.0) / 10000.0
}
