package render

import (
	"fmt"
	"image/gif"
	"io"
	"math/cmplx"

	fg "github.com/Rayerdyne/FG"
	"github.com/Rayerdyne/FG/fourier"
	"github.com/Rayerdyne/FG/spline"
)

// Epicycles writes an animated GIF of one period of the epicycle drawing,
// starting at time t0. Every frame shows the chain of rotating vectors
// (ordered 0, +1, -1, +2, -2, …) together with the trace drawn so far by its
// tip. Unless opts.KeepDC is set, the constant term is dropped and the chain
// starts in the center of the image.
func Epicycles(w io.Writer, cs *fourier.CoeffSet, t0, period float64, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if err := checkPeriod(t0, period); err != nil {
		return err
	}
	c := newCanvas(opts)
	anim := &gif.GIF{}
	var last fg.Pair
	for i := 0; i < opts.Steps; i++ {
		t := t0 + period*float64(i)/float64(opts.Steps)
		terms := cs.Epicycles(t, period)
		if !opts.KeepDC {
			terms = terms[1:]
		}
		tips := fourier.Tips(fg.Origin, terms)
		tip := tips[len(tips)-1]
		if i == 0 {
			c.dot(c.layer, tip, foreground)
		} else {
			c.line(c.layer, last, tip, foreground)
		}
		last = tip
		img := c.frame()
		for j, term := range terms {
			c.ring(img, tips[j], cmplx.Abs(term.Vec), chain)
		}
		c.polyline(img, tips, chain)
		anim.Image = append(anim.Image, img)
		anim.Delay = append(anim.Delay, opts.Delay)
	}
	tracer().Infof("epicycles: %d frames, %d harmonics", len(anim.Image), cs.N())
	return gif.EncodeAll(w, anim)
}

// SplinePath writes an animated GIF which draws the planar path (sx(t), sy(t))
// progressively over its domain, without any Fourier approximation.
func SplinePath(w io.Writer, sx, sy *spline.Spline, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	ctrls, err := spline.BezierControls(sx, sy)
	if err != nil {
		return err
	}
	perSegment := opts.Steps/(ctrls.N()-1) + 1
	pts := ctrls.Flatten(perSegment)
	c := newCanvas(opts)
	anim := &gif.GIF{}
	c.dot(c.layer, pts[0], foreground)
	drawn := 0
	for i := 1; i <= opts.Steps; i++ {
		upto := i * (len(pts) - 1) / opts.Steps
		c.polyline(c.layer, pts[drawn:upto+1], foreground)
		drawn = upto
		anim.Image = append(anim.Image, c.frame())
		anim.Delay = append(anim.Delay, opts.Delay)
	}
	tracer().Infof("spline path: %d frames, %d segments", len(anim.Image), ctrls.N()-1)
	return gif.EncodeAll(w, anim)
}

func checkPeriod(t0, period float64) error {
	if !fg.IsFinite(t0) || !fg.IsFinite(period) || period <= 0 {
		return fmt.Errorf("%w: period %g starting at %g", fg.ErrDomain, period, t0)
	}
	return nil
}
