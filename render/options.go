/*
Package render draws Fourier drawings: animated GIFs of the rotating
epicycle chain with its trace, animated GIFs of plain spline paths, and
XY-oscilloscope stereo WAV files of a reconstructed path.

World coordinates are mapped onto the raster with their origin at the
center of the image, x to the right and y upwards, scaled by Options.Scale.
Strokes are filled as polygons, clipped to the image.

Options may be read from YAML:

	width: 300
	height: 200
	steps: 200
	foreground: "0xFFFFFF"
	background: "#000000"
	audio:
	  rate: 44100
	  seconds: 2

# BSD License

Copyright (c) 2024, François Straet.

All rights reserved.

Please refer to the license file for more information.
*/
package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// tracer writes to trace with key 'render'
func tracer() tracing.Trace {
	return tracing.Select("render")
}

// ErrOptions indicates invalid render options.
var ErrOptions = errors.New("invalid render options")

// Options configures rendering. Colors are hexadecimal RGB values, written
// either "0xRRGGBB" or "#RRGGBB".
type Options struct {
	Width      int          `yaml:"width"`
	Height     int          `yaml:"height"`
	Steps      int          `yaml:"steps"`      // frames per period
	Foreground string       `yaml:"foreground"` // trace color
	Background string       `yaml:"background"`
	Chain      string       `yaml:"chain"`  // color of the epicycle arms
	Scale      float64      `yaml:"scale"`  // pixels per world unit
	Delay      int          `yaml:"delay"`  // between frames, in 1/100 s
	Stroke     float64      `yaml:"stroke"` // line width in pixels
	KeepDC     bool         `yaml:"keep_dc"`
	Audio      AudioOptions `yaml:"audio"`
}

// AudioOptions configures XY WAV export.
type AudioOptions struct {
	Rate    int     `yaml:"rate"`    // samples per second
	Seconds float64 `yaml:"seconds"` // length of the file
	Repeat  float64 `yaml:"repeat"`  // drawings per second
}

// DefaultOptions returns 300x200 pixels, 200 steps, black on white.
func DefaultOptions() Options {
	return Options{
		Width:      300,
		Height:     200,
		Steps:      200,
		Foreground: "0x000000",
		Background: "0xFFFFFF",
		Chain:      "0x808080",
		Scale:      1,
		Delay:      2,
		Stroke:     1,
		Audio: AudioOptions{
			Rate:    44100,
			Seconds: 2,
			Repeat:  50,
		},
	}
}

// LoadOptions reads options from YAML. Missing fields keep their default.
func LoadOptions(r io.Reader) (Options, error) {
	opts := DefaultOptions()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return opts, fmt.Errorf("%w: %v", ErrOptions, err)
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	tracer().Debugf("render options: %+v", opts)
	return opts, nil
}

// Validate checks sizes and colors.
func (opts Options) Validate() error {
	if opts.Width < 1 || opts.Height < 1 {
		return fmt.Errorf("%w: image size %dx%d", ErrOptions, opts.Width, opts.Height)
	}
	if opts.Steps < 1 {
		return fmt.Errorf("%w: %d steps", ErrOptions, opts.Steps)
	}
	if opts.Scale <= 0 || opts.Stroke <= 0 {
		return fmt.Errorf("%w: scale %g, stroke %g", ErrOptions, opts.Scale, opts.Stroke)
	}
	if opts.Delay < 0 {
		return fmt.Errorf("%w: negative delay", ErrOptions)
	}
	for _, c := range []string{opts.Foreground, opts.Background, opts.Chain} {
		if _, err := ParseColor(c); err != nil {
			return err
		}
	}
	return nil
}

func (opts Options) palette() color.Palette {
	bg, _ := ParseColor(opts.Background)
	fore, _ := ParseColor(opts.Foreground)
	ch, _ := ParseColor(opts.Chain)
	return color.Palette{bg, fore, ch}
}

// Palette indices.
const (
	background uint8 = iota
	foreground
	chain
)

// ParseColor converts "0xRRGGBB" or "#RRGGBB" into an opaque color.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		s = "0x" + s[1:]
	}
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return color.RGBA{}, fmt.Errorf("%w: color %q is not hexadecimal", ErrOptions, s)
	}
	v, err := cast.ToUint32E(s)
	if err != nil || v > 0xFFFFFF {
		return color.RGBA{}, fmt.Errorf("%w: color %q", ErrOptions, s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}
