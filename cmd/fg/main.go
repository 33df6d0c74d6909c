// Command fg draws pictures with Fourier series.
//
// It reads a list of time-tagged points, interpolates them by a cubic spline,
// computes the Fourier coefficients of the closed path and writes an animated
// GIF of the rotating epicycles drawing it.
//
// Usage:
//
//	fg [options] points.txt
//	fg -t coeffs -o out.gif coefficients.txt    # draw raw coefficients over (0, 2π)
//	fg -t spline -o path.gif points.txt         # draw the interpolating spline only
//	fg -c 20 -wav xy.wav -dump coeffs.txt points.txt
//
// Input formats are described in package codec, the YAML option file in
// package render.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/Rayerdyne/FG/codec"
	"github.com/Rayerdyne/FG/fourier"
	"github.com/Rayerdyne/FG/render"
	"github.com/Rayerdyne/FG/spline"
	"github.com/npillmayer/schuko/tracing"
)

const (
	defaultCoeffs = 5
	minFFTSamples = 1024
	verifySamples = 4 // FFT samples per harmonic
)

// flags which override values of the option file
type overrides struct {
	fcolor, bcolor        *string
	width, height, nsteps *int
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	output := flag.String("o", "output.gif", "Output GIF file")
	ov := overrides{
		fcolor: flag.String("f", "", "Foreground color, hexadecimal (0xRRGGBB)"),
		bcolor: flag.String("b", "", "Background color, hexadecimal (0xRRGGBB)"),
		width:  flag.Int("W", 0, "Width of the output"),
		height: flag.Int("H", 0, "Height of the output"),
		nsteps: flag.Int("n", 0, "Number of frames of the output"),
	}
	ncoeffs := flag.Int("c", defaultCoeffs, "Number of harmonics on either side of the constant term")
	kind := flag.String("t", "std", "What to draw: std, coeffs (input holds raw coefficients) or spline")
	config := flag.String("config", "", "YAML file with render options")
	wavPath := flag.String("wav", "", "Also write an XY-oscilloscope WAV file")
	dump := flag.String("dump", "", "Write the computed coefficients to this file")
	linear := flag.Bool("linear", false, "Join all points by straight lines")
	verify := flag.Bool("verify", false, "Cross-check coefficients against an FFT estimate")
	verbose := flag.Bool("v", false, "Verbose tracing")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input\n\nOptions:\n", os.Args[0])
		flag.PrintDefaults()
		return fmt.Errorf("missing input file")
	}
	if *verbose {
		for _, key := range []string{"spline", "fourier", "codec", "render"} {
			tracing.Select(key).SetTraceLevel(tracing.LevelDebug)
		}
	}
	opts, err := loadOptions(*config, ov)
	if err != nil {
		return err
	}
	input, err := os.Open(flag.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer input.Close()
	out, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	n := *ncoeffs + 1
	var cs *fourier.CoeffSet
	var t0, period float64
	switch *kind {
	case "coeffs":
		if cs, err = codec.ReadCoefficients(input); err != nil {
			return err
		}
		fmt.Printf("coeffs: \n%s", cs)
		n, t0, period = cs.N(), 0, 2*math.Pi
		err = render.Epicycles(out, cs, t0, period, opts)
	case "spline":
		sx, sy, ferr := fitPoints(input, *linear)
		if ferr != nil {
			return ferr
		}
		err = render.SplinePath(out, sx, sy, opts)
	case "std":
		sx, sy, ferr := fitPoints(input, *linear)
		if ferr != nil {
			return ferr
		}
		if cs, err = fourier.Coefficients(sx, sy, n); err != nil {
			return err
		}
		fmt.Print(cs)
		if *verify {
			if err = verifyCoefficients(sx, sy, cs); err != nil {
				return err
			}
		}
		t0, period = sx.Start(), sx.End()-sx.Start()
		err = render.Epicycles(out, cs, t0, period, opts)
	default:
		return fmt.Errorf("unknown drawing type %q", *kind)
	}
	if err != nil {
		return err
	}
	if cs != nil && *dump != "" {
		if err = writeFile(*dump, func(w io.Writer) error { return codec.WriteCoefficients(w, cs) }); err != nil {
			return err
		}
	}
	if cs != nil && *wavPath != "" {
		if err = writeWAV(*wavPath, cs, period, opts.Audio); err != nil {
			return err
		}
		log.Printf("Wrote XY audio to %s", *wavPath)
	}
	log.Printf("Wrote %d frames in %s (%d, %d), with %d coeffs", opts.Steps, *output,
		opts.Width, opts.Height, n)
	return nil
}

// loadOptions reads the option file, if any, and applies explicit flags on top.
func loadOptions(path string, ov overrides) (render.Options, error) {
	opts := render.DefaultOptions()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return opts, fmt.Errorf("failed to open option file: %w", err)
		}
		defer f.Close()
		if opts, err = render.LoadOptions(f); err != nil {
			return opts, err
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "f":
			opts.Foreground = *ov.fcolor
		case "b":
			opts.Background = *ov.bcolor
		case "W":
			opts.Width = *ov.width
		case "H":
			opts.Height = *ov.height
		case "n":
			opts.Steps = *ov.nsteps
		}
	})
	return opts, opts.Validate()
}

func fitPoints(r io.Reader, linear bool) (sx, sy *spline.Spline, err error) {
	ps, err := codec.ReadPoints(r)
	if err != nil {
		return nil, nil, err
	}
	if linear {
		for i := range ps.Modes {
			ps.Modes[i] = spline.Linear
		}
	}
	sk := ps.Skeleton()
	log.Printf("Fitting %s", spline.AsString(sk))
	return sk.Fit()
}

func verifyCoefficients(sx, sy *spline.Spline, cs *fourier.CoeffSet) error {
	m := max(minFFTSamples, verifySamples*(2*cs.N()-1))
	est, err := fourier.Sampled(sx, sy, cs.N(), m)
	if err != nil {
		return err
	}
	dev, err := fourier.MaxDeviation(cs, est)
	if err != nil {
		return err
	}
	log.Printf("FFT estimate from %d samples deviates by at most %.3g", m, dev)
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeWAV(path string, cs *fourier.CoeffSet, period float64, opts render.AudioOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render.WriteXYAudio(f, cs, period, opts); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
