package render

import (
	"fmt"
	"io"
	"math"

	fg "github.com/Rayerdyne/FG"
	"github.com/Rayerdyne/FG/fourier"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/tphakala/simd/f64"
)

const (
	bitDepth      = 16
	pcmFormat     = 1 // WAV format tag for integer PCM
	maxSampleSize = 1<<(bitDepth-1) - 1
)

// WriteXYAudio writes a stereo WAV file for an oscilloscope in XY mode: the
// left channel carries x, the right channel y of the reconstructed path
// Σ c.k · e^{jkω₀t}. The drawing is repeated opts.Repeat times per second,
// centered (the constant term is dropped) and normalized to full scale.
func WriteXYAudio(w io.WriteSeeker, cs *fourier.CoeffSet, period float64, opts AudioOptions) error {
	if opts.Rate < 1 || opts.Seconds <= 0 || opts.Repeat <= 0 {
		return fmt.Errorf("%w: audio rate %d, %g s, %g repeats", ErrOptions, opts.Rate, opts.Seconds, opts.Repeat)
	}
	if err := checkPeriod(0, period); err != nil {
		return err
	}
	n := int(math.Round(float64(opts.Rate) * opts.Seconds))
	xs, ys := make([]float64, n), make([]float64, n)
	peak := 0.0
	dc := fg.C2P(cs.DC())
	for i := range n {
		t := period * opts.Repeat * float64(i) / float64(opts.Rate)
		p := cs.At(t, period) - dc
		xs[i], ys[i] = p.X(), p.Y()
		peak = math.Max(peak, math.Max(math.Abs(xs[i]), math.Abs(ys[i])))
	}
	scale := 0.0
	if !fg.Is0(peak) {
		scale = maxSampleSize / peak
	}
	stereo := make([]float64, 2*n)
	f64.Interleave2(stereo, xs, ys)
	f64.Scale(stereo, stereo, scale)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: opts.Rate},
		Data:           make([]int, 2*n),
		SourceBitDepth: bitDepth,
	}
	for i, v := range stereo {
		buf.Data[i] = int(math.Round(v))
	}
	enc := wav.NewEncoder(w, opts.Rate, bitDepth, 2, pcmFormat)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("writing samples: %w", err)
	}
	tracer().Infof("XY audio: %d frames at %d Hz, peak %g", n, opts.Rate, peak)
	return enc.Close()
}
