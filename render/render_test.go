package render

import (
	"bytes"
	"errors"
	"image/color"
	"image/gif"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	fg "github.com/Rayerdyne/FG"
	"github.com/Rayerdyne/FG/fourier"
	"github.com/Rayerdyne/FG/spline"
	"github.com/go-audio/wav"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// circle of radius 30, drawn counter-clockwise once per period
func circle(t *testing.T) *fourier.CoeffSet {
	cs, err := fourier.NewCoeffSet([]complex128{0, 30, 0}, []complex128{0, 0, 0})
	require.NoError(t, err)
	return cs
}

func smallOptions() Options {
	opts := DefaultOptions()
	opts.Width, opts.Height = 100, 80
	opts.Steps = 12
	return opts
}

func TestDefaultOptions(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	opts := DefaultOptions()
	assert.Equal(t, 300, opts.Width)
	assert.Equal(t, 200, opts.Height)
	assert.Equal(t, 200, opts.Steps)
	assert.NoError(t, opts.Validate())
}

func TestLoadOptions(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	yml := `
width: 64
steps: 10
foreground: "#ff0000"
audio:
  rate: 8000
`
	opts, err := LoadOptions(strings.NewReader(yml))
	require.NoError(t, err)
	assert.Equal(t, 64, opts.Width)
	assert.Equal(t, 200, opts.Height, "default kept")
	assert.Equal(t, 10, opts.Steps)
	assert.Equal(t, 8000, opts.Audio.Rate)
	assert.Equal(t, 2.0, opts.Audio.Seconds, "default kept")
	c, err := ParseColor(opts.Foreground)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xFF, A: 0xFF}, c)
	opts, err = LoadOptions(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opts)
}

func TestInvalidOptions(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, yml := range []string{
		"width: 0\n",
		"steps: -1\n",
		"background: white\n",
		"foreground: \"0x1000000\"\n",
		"colour: \"0x000000\"\n",
		"scale: 0\n",
	} {
		_, err := LoadOptions(strings.NewReader(yml))
		assert.True(t, errors.Is(err, ErrOptions), "options %q", yml)
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("0x102030")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xFF}, c)
	c, err = ParseColor(" #FFFFFF ")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, c)
	_, err = ParseColor("123")
	assert.Error(t, err)
}

func TestEpicyclesGIF(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	opts := smallOptions()
	var buf bytes.Buffer
	require.NoError(t, Epicycles(&buf, circle(t), 0, 2*math.Pi, opts))
	anim, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Len(t, anim.Image, opts.Steps)
	assert.Equal(t, opts.Width, anim.Config.Width)
	assert.Equal(t, opts.Height, anim.Config.Height)
	last := anim.Image[len(anim.Image)-1]
	// the trace starts at world (30,0), which is pixel (80,40)
	assert.NotEqual(t, background, last.ColorIndexAt(80, 40))
	assert.Equal(t, background, last.ColorIndexAt(0, 0))
	assert.Equal(t, background, last.ColorIndexAt(50, 55), "inside the ring")
}

func TestEpicyclesClipsLargeDrawings(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	cs, err := fourier.NewCoeffSet([]complex128{0, 500, 10}, []complex128{0, 0, 20})
	require.NoError(t, err)
	opts := smallOptions()
	var buf bytes.Buffer
	require.NoError(t, Epicycles(&buf, cs, 1, 4, opts))
	anim, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Len(t, anim.Image, opts.Steps)
}

func TestEpicyclesRejectsPeriod(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	var buf bytes.Buffer
	err := Epicycles(&buf, circle(t), 0, 0, smallOptions())
	assert.True(t, errors.Is(err, fg.ErrDomain))
	err = Epicycles(&buf, circle(t), math.NaN(), 1, smallOptions())
	assert.True(t, errors.Is(err, fg.ErrDomain))
}

func TestSplinePathGIF(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	sx, sy, err := spline.FitPath([]float64{0, 1, 2}, []float64{-20, 0, 20}, []float64{-10, 10, -10},
		spline.AllCubic(3))
	require.NoError(t, err)
	opts := smallOptions()
	var buf bytes.Buffer
	require.NoError(t, SplinePath(&buf, sx, sy, opts))
	anim, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Len(t, anim.Image, opts.Steps)
	first, last := anim.Image[0], anim.Image[len(anim.Image)-1]
	// (0,10) in the world is pixel (50,30), reached at half time
	assert.Equal(t, background, first.ColorIndexAt(50, 30))
	assert.NotEqual(t, background, last.ColorIndexAt(50, 30))
}

func TestSplinePathDomainMismatch(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	sx, _, err := spline.FitPath([]float64{0, 1}, []float64{0, 1}, []float64{0, 1}, spline.AllCubic(2))
	require.NoError(t, err)
	_, sy, err := spline.FitPath([]float64{0, 2}, []float64{0, 1}, []float64{0, 1}, spline.AllCubic(2))
	require.NoError(t, err)
	var buf bytes.Buffer
	err = SplinePath(&buf, sx, sy, smallOptions())
	assert.True(t, errors.Is(err, fg.ErrDimensionMismatch))
}

func TestXYAudio(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	path := filepath.Join(t.TempDir(), "xy.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	opts := AudioOptions{Rate: 8000, Seconds: 0.1, Repeat: 100}
	require.NoError(t, WriteXYAudio(f, circle(t), 2*math.Pi, opts))
	require.NoError(t, f.Close())

	f, err = os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	assert.Equal(t, 2, buf.Format.NumChannels)
	assert.Equal(t, 8000, buf.Format.SampleRate)
	require.Len(t, buf.Data, 2*800)
	// t = 0: x at full scale, y at zero
	assert.InDelta(t, maxSampleSize, buf.Data[0], 1)
	assert.InDelta(t, 0, buf.Data[1], 1)
	peak := 0
	for _, v := range buf.Data {
		peak = max(peak, v, -v)
	}
	assert.InDelta(t, maxSampleSize, peak, 1)
}

func TestXYAudioRejectsOptions(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	f, err := os.Create(filepath.Join(t.TempDir(), "bad.wav"))
	require.NoError(t, err)
	defer f.Close()
	err = WriteXYAudio(f, circle(t), 1, AudioOptions{Rate: 0, Seconds: 1, Repeat: 1})
	assert.True(t, errors.Is(err, ErrOptions))
}
