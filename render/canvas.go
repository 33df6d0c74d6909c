package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	fg "github.com/Rayerdyne/FG"
	"github.com/Rayerdyne/FG/polygon"
	"golang.org/x/image/vector"
)

// canvas maps world coordinates onto paletted frames and fills polygons.
type canvas struct {
	opts     Options
	palette  color.Palette
	bounds   image.Rectangle
	toPixel  fg.AT
	viewport *polygon.Polygon // in pixel coordinates
	rast     *vector.Rasterizer
	layer    *image.Paletted // persistent trace
}

func newCanvas(opts Options) *canvas {
	w, h := opts.Width, opts.Height
	c := &canvas{
		opts:     opts,
		palette:  opts.palette(),
		bounds:   image.Rect(0, 0, w, h),
		toPixel:  fg.Scaling(opts.Scale, -opts.Scale).Combine(fg.Translation(fg.P(float64(w)/2, float64(h)/2))),
		viewport: polygon.Box(fg.Origin, fg.P(float64(w), float64(h))),
		rast:     vector.NewRasterizer(w, h),
	}
	c.layer = c.blank()
	return c
}

func (c *canvas) blank() *image.Paletted {
	return image.NewPaletted(c.bounds, c.palette) // index 0 is background
}

// frame returns a copy of the trace layer, to draw transient things on.
func (c *canvas) frame() *image.Paletted {
	img := c.blank()
	copy(img.Pix, c.layer.Pix)
	return img
}

// fill rasterizes a polygon given in world coordinates.
func (c *canvas) fill(dst draw.Image, pg *polygon.Polygon, index uint8) {
	pg = pg.Transform(c.toPixel)
	if !pg.Inside(c.viewport) {
		pg = pg.Intersect(c.viewport)
	}
	if pg.IsEmpty() {
		return
	}
	// rasterize only the bounding box, the rasterizer origin maps to r.Min
	ll, ur := pg.BoundingBox()
	r := image.Rect(int(math.Floor(ll.X())), int(math.Floor(ll.Y())),
		int(math.Ceil(ur.X())), int(math.Ceil(ur.Y()))).Intersect(c.bounds)
	if r.Empty() {
		return
	}
	c.rast.Reset(r.Dx(), r.Dy())
	x0, y0 := float64(r.Min.X), float64(r.Min.Y)
	for i := 0; i < pg.Contours(); i++ {
		knots := pg.Contour(i)
		c.rast.MoveTo(float32(knots[0].X()-x0), float32(knots[0].Y()-y0))
		for _, p := range knots[1:] {
			c.rast.LineTo(float32(p.X()-x0), float32(p.Y()-y0))
		}
		c.rast.ClosePath()
	}
	src := image.NewUniform(c.palette[index])
	c.rast.Draw(dst, r, src, image.Point{})
}

// line draws a stroke from p to q, world coordinates.
func (c *canvas) line(dst draw.Image, p, q fg.Pair, index uint8) {
	w := c.opts.Stroke / c.opts.Scale
	c.fill(dst, polygon.Stroke(p, q, w), index)
}

// polyline draws consecutive strokes.
func (c *canvas) polyline(dst draw.Image, pts []fg.Pair, index uint8) {
	for i := 1; i < len(pts); i++ {
		c.line(dst, pts[i-1], pts[i], index)
	}
}

// dot draws a filled disc of the stroke width around p.
func (c *canvas) dot(dst draw.Image, p fg.Pair, index uint8) {
	r := c.opts.Stroke / c.opts.Scale
	c.fill(dst, polygon.Circle(p, r, 8), index)
}

// ring draws the outline of a circle around p.
func (c *canvas) ring(dst draw.Image, p fg.Pair, r float64, index uint8) {
	const corners = 32
	if r*c.opts.Scale < 1 {
		return
	}
	outline := polygon.Circle(p, r, corners)
	c.polyline(dst, append(outline.Contour(0), outline.Contour(0)[0]), index)
}
