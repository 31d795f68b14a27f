package takeoff

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// whitePixel is a 1x1 white image stretched to draw solid rectangles
// and line quads.
var whitePixel *ebiten.Image

func init() {
	whitePixel = ebiten.NewImage(1, 1)
	whitePixel.Fill(colorWhite)
}

var colorWhite = rgba(Color{1, 1, 1, 1})

func rgba(c Color) colorRGBA {
	return colorRGBA{c}
}

// colorRGBA adapts Color to image/color.Color for ebiten fills.
type colorRGBA struct{ c Color }

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	return uint32(c.c.R * 0xffff), uint32(c.c.G * 0xffff),
		uint32(c.c.B * 0xffff), uint32(c.c.A * 0xffff)
}

// Renderer draws page sheets, location boundaries, and device stamps for
// a viewport. Every layer derives its transform from the same
// Viewport.Transform value, which is what keeps the independently drawn
// layers pixel-aligned.
//
// Page content itself (the rasterized PDF) is a consumer concern; the
// renderer draws blank sheets and an optional per-page image supplied
// via SetPageImage.
type Renderer struct {
	view  *Viewport
	sheet *Sheet

	Background     Color
	PageFill       Color
	BoundaryStroke Color
	BoundaryFill   Color
	StampFill      Color
	StampSize      float64 // world units, edge length of the stamp square
	BoundaryWidth  float64 // world units
	pageImages     map[int]*ebiten.Image
	CullEnabled    bool
}

// NewRenderer creates a renderer with the default palette.
func NewRenderer(view *Viewport, sheet *Sheet) *Renderer {
	return &Renderer{
		view:  view,
		sheet: sheet,

		Background:     Color{0.16, 0.17, 0.19, 1},
		PageFill:       Color{0.98, 0.98, 0.96, 1},
		BoundaryStroke: Color{0.22, 0.49, 0.85, 1},
		BoundaryFill:   Color{0.22, 0.49, 0.85, 0.12},
		StampFill:      Color{0.86, 0.26, 0.22, 1},
		StampSize:      12,
		BoundaryWidth:  2,
		CullEnabled:    true,
		pageImages:     make(map[int]*ebiten.Image),
	}
}

// SetPageImage installs a rasterized image for the given 1-indexed page.
// The image is stretched to the page's world-space rectangle.
func (r *Renderer) SetPageImage(pageNumber int, img *ebiten.Image) {
	r.pageImages[pageNumber] = img
}

// Draw renders the document and annotations onto dst.
func (r *Renderer) Draw(dst *ebiten.Image) {
	dst.Fill(rgba(r.Background))

	bounds := r.view.DocumentBounds()
	if bounds == nil {
		return
	}
	visible := r.view.VisibleWorldRect()

	for _, p := range bounds.Pages {
		rect, _ := bounds.PageRect(p.PageNumber)
		if r.CullEnabled && !rect.Intersects(visible) {
			continue
		}
		if img := r.pageImages[p.PageNumber]; img != nil {
			r.drawWorldImage(dst, img, rect)
		} else {
			r.fillWorldRect(dst, rect, r.PageFill)
		}
	}

	if r.sheet == nil {
		return
	}
	for _, b := range r.sheet.Boundaries() {
		r.drawBoundary(dst, b, visible)
	}
	for _, st := range r.sheet.Stamps() {
		rect := Rect{
			X:      st.Pos.X - r.StampSize/2,
			Y:      st.Pos.Y - r.StampSize/2,
			Width:  r.StampSize,
			Height: r.StampSize,
		}
		if r.CullEnabled && !rect.Intersects(visible) {
			continue
		}
		r.fillWorldRect(dst, rect, r.StampFill)
	}
}

func (r *Renderer) drawBoundary(dst *ebiten.Image, b *LocationBoundary, visible Rect) {
	if b.Rect != nil {
		if r.CullEnabled && !b.Rect.Intersects(visible) {
			return
		}
		r.fillWorldRect(dst, *b.Rect, r.BoundaryFill)
		r.strokeWorldRect(dst, *b.Rect, r.BoundaryWidth, r.BoundaryStroke)
		return
	}
	if len(b.Polygon) < 2 {
		return
	}
	if r.CullEnabled {
		if aabb, ok := BoundingRect(b.Polygon); !ok || !aabb.Intersects(visible) {
			return
		}
	}
	for i := range b.Polygon {
		j := (i + 1) % len(b.Polygon)
		r.strokeWorldLine(dst, b.Polygon[i], b.Polygon[j], r.BoundaryWidth, r.BoundaryStroke)
	}
}

// viewGeoM returns the world-to-screen transform as an ebiten GeoM:
// scale by zoom, then translate by -camera*zoom.
func (r *Renderer) viewGeoM() ebiten.GeoM {
	tr := r.view.Transform()
	var g ebiten.GeoM
	g.Scale(tr.Zoom, tr.Zoom)
	g.Translate(-tr.Camera.X*tr.Zoom, -tr.Camera.Y*tr.Zoom)
	return g
}

func (r *Renderer) fillWorldRect(dst *ebiten.Image, rect Rect, c Color) {
	if rect.Width <= 0 || rect.Height <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(rect.Width, rect.Height)
	op.GeoM.Translate(rect.X, rect.Y)
	op.GeoM.Concat(r.viewGeoM())
	op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	dst.DrawImage(whitePixel, op)
}

func (r *Renderer) drawWorldImage(dst *ebiten.Image, img *ebiten.Image, rect Rect) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 || rect.Width <= 0 || rect.Height <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(rect.Width/float64(w), rect.Height/float64(h))
	op.GeoM.Translate(rect.X, rect.Y)
	op.GeoM.Concat(r.viewGeoM())
	dst.DrawImage(img, op)
}

func (r *Renderer) strokeWorldRect(dst *ebiten.Image, rect Rect, width float64, c Color) {
	tl := Point{X: rect.X, Y: rect.Y}
	tr := Point{X: rect.X + rect.Width, Y: rect.Y}
	br := Point{X: rect.X + rect.Width, Y: rect.Y + rect.Height}
	bl := Point{X: rect.X, Y: rect.Y + rect.Height}
	r.strokeWorldLine(dst, tl, tr, width, c)
	r.strokeWorldLine(dst, tr, br, width, c)
	r.strokeWorldLine(dst, br, bl, width, c)
	r.strokeWorldLine(dst, bl, tl, width, c)
}

// strokeWorldLine draws a line segment as a rotated quad of the given
// world-space width.
func (r *Renderer) strokeWorldLine(dst *ebiten.Image, p1, p2 Point, width float64, c Color) {
	length := Distance(p1, p2)
	if length == 0 || width <= 0 {
		return
	}
	angle := math.Atan2(p2.Y-p1.Y, p2.X-p1.X)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, width)
	op.GeoM.Translate(0, -width/2)
	op.GeoM.Rotate(angle)
	op.GeoM.Translate(p1.X, p1.Y)
	op.GeoM.Concat(r.viewGeoM())
	op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	dst.DrawImage(whitePixel, op)
}
