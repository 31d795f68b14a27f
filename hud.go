package takeoff

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// HUD draws a small status overlay in the top-left corner: zoom
// percentage, the page under the viewport center, camera position, and
// the live stamp count. The text image is re-rendered only when the
// viewport version or the stamp count changes.
type HUD struct {
	view  *Viewport
	sheet *Sheet

	img         *ebiten.Image
	lastVersion uint64
	lastStamps  int
	rendered    bool
}

// NewHUD creates a HUD for the given viewport and sheet. A nil sheet
// hides the stamp count.
func NewHUD(view *Viewport, sheet *Sheet) *HUD {
	return &HUD{
		view:  view,
		sheet: sheet,
		// 220x32 fits two lines of debug text.
		img: ebiten.NewImage(220, 32),
	}
}

// Draw renders the overlay onto dst.
func (h *HUD) Draw(dst *ebiten.Image) {
	stamps := 0
	if h.sheet != nil {
		stamps = len(h.sheet.Stamps())
	}
	if !h.rendered || h.view.Version() != h.lastVersion || stamps != h.lastStamps {
		h.rendered = true
		h.lastVersion = h.view.Version()
		h.lastStamps = stamps
		h.render(stamps)
	}

	var op ebiten.DrawImageOptions
	op.GeoM.Translate(8, 8)
	dst.DrawImage(h.img, &op)
}

func (h *HUD) render(stamps int) {
	h.img.Clear()
	h.img.Fill(color.RGBA{0, 0, 0, 128})

	page := 0
	total := 0
	if b := h.view.DocumentBounds(); b != nil {
		total = len(b.Pages)
		vis := h.view.VisibleWorldRect()
		page = b.PageAt(vis.Y + vis.Height/2)
	}
	cam := h.view.Camera()
	ebitenutil.DebugPrint(h.img, fmt.Sprintf(
		"Zoom: %.0f%%  Page: %d/%d  Stamps: %d\nCamera: (%.0f, %.0f)",
		h.view.Zoom()*100, page, total, stamps, cam.X, cam.Y))
}
