// Package plans turns PDF floor plans into the stacked document layout
// the takeoff viewport works in.
//
// Only page geometry is read here: each page's MediaBox and rotation
// determine its world-space size, and the pages are stacked vertically
// with the standard inter-page gap. Rasterizing page content is left to
// the consumer.
package plans

import (
	"fmt"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"

	"github.com/zimmra/takeoff"
)

// US Letter in PDF units, used when a page carries no usable MediaBox.
const (
	fallbackPageWidth  = 612
	fallbackPageHeight = 792
)

// Load reads the page geometry of the named PDF file and returns the
// stacked document bounds, one world unit per PDF unit (1/72 inch).
func Load(fname string) (*takeoff.DocumentBounds, error) {
	sizes, err := PageSizes(fname)
	if err != nil {
		return nil, err
	}
	return takeoff.StackPages(sizes, takeoff.DefaultPageGap), nil
}

// PageSizes reads the per-page world-space sizes of the named PDF file.
func PageSizes(fname string) ([]takeoff.PageSize, error) {
	r, err := pdf.Open(fname, nil)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fname, err)
	}
	defer r.Close()

	numPages, err := pagetree.NumPages(r)
	if err != nil {
		return nil, fmt.Errorf("read page count: %w", err)
	}

	sizes := make([]takeoff.PageSize, 0, numPages)
	for i := 0; i < numPages; i++ {
		_, pageDict, err := pagetree.GetPage(r, i)
		if err != nil {
			return nil, fmt.Errorf("read page %d: %w", i+1, err)
		}

		var box *pdf.Rectangle
		if obj, ok := pageDict["MediaBox"]; ok {
			// A malformed MediaBox falls back to the default size
			// rather than failing the whole document.
			box, _ = pdf.GetRectangle(r, obj)
		}
		rotate := 0
		if obj, ok := pageDict["Rotate"]; ok {
			if n, err := pdf.GetInteger(r, obj); err == nil {
				rotate = int(n)
			}
		}
		sizes = append(sizes, MediaBoxSize(box, rotate))
	}
	return sizes, nil
}

// MediaBoxSize derives a page's world-space size from its MediaBox and
// clockwise rotation. Rotations of 90 or 270 degrees swap the axes; the
// box may have either corner order. A nil or degenerate box yields the
// US Letter fallback.
func MediaBoxSize(box *pdf.Rectangle, rotate int) takeoff.PageSize {
	w, h := float64(fallbackPageWidth), float64(fallbackPageHeight)
	if box != nil {
		bw := box.URx - box.LLx
		bh := box.URy - box.LLy
		if bw < 0 {
			bw = -bw
		}
		if bh < 0 {
			bh = -bh
		}
		if bw > 0 && bh > 0 {
			w, h = bw, bh
		}
	}

	rotate %= 360
	if rotate < 0 {
		rotate += 360
	}
	if rotate == 90 || rotate == 270 {
		w, h = h, w
	}
	return takeoff.PageSize{Width: w, Height: h}
}
