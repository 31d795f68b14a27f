// Package takeoff is the viewport and gesture engine for a construction
// takeoff plan viewer built on [Ebitengine].
//
// Takeoff provides the camera/zoom state, world<->screen coordinate math,
// multi-page document layout, gesture handling (drag-pan, pinch-zoom,
// wheel zoom-at-cursor, keyboard shortcuts), and device-stamp placement
// with location hit-testing that a plan-markup tool needs.
//
// # Coordinate spaces
//
// Every point lives in one of two spaces and the two must never be
// conflated:
//
//   - World space: coordinates of the document content, invariant under
//     pan and zoom. Stamps and location boundaries are stored here.
//   - Viewport (screen) space: pixel coordinates inside the on-screen
//     container; they change whenever the camera or zoom changes.
//
// [ViewportToWorld] and [WorldToViewport] convert between the two and are
// exact algebraic inverses.
//
// # Quick start
//
// Create a [Viewport], feed it input through a [Coordinator], and read the
// camera/zoom pair back out for rendering:
//
//	view := takeoff.NewViewport()
//	view.SetSize(takeoff.Size{Width: 800, Height: 600})
//	view.SetDocumentBounds(takeoff.StackPages(sizes, takeoff.DefaultPageGap))
//
//	coord := takeoff.NewCoordinator(view, takeoff.Callbacks{})
//	coord.Wheel(takeoff.WheelEvent{...})
//
// All consumers that render content (page sheets, annotation overlays)
// must derive their transform from the same [Viewport.Transform] value so
// independently drawn layers stay pixel-aligned.
//
// The [InputDriver] polls Ebitengine input and synthesizes the event
// stream for a Coordinator; [Renderer] draws page sheets, boundaries, and
// stamps with the shared transform. Both are optional: the core engine has
// no dependency on a particular event source or render target.
//
// PDF floor plans are turned into a [DocumentBounds] by the plans
// subpackage.
//
// [Ebitengine]: https://ebitengine.org
package takeoff
