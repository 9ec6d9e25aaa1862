package pdf

// Rect is a rectangle (x0, y0, x1, y1) on a PDF page. Two coordinate
// spaces exist: stored annotation space (origin bottom-left, as Zotero
// records positions) and render space (origin top-left, as rasterizers
// address pixels). A Rect carries no marker for which space it is in;
// callers must keep the two apart and convert with ToRenderRect.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// FromSlice builds a Rect from a decoded [x0, y0, x1, y1] tuple.
func FromSlice(v [4]float64) Rect {
	return Rect{X0: v[0], Y0: v[1], X1: v[2], Y1: v[3]}
}

// ToRenderRect converts a stored-space rectangle to render space by
// flipping the y-axis around the page height. Y0 and Y1 swap roles because
// the flip inverts vertical ordering; x values pass through unchanged. No
// clamping to page bounds happens here.
func ToRenderRect(pageHeight float64, r Rect) Rect {
	return Rect{
		X0: r.X0,
		Y0: pageHeight - r.Y1,
		X1: r.X1,
		Y1: pageHeight - r.Y0,
	}
}
