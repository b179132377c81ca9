package motaug

// Bounding box and image size primitives.

import "math"

// Box is an axis-aligned rectangle. Before normalization it holds the absolute pixel corners
// x1, y1, x2, y2. After normalization it holds the center x, center y, width and height as
// fractions of the image width and height.
type Box [4]float64

// Width is the box width in xyxy form.
func (b Box) Width() float64 {
	return b[2] - b[0]
}

// Height is the box height in xyxy form.
func (b Box) Height() float64 {
	return b[3] - b[1]
}

// Area is Width * Height. Degenerate boxes have zero area.
func (b Box) Area() float64 {
	w, h := b.Width(), b.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Translate shifts the box by dx, dy.
func (b Box) Translate(dx, dy float64) Box {
	return Box{b[0] + dx, b[1] + dy, b[2] + dx, b[3] + dy}
}

// Scale multiplies the x coordinates by sx and the y coordinates by sy.
func (b Box) Scale(sx, sy float64) Box {
	return Box{b[0] * sx, b[1] * sy, b[2] * sx, b[3] * sy}
}

// Clamp limits every corner to [0, w] x [0, h].
func (b Box) Clamp(w, h float64) Box {
	return Box{
		math.Max(0, math.Min(b[0], w)),
		math.Max(0, math.Min(b[1], h)),
		math.Max(0, math.Min(b[2], w)),
		math.Max(0, math.Min(b[3], h)),
	}
}

// Valid reports whether the max corner lies strictly beyond the min corner on both axes.
func (b Box) Valid() bool {
	return b[2] > b[0] && b[3] > b[1]
}

// MirrorX mirrors the box horizontally inside an image of width w.
func (b Box) MirrorX(w float64) Box {
	return Box{w - b[2], b[1], w - b[0], b[3]}
}

// XYXYToCXCYWH converts an absolute corner box to a center box normalized by the image size.
func XYXYToCXCYWH(b Box, w, h float64) Box {
	return Box{
		(b[0] + b[2]) / 2 / w,
		(b[1] + b[3]) / 2 / h,
		(b[2] - b[0]) / w,
		(b[3] - b[1]) / h,
	}
}

// CXCYWHToXYXY is the inverse of XYXYToCXCYWH.
func CXCYWHToXYXY(b Box, w, h float64) Box {
	cx, cy := b[0]*w, b[1]*h
	bw, bh := b[2]*w, b[3]*h
	return Box{cx - bw/2, cy - bh/2, cx + bw/2, cy + bh/2}
}

// Size is an image size in pixels.
type Size struct {
	Height int `json:"height"`
	Width  int `json:"width"`
}

// Empty reports whether either dimension is not positive.
func (s Size) Empty() bool {
	return s.Height <= 0 || s.Width <= 0
}
