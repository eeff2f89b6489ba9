package pix

import (
	"fmt"
	"math"
)

// ROI describes a region of interest within an image: an axis-aligned
// integer box over the x, y, and z axes plus a half-open channel range.
// All End bounds are exclusive, so a region covering a single pixel at the
// origin is {XBegin: 0, XEnd: 1, YBegin: 0, YEnd: 1, ZBegin: 0, ZEnd: 1}.
//
// ROI is a plain value type: it is freely copied and carries no ownership.
// A region with Begin == End on any spatial axis is empty and describes no
// work.
type ROI struct {
	XBegin, XEnd int
	YBegin, YEnd int
	ZBegin, ZEnd int

	// ChBegin and ChEnd bound the channel range the operation touches.
	ChBegin, ChEnd int
}

// roiUndefined marks the "entire image" sentinel. Any genuine region has
// bounds well inside the int32 range.
const roiUndefined = math.MinInt32

// ROIAll returns the sentinel region meaning "the entire image": callers
// pass it when they want the operation to resolve the region itself, e.g.
// from the destination buffer during Prepare.
func ROIAll() ROI {
	return ROI{XBegin: roiUndefined}
}

// NewROI returns a flat (single z slice) region with nch channels starting
// at channel 0. Volumetric regions are built with a composite literal.
func NewROI(xbegin, xend, ybegin, yend, nch int) ROI {
	return ROI{
		XBegin: xbegin, XEnd: xend,
		YBegin: ybegin, YEnd: yend,
		ZBegin: 0, ZEnd: 1,
		ChBegin: 0, ChEnd: nch,
	}
}

// Defined reports whether r is a concrete region rather than the ROIAll
// sentinel.
func (r ROI) Defined() bool {
	return r.XBegin != roiUndefined
}

// Width returns the x extent.
func (r ROI) Width() int { return r.XEnd - r.XBegin }

// Height returns the y extent.
func (r ROI) Height() int { return r.YEnd - r.YBegin }

// Depth returns the z extent.
func (r ROI) Depth() int { return r.ZEnd - r.ZBegin }

// NChannels returns the number of channels in the region's channel range.
func (r ROI) NChannels() int { return r.ChEnd - r.ChBegin }

// NPixels returns the number of pixels covered: the product of the three
// spatial extents. Channels do not multiply the count. An empty or
// undefined region has zero pixels.
func (r ROI) NPixels() int64 {
	if !r.Defined() {
		return 0
	}
	w, h, d := r.Width(), r.Height(), r.Depth()
	if w <= 0 || h <= 0 || d <= 0 {
		return 0
	}
	return int64(w) * int64(h) * int64(d)
}

// Contains reports whether the pixel at (x, y, z) lies inside the region.
func (r ROI) Contains(x, y, z int) bool {
	return x >= r.XBegin && x < r.XEnd &&
		y >= r.YBegin && y < r.YEnd &&
		z >= r.ZBegin && z < r.ZEnd
}

// Union returns the tightest region enclosing both a and b. If either is
// undefined the other is returned unchanged.
func Union(a, b ROI) ROI {
	if !a.Defined() {
		return b
	}
	if !b.Defined() {
		return a
	}
	return ROI{
		XBegin: min(a.XBegin, b.XBegin), XEnd: max(a.XEnd, b.XEnd),
		YBegin: min(a.YBegin, b.YBegin), YEnd: max(a.YEnd, b.YEnd),
		ZBegin: min(a.ZBegin, b.ZBegin), ZEnd: max(a.ZEnd, b.ZEnd),
		ChBegin: min(a.ChBegin, b.ChBegin), ChEnd: max(a.ChEnd, b.ChEnd),
	}
}

// Intersection returns the overlap of a and b. If either is undefined the
// other is returned unchanged. A result with Begin >= End on some axis is
// empty.
func Intersection(a, b ROI) ROI {
	if !a.Defined() {
		return b
	}
	if !b.Defined() {
		return a
	}
	return ROI{
		XBegin: max(a.XBegin, b.XBegin), XEnd: min(a.XEnd, b.XEnd),
		YBegin: max(a.YBegin, b.YBegin), YEnd: min(a.YEnd, b.YEnd),
		ZBegin: max(a.ZBegin, b.ZBegin), ZEnd: min(a.ZEnd, b.ZEnd),
		ChBegin: max(a.ChBegin, b.ChBegin), ChEnd: min(a.ChEnd, b.ChEnd),
	}
}

// String formats the region for log and error messages.
func (r ROI) String() string {
	if !r.Defined() {
		return "(all)"
	}
	return fmt.Sprintf("x[%d,%d) y[%d,%d) z[%d,%d) ch[%d,%d)",
		r.XBegin, r.XEnd, r.YBegin, r.YEnd, r.ZBegin, r.ZEnd, r.ChBegin, r.ChEnd)
}
