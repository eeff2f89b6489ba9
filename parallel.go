package pix

import "sync"

// SplitDir selects the axis along which ForEachRegion slices a region into
// bands.
type SplitDir int

const (
	SplitX SplitDir = iota
	SplitY
	SplitZ

	// SplitBiggest picks the longer of the region's two planar edges:
	// x when the region is wider than tall, otherwise y. The z axis is
	// only ever used when requested explicitly.
	SplitBiggest
)

func (d SplitDir) String() string {
	switch d {
	case SplitX:
		return "x"
	case SplitY:
		return "y"
	case SplitZ:
		return "z"
	default:
		return "biggest"
	}
}

// minPixelsPerBand is the work-density floor: a worker is never dispatched
// for fewer pixels than this, since goroutine startup would outweigh the
// work.
const minPixelsPerBand = 16384

// RegionOption configures a ForEachRegion call.
type RegionOption func(*regionOptions)

type regionOptions struct {
	threads int
	split   SplitDir
}

// WithThreads sets the maximum number of concurrent bands. Values <= 0
// (the default) fall back to the process-wide Threads setting.
func WithThreads(n int) RegionOption {
	return func(o *regionOptions) { o.threads = n }
}

// WithSplitDir forces the axis along which the region is split. The
// default is SplitBiggest.
func WithSplitDir(d SplitDir) RegionOption {
	return func(o *regionOptions) { o.split = d }
}

// ForEachRegion applies fn over roi, partitioning it into contiguous,
// disjoint bands whose union is exactly roi and running up to the resolved
// number of bands concurrently. The last band always runs on the calling
// goroutine; ForEachRegion returns only after every invocation has
// finished.
//
// The band count is min(threads hint or Threads(), 1 + pixels/16384, split
// axis extent). A degenerate or small region therefore collapses to a
// single synchronous call of fn(roi) with no goroutines spawned.
//
// ForEachRegion itself never fails and discards nothing observable: a
// failing fn must report through a side channel it owns, typically by
// setting the error state of the destination buffer it writes, which the
// caller inspects after ForEachRegion returns. fn must confine its writes
// to the band it is handed (or otherwise be safe under disjoint-region
// concurrency); no locking is done on its behalf.
func ForEachRegion(fn func(ROI), roi ROI, opts ...RegionOption) {
	o := regionOptions{split: SplitBiggest}
	for _, opt := range opts {
		opt(&o)
	}

	n := o.threads
	if n <= 0 {
		n = Threads()
	}
	if dense := 1 + int(roi.NPixels()/minPixelsPerBand); n > dense {
		n = dense
	}
	if n <= 1 || roi.NPixels() == 0 {
		fn(roi)
		return
	}

	dir := o.split
	if dir == SplitBiggest {
		if roi.Width() > roi.Height() {
			dir = SplitX
		} else {
			dir = SplitY
		}
	}

	bands := splitBands(roi, n, dir)
	if len(bands) == 1 {
		fn(bands[0])
		return
	}
	Logger().Debug("pix: parallel region",
		"bands", len(bands), "axis", dir.String(), "roi", roi.String())

	var wg sync.WaitGroup
	for _, band := range bands[:len(bands)-1] {
		wg.Add(1)
		go func(sub ROI) {
			defer wg.Done()
			fn(sub)
		}(band)
	}
	// Run the last band here rather than paying for one more goroutine.
	fn(bands[len(bands)-1])
	wg.Wait()
}

// splitBands cuts roi into at most n contiguous bands along dir. Bands are
// identical to roi except for the split axis bounds; they are pairwise
// disjoint and jointly cover roi. n is additionally capped by the axis
// extent so no band is ever empty.
func splitBands(roi ROI, n int, dir SplitDir) []ROI {
	var begin, end int
	switch dir {
	case SplitX:
		begin, end = roi.XBegin, roi.XEnd
	case SplitY:
		begin, end = roi.YBegin, roi.YEnd
	default:
		begin, end = roi.ZBegin, roi.ZEnd
	}
	extent := end - begin
	if n > extent {
		n = extent
	}
	if n < 1 {
		n = 1
	}
	block := (extent + n - 1) / n

	bands := make([]ROI, 0, n)
	for b := begin; b < end; b += block {
		sub := roi
		e := min(b+block, end)
		switch dir {
		case SplitX:
			sub.XBegin, sub.XEnd = b, e
		case SplitY:
			sub.YBegin, sub.YEnd = b, e
		default:
			sub.ZBegin, sub.ZEnd = b, e
		}
		bands = append(bands, sub)
	}
	return bands
}
