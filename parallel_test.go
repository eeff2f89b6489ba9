package pix

import (
	"sort"
	"sync"
	"testing"
)

// collectBands runs ForEachRegion and returns every band fn was handed,
// in no particular order.
func collectBands(t *testing.T, roi ROI, opts ...RegionOption) []ROI {
	t.Helper()
	var mu sync.Mutex
	var bands []ROI
	ForEachRegion(func(r ROI) {
		mu.Lock()
		bands = append(bands, r)
		mu.Unlock()
	}, roi, opts...)
	return bands
}

// checkCoverage verifies that bands are pairwise disjoint, contiguous along
// dir, identical to roi on every other axis, and jointly cover roi.
func checkCoverage(t *testing.T, roi ROI, bands []ROI, dir SplitDir) {
	t.Helper()
	sorted := append([]ROI(nil), bands...)
	sort.Slice(sorted, func(i, j int) bool {
		switch dir {
		case SplitX:
			return sorted[i].XBegin < sorted[j].XBegin
		case SplitY:
			return sorted[i].YBegin < sorted[j].YBegin
		default:
			return sorted[i].ZBegin < sorted[j].ZBegin
		}
	})
	cursor := roi
	switch dir {
	case SplitX:
		cursor.XEnd = roi.XBegin
	case SplitY:
		cursor.YEnd = roi.YBegin
	default:
		cursor.ZEnd = roi.ZBegin
	}
	for i, b := range sorted {
		want := cursor
		switch dir {
		case SplitX:
			if b.XBegin != cursor.XEnd {
				t.Fatalf("band %d begins at x=%d, want %d (gap or overlap)", i, b.XBegin, cursor.XEnd)
			}
			want.XBegin, want.XEnd = b.XBegin, b.XEnd
			cursor.XEnd = b.XEnd
		case SplitY:
			if b.YBegin != cursor.YEnd {
				t.Fatalf("band %d begins at y=%d, want %d (gap or overlap)", i, b.YBegin, cursor.YEnd)
			}
			want.YBegin, want.YEnd = b.YBegin, b.YEnd
			cursor.YEnd = b.YEnd
		default:
			if b.ZBegin != cursor.ZEnd {
				t.Fatalf("band %d begins at z=%d, want %d (gap or overlap)", i, b.ZBegin, cursor.ZEnd)
			}
			want.ZBegin, want.ZEnd = b.ZBegin, b.ZEnd
			cursor.ZEnd = b.ZEnd
		}
		if b != want {
			t.Errorf("band %d = %v differs from roi off the split axis", i, b)
		}
		if b.NPixels() == 0 {
			t.Errorf("band %d is empty: %v", i, b)
		}
	}
	switch dir {
	case SplitX:
		if cursor.XEnd != roi.XEnd {
			t.Errorf("bands cover x up to %d, want %d", cursor.XEnd, roi.XEnd)
		}
	case SplitY:
		if cursor.YEnd != roi.YEnd {
			t.Errorf("bands cover y up to %d, want %d", cursor.YEnd, roi.YEnd)
		}
	default:
		if cursor.ZEnd != roi.ZEnd {
			t.Errorf("bands cover z up to %d, want %d", cursor.ZEnd, roi.ZEnd)
		}
	}
}

func TestForEachRegionSingleThread(t *testing.T) {
	roi := NewROI(0, 512, 0, 512, 3)
	bands := collectBands(t, roi, WithThreads(1))
	if len(bands) != 1 {
		t.Fatalf("got %d invocations, want 1", len(bands))
	}
	if bands[0] != roi {
		t.Errorf("single invocation got %v, want the unmodified region %v", bands[0], roi)
	}
}

func TestForEachRegionSmallRegionCollapses(t *testing.T) {
	// 1000x1 pixels is well under the density floor for a second band, so
	// even a generous thread hint yields one synchronous call.
	roi := ROI{XBegin: 0, XEnd: 1000, YBegin: 0, YEnd: 1, ZBegin: 0, ZEnd: 1, ChBegin: 0, ChEnd: 3}
	bands := collectBands(t, roi, WithThreads(8))
	if len(bands) != 1 {
		t.Fatalf("got %d invocations, want 1", len(bands))
	}
	if bands[0] != roi {
		t.Errorf("got %v, want %v", bands[0], roi)
	}
}

func TestForEachRegionDegenerate(t *testing.T) {
	roi := ROI{XBegin: 3, XEnd: 3, YBegin: 0, YEnd: 8, ZBegin: 0, ZEnd: 1, ChBegin: 0, ChEnd: 1}
	bands := collectBands(t, roi, WithThreads(4))
	if len(bands) != 1 {
		t.Fatalf("got %d invocations, want 1", len(bands))
	}
	if bands[0].NPixels() != 0 {
		t.Errorf("degenerate region was reshaped: %v", bands[0])
	}
}

func TestForEachRegionSquare(t *testing.T) {
	// 1024x1024 with 8 threads: a square region splits along y into eight
	// 128-row bands.
	roi := NewROI(0, 1024, 0, 1024, 3)
	bands := collectBands(t, roi, WithThreads(8))
	if len(bands) != 8 {
		t.Fatalf("got %d bands, want 8", len(bands))
	}
	for _, b := range bands {
		if got := b.Height(); got != 128 {
			t.Errorf("band %v has height %d, want 128", b, got)
		}
		if b.XBegin != roi.XBegin || b.XEnd != roi.XEnd {
			t.Errorf("band %v was split along x, want y", b)
		}
	}
	checkCoverage(t, roi, bands, SplitY)
}

func TestForEachRegionWideSplitsAlongX(t *testing.T) {
	roi := NewROI(0, 1024, 0, 200, 3)
	bands := collectBands(t, roi, WithThreads(4))
	if len(bands) != 4 {
		t.Fatalf("got %d bands, want 4", len(bands))
	}
	checkCoverage(t, roi, bands, SplitX)
}

func TestForEachRegionDensityCap(t *testing.T) {
	// 100x100 = 10000 pixels: under one band's worth of work, so the
	// thread hint is ignored entirely.
	roi := NewROI(0, 100, 0, 100, 3)
	bands := collectBands(t, roi, WithThreads(8))
	if len(bands) != 1 {
		t.Fatalf("got %d bands, want 1", len(bands))
	}

	// 300x300 = 90000 pixels supports ceil-free 1+90000/16384 = 6 bands;
	// a hint of 4 keeps it at 4.
	roi = NewROI(0, 300, 0, 300, 3)
	bands = collectBands(t, roi, WithThreads(4))
	if len(bands) != 4 {
		t.Fatalf("got %d bands, want 4", len(bands))
	}
	checkCoverage(t, roi, bands, SplitY)
}

func TestForEachRegionAxisExtentCap(t *testing.T) {
	// A tall sliver of 3 columns split along x can yield at most 3 bands
	// no matter the hint.
	roi := NewROI(0, 3, 0, 65536, 1)
	bands := collectBands(t, roi, WithThreads(16), WithSplitDir(SplitX))
	if len(bands) != 3 {
		t.Fatalf("got %d bands, want 3", len(bands))
	}
	checkCoverage(t, roi, bands, SplitX)
}

func TestForEachRegionSplitZ(t *testing.T) {
	roi := ROI{XBegin: 0, XEnd: 64, YBegin: 0, YEnd: 64, ZBegin: 0, ZEnd: 16, ChBegin: 0, ChEnd: 1}
	bands := collectBands(t, roi, WithThreads(4), WithSplitDir(SplitZ))
	if len(bands) != 4 {
		t.Fatalf("got %d bands, want 4", len(bands))
	}
	for _, b := range bands {
		if b.Depth() != 4 {
			t.Errorf("band %v has depth %d, want 4", b, b.Depth())
		}
	}
	checkCoverage(t, roi, bands, SplitZ)
}

func TestForEachRegionDefaultThreads(t *testing.T) {
	SetThreads(2)
	t.Cleanup(func() { SetThreads(0) })

	roi := NewROI(0, 512, 0, 512, 3)
	bands := collectBands(t, roi)
	if len(bands) != 2 {
		t.Fatalf("got %d bands, want 2 from the process-wide setting", len(bands))
	}
	checkCoverage(t, roi, bands, SplitY)
}

func TestSplitBandsUnevenExtent(t *testing.T) {
	// 10 rows into 4 bands: ceil block of 3 gives bands of 3,3,3,1.
	roi := NewROI(0, 8, 0, 10, 1)
	bands := splitBands(roi, 4, SplitY)
	if len(bands) != 4 {
		t.Fatalf("got %d bands, want 4", len(bands))
	}
	heights := make([]int, len(bands))
	for i, b := range bands {
		heights[i] = b.Height()
	}
	want := []int{3, 3, 3, 1}
	for i := range want {
		if heights[i] != want[i] {
			t.Errorf("band heights = %v, want %v", heights, want)
			break
		}
	}
	checkCoverage(t, roi, bands, SplitY)
}
