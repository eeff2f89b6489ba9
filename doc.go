// Package pix provides the shared machinery under pixel-processing
// algorithms: splitting a rectangular or volumetric region of interest
// across worker goroutines, preparing destination buffers from their
// sources, and routing an operation to a type-specialized implementation
// chosen from the runtime pixel format.
//
// # Overview
//
// Image algorithms built on pix all follow the same shape: call Prepare to
// validate sources, resolve the working region, and allocate the
// destination; pick the per-format implementation through a Dispatch or
// CommonDispatch table; and run it over the region with ForEachRegion,
// which fans the work out in disjoint bands and joins before returning.
//
//	var dst pix.ImageBuf
//	roi := pix.ROIAll()
//	if !pix.Prepare(&roi, &dst, pix.RequireSameNChannels, srcA, srcB) {
//	    return errors.New(dst.Error())
//	}
//	pix.ForEachRegion(func(band pix.ROI) {
//	    // write only inside band
//	}, roi)
//
// # Errors
//
// Nothing in this package panics or returns an error value on the hot
// path. Fallible calls report a bool and record a human-readable message
// on the destination buffer (ImageBuf.Error); ForEachRegion itself cannot
// fail, so a failing band writes its message to the destination and the
// caller checks it after the join.
//
// # Concurrency
//
// ForEachRegion hands each invocation a band that is disjoint from every
// other band's. Callables that confine writes to their band need no
// further synchronization; the package takes no locks on their behalf.
package pix
