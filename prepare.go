package pix

// PrepFlags is a bit set of orthogonal preparation policies. Flags compose
// with bitwise OR; the zero value requires nothing special and copies all
// safe metadata.
type PrepFlags uint32

const (
	// PrepDefault performs no special requirement.
	PrepDefault PrepFlags = 0

	// RequireAlpha fails preparation unless every image involved carries
	// an alpha channel.
	RequireAlpha PrepFlags = 1 << 0

	// RequireZ fails preparation unless every image involved carries a
	// depth ("Z") channel.
	RequireZ PrepFlags = 1 << 1

	// RequireSameNChannels fails preparation unless all present images
	// agree on channel count.
	RequireSameNChannels PrepFlags = 1 << 2

	// NoCopyROIFull keeps a freshly allocated destination's full window
	// equal to its data window instead of adopting the union of the
	// sources' full windows.
	NoCopyROIFull PrepFlags = 1 << 3

	// NoSupportVolume rejects volumetric (depth > 1) regions.
	NoSupportVolume PrepFlags = 1 << 4

	// NoCopyMetadata suppresses metadata propagation entirely.
	NoCopyMetadata PrepFlags = 1 << 8

	// CopyAllMetadata also propagates structural metadata that is
	// normally dropped (compression, tiling, and similar).
	CopyAllMetadata PrepFlags = 1 << 9

	// ClampMutualNChannels clamps the working region's channel range to
	// the smallest channel count among the images involved.
	ClampMutualNChannels PrepFlags = 1 << 10

	// SupportDeep allows deep (variable-sample-count) images.
	SupportDeep PrepFlags = 1 << 11

	// DeepMixed additionally allows mixing deep and non-deep images.
	// Only meaningful together with SupportDeep.
	DeepMixed PrepFlags = 1 << 12

	// DstFloatPixels forces an uninitialized destination to float
	// storage regardless of the sources' formats.
	DstFloatPixels PrepFlags = 1 << 13

	// MinimizeNChannels gives a freshly allocated destination the
	// minimum channel count among the sources instead of the first
	// source's count, and intersects the working channel range
	// accordingly.
	MinimizeNChannels PrepFlags = 1 << 14
)

// Prepare validates inputs and readies dst for an image operation over up
// to three source buffers, resolving the working region into *roi. It is
// PrepareWithSpec without a forced destination spec.
func Prepare(roi *ROI, dst *ImageBuf, flags PrepFlags, srcs ...*ImageBuf) bool {
	return PrepareWithSpec(roi, dst, nil, flags, srcs...)
}

// PrepareWithSpec is the common preparation step run before an image
// operation:
//
//   - Sources that are present but uninitialized or carrying an error fail
//     preparation immediately.
//   - A *roi equal to the ROIAll sentinel is resolved from dst's region
//     when dst is initialized, otherwise from the union of the sources'
//     regions (channel range intersected under MinimizeNChannels).
//   - An uninitialized dst is allocated: from force when given, else from
//     the first source's spec with the data window set to the working
//     region, the full window set to the union of the sources' full
//     windows (unless NoCopyROIFull), and metadata propagated from the
//     first source subject to NoCopyMetadata / CopyAllMetadata.
//   - An initialized dst keeps its own spec, full window included.
//   - Structural requirements encoded in flags are enforced; any violation
//     fails with a message recorded on dst, and a dst that was
//     uninitialized on entry is left untouched.
//
// nil entries in srcs are permitted and ignored, so callers with optional
// operands can pass them positionally.
func PrepareWithSpec(roi *ROI, dst *ImageBuf, force *ImageSpec, flags PrepFlags, srcs ...*ImageBuf) bool {
	if roi == nil || dst == nil {
		return false
	}
	if len(srcs) > 3 {
		dst.SetError("pix: prepare accepts at most three source images")
		return false
	}
	inputs := make([]*ImageBuf, 0, len(srcs))
	for _, s := range srcs {
		if s == nil {
			continue
		}
		if !s.Initialized() {
			dst.SetError("pix: prepare: uninitialized source image")
			return false
		}
		if s.HasError() {
			dst.SetError("%s", s.Error())
			return false
		}
		inputs = append(inputs, s)
	}

	r := *roi
	if !r.Defined() {
		switch {
		case dst.Initialized():
			r = dst.spec.ROI()
		case len(inputs) > 0:
			r = inputs[0].spec.ROI()
			for _, s := range inputs[1:] {
				r = Union(r, s.spec.ROI())
			}
			if flags&MinimizeNChannels != 0 {
				for _, s := range inputs {
					r.ChEnd = min(r.ChEnd, s.spec.NChannels)
				}
			}
		case force != nil:
			r = force.ROI()
		default:
			dst.SetError("pix: prepare: no destination, source, or spec to take the region from")
			return false
		}
	}

	// Work out what dst's spec will be, without touching dst yet, so a
	// failed structural check leaves an uninitialized dst untouched.
	spec := dst.spec
	if !dst.Initialized() {
		switch {
		case force != nil:
			spec = force.Clone()
		case len(inputs) > 0:
			spec = inputs[0].spec.Clone()
		default:
			spec = SpecFromROI(r, TypeFloat)
		}
		spec.SetROI(r)
		full := r
		if flags&NoCopyROIFull == 0 && len(inputs) > 0 {
			full = inputs[0].spec.FullROI()
			for _, s := range inputs[1:] {
				full = Union(full, s.spec.FullROI())
			}
		}
		spec.SetFullROI(full)
		if flags&DstFloatPixels != 0 {
			spec.Format = TypeFloat
		}
		if flags&MinimizeNChannels != 0 {
			for _, s := range inputs {
				if s.spec.NChannels < spec.NChannels {
					spec.NChannels = s.spec.NChannels
				}
			}
			if len(spec.ChannelNames) > spec.NChannels {
				spec.ChannelNames = spec.ChannelNames[:spec.NChannels]
			}
			if spec.AlphaChannel >= spec.NChannels {
				spec.AlphaChannel = -1
			}
			if spec.ZChannel >= spec.NChannels {
				spec.ZChannel = -1
			}
		}
		switch {
		case flags&NoCopyMetadata != 0:
			spec.Metadata = nil
		case len(inputs) > 0:
			spec.CopyMetadata(&inputs[0].spec, flags&CopyAllMetadata != 0)
		}
	}

	if !checkStructure(dst, &spec, inputs, r, flags) {
		return false
	}

	if !dst.Initialized() {
		dst.Alloc(spec)
	}

	// Clamp the working channel range to what is actually there.
	if flags&ClampMutualNChannels != 0 {
		for _, s := range inputs {
			r.ChEnd = min(r.ChEnd, s.spec.NChannels)
		}
	}
	r.ChEnd = min(r.ChEnd, dst.spec.NChannels)
	r.ChBegin = max(r.ChBegin, 0)
	*roi = r
	return true
}

// checkStructure enforces the flag-encoded structural requirements against
// the destination spec (actual or about to be allocated) and the sources.
// Violations are recorded on dst.
func checkStructure(dst *ImageBuf, spec *ImageSpec, inputs []*ImageBuf, r ROI, flags PrepFlags) bool {
	if flags&RequireSameNChannels != 0 {
		for _, s := range inputs {
			if s.spec.NChannels != spec.NChannels {
				dst.SetError("pix: prepare: images must have the same number of channels (%d vs %d)",
					spec.NChannels, s.spec.NChannels)
				return false
			}
		}
	}
	if flags&RequireAlpha != 0 {
		if !spec.HasAlpha() {
			dst.SetError("pix: prepare: operation requires an alpha channel")
			return false
		}
		for _, s := range inputs {
			if !s.spec.HasAlpha() {
				dst.SetError("pix: prepare: operation requires an alpha channel")
				return false
			}
		}
	}
	if flags&RequireZ != 0 {
		if !spec.HasZ() {
			dst.SetError("pix: prepare: operation requires a z channel")
			return false
		}
		for _, s := range inputs {
			if !s.spec.HasZ() {
				dst.SetError("pix: prepare: operation requires a z channel")
				return false
			}
		}
	}
	if flags&NoSupportVolume != 0 {
		volume := spec.IsVolume() || r.Depth() > 1
		for _, s := range inputs {
			volume = volume || s.spec.IsVolume()
		}
		if volume {
			dst.SetError("pix: prepare: volumes not supported by this operation")
			return false
		}
	}

	anyDeep := spec.Deep
	allDeep := spec.Deep
	for _, s := range inputs {
		anyDeep = anyDeep || s.spec.Deep
		allDeep = allDeep && s.spec.Deep
	}
	if anyDeep {
		if flags&SupportDeep == 0 {
			dst.SetError("pix: prepare: deep data not supported by this operation")
			return false
		}
		if !allDeep && flags&DeepMixed == 0 {
			dst.SetError("pix: prepare: mixed deep and non-deep images not supported")
			return false
		}
	}
	return true
}
