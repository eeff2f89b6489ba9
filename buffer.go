package pix

import (
	"fmt"
	"sync"

	"github.com/quarterpixel/pix/internal/pixel"
)

// ImageBuf is a pixel container: an ImageSpec plus flat sample storage.
// Buffers are owned by the caller for the lifetime of many operations; the
// library allocates storage only inside explicit calls (NewImageBuf, Alloc,
// Copy, Prepare) and never frees or reallocates on its own.
//
// Fallible operations never panic. They return false and record a
// human-readable message on the buffer, which the caller inspects with
// Error / HasError.
//
// Thread safety: the error state is guarded so concurrent bands of a
// parallel operation may each call SetError. Pixel accessors are not
// synchronized; disjoint-region writers are safe by construction, anything
// else needs caller-side coordination.
type ImageBuf struct {
	spec        ImageSpec
	pixels      []byte
	initialized bool

	errMu sync.Mutex
	err   string
}

// NewImageBuf returns a buffer with allocated storage for spec.
func NewImageBuf(spec ImageSpec) *ImageBuf {
	b := &ImageBuf{}
	b.Alloc(spec)
	return b
}

// Initialized reports whether the buffer has a spec and allocated storage.
func (b *ImageBuf) Initialized() bool {
	return b != nil && b.initialized
}

// Spec returns a copy of the buffer's spec. The Metadata map and channel
// names are shared; use Clone on the result before mutating them.
func (b *ImageBuf) Spec() ImageSpec {
	return b.spec
}

// Alloc sets the buffer's spec and allocates zeroed pixel storage for it,
// discarding any previous contents and clearing the error state.
func (b *ImageBuf) Alloc(spec ImageSpec) {
	b.spec = spec
	b.pixels = make([]byte, spec.ImageBytes())
	b.initialized = true
	b.ClearError()
}

// Reset returns the buffer to the uninitialized state, releasing its
// storage reference.
func (b *ImageBuf) Reset() {
	b.spec = ImageSpec{}
	b.pixels = nil
	b.initialized = false
	b.ClearError()
}

// Pixels exposes the raw sample storage: native-width samples, multi-byte
// values little-endian, channels interleaved, rows then slices in order.
func (b *ImageBuf) Pixels() []byte {
	return b.pixels
}

// SetError records a formatted error message on the buffer. The most recent
// message wins.
func (b *ImageBuf) SetError(format string, args ...any) {
	b.errMu.Lock()
	b.err = fmt.Sprintf(format, args...)
	b.errMu.Unlock()
}

// Error returns the recorded error message, or "" if none.
func (b *ImageBuf) Error() string {
	b.errMu.Lock()
	defer b.errMu.Unlock()
	return b.err
}

// HasError reports whether an error message is recorded.
func (b *ImageBuf) HasError() bool {
	return b.Error() != ""
}

// ClearError discards any recorded error message.
func (b *ImageBuf) ClearError() {
	b.errMu.Lock()
	b.err = ""
	b.errMu.Unlock()
}

// codecFor maps a storage format to its sample codec.
func codecFor(t TypeDesc) pixel.Codec {
	switch t {
	case TypeUInt8:
		return pixel.UInt8
	case TypeInt8:
		return pixel.Int8
	case TypeUInt16:
		return pixel.UInt16
	case TypeInt16:
		return pixel.Int16
	case TypeUInt32:
		return pixel.UInt32
	case TypeInt32:
		return pixel.Int32
	case TypeHalf:
		return pixel.Half
	case TypeFloat:
		return pixel.Float
	case TypeDouble:
		return pixel.Double
	}
	return pixel.Codec{}
}

// sampleIndex returns the flat sample index of (x, y, z, ch), or -1 when
// the coordinate lies outside the data window or channel range.
func (b *ImageBuf) sampleIndex(x, y, z, ch int) int {
	s := &b.spec
	x -= s.X
	y -= s.Y
	z -= s.Z
	if x < 0 || x >= s.Width || y < 0 || y >= s.Height || z < 0 || z >= s.Depth ||
		ch < 0 || ch >= s.NChannels {
		return -1
	}
	return (((z*s.Height)+y)*s.Width+x)*s.NChannels + ch
}

// GetFloat returns the sample at (x, y, z, ch) converted to the float32
// working space (integer formats normalized). Coordinates outside the data
// window return 0.
func (b *ImageBuf) GetFloat(x, y, z, ch int) float32 {
	if !b.Initialized() {
		return 0
	}
	i := b.sampleIndex(x, y, z, ch)
	if i < 0 {
		return 0
	}
	return codecFor(b.spec.Format).At(b.pixels, i)
}

// SetFloat stores a float32 working value at (x, y, z, ch), converting and
// clamping to the buffer's storage format. Writes outside the data window
// are dropped.
func (b *ImageBuf) SetFloat(x, y, z, ch int, v float32) {
	if !b.Initialized() {
		return
	}
	i := b.sampleIndex(x, y, z, ch)
	if i < 0 {
		return
	}
	codecFor(b.spec.Format).Set(b.pixels, i, v)
}

// Copy reallocates b as a copy of src, converting every sample through the
// float32 working space into the requested format. A format of TypeUnknown
// means "keep b's current format if initialized, otherwise src's" — this is
// the convert-back half of the common-type dispatch fallback. Metadata and
// channel names are deep-copied from src.
//
// Copy reports success; failures (nil or uninitialized src, unsupported
// format) are recorded on b.
func (b *ImageBuf) Copy(src *ImageBuf, format TypeDesc) bool {
	if src == nil || !src.Initialized() {
		b.SetError("pix: copy from uninitialized image")
		return false
	}
	if format == TypeUnknown {
		if b.Initialized() {
			format = b.spec.Format
		} else {
			format = src.spec.Format
		}
	}
	if !format.Valid() {
		b.SetError("pix: copy to unsupported pixel data format %q", format)
		return false
	}

	spec := src.spec.Clone()
	spec.Format = format
	if src == b && format == src.spec.Format {
		return true
	}

	from := codecFor(src.spec.Format)
	to := codecFor(format)
	n := int(spec.ImageBytes()) / format.Size()
	out := make([]byte, spec.ImageBytes())
	for i := 0; i < n; i++ {
		to.Set(out, i, from.At(src.pixels, i))
	}
	b.spec = spec
	b.pixels = out
	b.initialized = true
	return true
}
