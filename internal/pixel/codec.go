// Package pixel converts between raw sample storage and float32 working
// values. Each supported storage representation has a Codec that reads and
// writes one sample at a time; multi-byte samples are stored little-endian.
//
// Integer representations are normalized: unsigned types map their full
// range onto [0, 1], signed types map onto [-1, 1]. Floating types pass
// through (half via github.com/ajroetker/go-highway).
package pixel

import (
	"encoding/binary"
	"math"

	"github.com/ajroetker/go-highway/hwy"
)

// Codec reads and writes one sample of a fixed storage representation.
// The index i counts samples, not bytes.
type Codec struct {
	// Size is the storage size of one sample in bytes.
	Size int

	// At returns sample i of b as a float32 working value.
	At func(b []byte, i int) float32

	// Set stores the working value v as sample i of b, clamping to the
	// representable range of the storage type.
	Set func(b []byte, i int, v float32)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// roundScaled converts a normalized value to an integer code with
// round-half-away-from-zero, matching the usual quantization of image I/O.
func roundScaled(v, scale float32) int64 {
	s := float64(v) * float64(scale)
	if s < 0 {
		return int64(s - 0.5)
	}
	return int64(s + 0.5)
}

// UInt8 is the codec for unsigned 8-bit samples normalized to [0, 1].
var UInt8 = Codec{
	Size: 1,
	At:   func(b []byte, i int) float32 { return float32(b[i]) / 255 },
	Set: func(b []byte, i int, v float32) {
		b[i] = byte(roundScaled(clamp(v, 0, 1), 255))
	},
}

// Int8 is the codec for signed 8-bit samples normalized to [-1, 1].
var Int8 = Codec{
	Size: 1,
	At:   func(b []byte, i int) float32 { return float32(int8(b[i])) / 127 },
	Set: func(b []byte, i int, v float32) {
		b[i] = byte(int8(roundScaled(clamp(v, -1, 1), 127)))
	},
}

// UInt16 is the codec for unsigned 16-bit samples normalized to [0, 1].
var UInt16 = Codec{
	Size: 2,
	At: func(b []byte, i int) float32 {
		return float32(binary.LittleEndian.Uint16(b[i*2:])) / 65535
	},
	Set: func(b []byte, i int, v float32) {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(roundScaled(clamp(v, 0, 1), 65535)))
	},
}

// Int16 is the codec for signed 16-bit samples normalized to [-1, 1].
var Int16 = Codec{
	Size: 2,
	At: func(b []byte, i int) float32 {
		return float32(int16(binary.LittleEndian.Uint16(b[i*2:]))) / 32767
	},
	Set: func(b []byte, i int, v float32) {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(int16(roundScaled(clamp(v, -1, 1), 32767))))
	},
}

// UInt32 is the codec for unsigned 32-bit samples normalized to [0, 1].
var UInt32 = Codec{
	Size: 4,
	At: func(b []byte, i int) float32 {
		return float32(float64(binary.LittleEndian.Uint32(b[i*4:])) / 4294967295)
	},
	Set: func(b []byte, i int, v float32) {
		s := float64(clamp(v, 0, 1)) * 4294967295
		binary.LittleEndian.PutUint32(b[i*4:], uint32(s+0.5))
	},
}

// Int32 is the codec for signed 32-bit samples normalized to [-1, 1].
var Int32 = Codec{
	Size: 4,
	At: func(b []byte, i int) float32 {
		return float32(float64(int32(binary.LittleEndian.Uint32(b[i*4:]))) / 2147483647)
	},
	Set: func(b []byte, i int, v float32) {
		s := float64(clamp(v, -1, 1)) * 2147483647
		if s < 0 {
			s -= 0.5
		} else {
			s += 0.5
		}
		binary.LittleEndian.PutUint32(b[i*4:], uint32(int32(s)))
	},
}

// Half is the codec for IEEE 754 binary16 samples.
var Half = Codec{
	Size: 2,
	At: func(b []byte, i int) float32 {
		return hwy.Float16ToFloat32(hwy.Float16(binary.LittleEndian.Uint16(b[i*2:])))
	},
	Set: func(b []byte, i int, v float32) {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(hwy.Float32ToFloat16(v)))
	},
}

// Float is the codec for 32-bit float samples.
var Float = Codec{
	Size: 4,
	At: func(b []byte, i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	},
	Set: func(b []byte, i int, v float32) {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	},
}

// Double is the codec for 64-bit float samples. Working values are float32,
// so reads narrow and writes widen.
var Double = Codec{
	Size: 8,
	At: func(b []byte, i int) float32 {
		return float32(math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:])))
	},
	Set: func(b []byte, i int, v float32) {
		binary.LittleEndian.PutUint64(b[i*8:], math.Float64bits(float64(v)))
	},
}
