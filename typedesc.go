package pix

import "fmt"

// TypeDesc identifies the numeric storage representation of one pixel
// component (sample). It is a runtime tag: image buffers carry a TypeDesc in
// their spec, and operations select a type-specialized implementation from
// it (see Dispatch and CommonDispatch).
type TypeDesc uint8

// Supported component storage types.
const (
	TypeUnknown TypeDesc = iota
	TypeUInt8
	TypeInt8
	TypeUInt16
	TypeInt16
	TypeUInt32
	TypeInt32
	TypeHalf // IEEE 754 binary16
	TypeFloat
	TypeDouble
)

var typeSizes = [...]int{
	TypeUnknown: 0,
	TypeUInt8:   1,
	TypeInt8:    1,
	TypeUInt16:  2,
	TypeInt16:   2,
	TypeUInt32:  4,
	TypeInt32:   4,
	TypeHalf:    2,
	TypeFloat:   4,
	TypeDouble:  8,
}

var typeNames = [...]string{
	TypeUnknown: "unknown",
	TypeUInt8:   "uint8",
	TypeInt8:    "int8",
	TypeUInt16:  "uint16",
	TypeInt16:   "int16",
	TypeUInt32:  "uint32",
	TypeInt32:   "int32",
	TypeHalf:    "half",
	TypeFloat:   "float",
	TypeDouble:  "double",
}

// Size returns the storage size of one sample in bytes.
func (t TypeDesc) Size() int {
	if int(t) >= len(typeSizes) {
		return 0
	}
	return typeSizes[t]
}

// IsFloat reports whether t is a floating-point representation.
func (t TypeDesc) IsFloat() bool {
	return t == TypeHalf || t == TypeFloat || t == TypeDouble
}

// Valid reports whether t names one of the supported storage types.
func (t TypeDesc) Valid() bool {
	return t > TypeUnknown && t <= TypeDouble
}

func (t TypeDesc) String() string {
	if int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// ParseTypeDesc maps a type name like "uint16" or "half" back to its
// descriptor. Unrecognized names return TypeUnknown and an error.
func ParseTypeDesc(s string) (TypeDesc, error) {
	for t, name := range typeNames {
		if TypeDesc(t) != TypeUnknown && name == s {
			return TypeDesc(t), nil
		}
	}
	return TypeUnknown, fmt.Errorf("pix: unknown pixel data format %q", s)
}

// Merge returns the narrowest type able to represent values of both a and b
// without loss of range or precision. Merging with TypeUnknown returns the
// other type. Combinations with no lossless integer answer (signed with
// unsigned of equal width, half with any integer) promote to TypeFloat.
//
// Merge is commutative. Three-way promotion is Merge3, which applies the
// pairwise rule left-associatively.
func Merge(a, b TypeDesc) TypeDesc {
	if a == b {
		return a
	}
	if a == TypeUnknown {
		return b
	}
	if b == TypeUnknown {
		return a
	}
	// Canonicalize so that a is at least as wide as b.
	if a.Size() < b.Size() {
		a, b = b, a
	}
	// A wide float absorbs anything narrower.
	if a == TypeDouble || a == TypeFloat {
		return a
	}
	switch a {
	case TypeUInt32:
		if b == TypeUInt16 || b == TypeUInt8 {
			return a
		}
	case TypeInt32:
		if b == TypeInt16 || b == TypeUInt16 || b == TypeInt8 || b == TypeUInt8 {
			return a
		}
	case TypeUInt16:
		if b == TypeUInt8 {
			return a
		}
	case TypeInt16:
		if b == TypeInt8 || b == TypeUInt8 {
			return a
		}
	}
	// No lossless integer representation exists; punt to float.
	return TypeFloat
}

// Merge3 returns the common type for three operands: Merge applied twice,
// left-associatively.
func Merge3(a, b, c TypeDesc) TypeDesc {
	return Merge(Merge(a, b), c)
}
