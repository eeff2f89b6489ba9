package pix

// OpFunc is one type specialization of a single-operand image operation
// writing into dst. Operation-specific arguments are captured by closure.
// It reports success; failure detail belongs on dst's error state.
type OpFunc func(dst *ImageBuf, roi ROI) bool

// OpFunc2 is one specialization of an operation with a destination and one
// source operand.
type OpFunc2 func(dst, a *ImageBuf, roi ROI) bool

// OpFunc3 is one specialization of an operation with a destination and two
// source operands.
type OpFunc3 func(dst, a, b *ImageBuf, roi ROI) bool

// commonPixelType reports whether t is one of the formats every
// common-type dispatch table carries natively. All other formats reach the
// float specialization through conversion.
func commonPixelType(t TypeDesc) bool {
	switch t {
	case TypeFloat, TypeUInt8, TypeHalf, TypeUInt16:
		return true
	}
	return false
}

// Dispatch routes a single-operand operation to the specialization matching
// a runtime type descriptor. It is the exhaustive policy: every format the
// operation supports has its own table entry, and a descriptor matching no
// entry is a hard failure recorded on the destination. Use this for
// operations that must behave bit-identically for every supported format.
//
// A Dispatch is immutable after construction and safe for concurrent use.
type Dispatch struct {
	name  string
	impls map[TypeDesc]OpFunc
}

// NewDispatch builds an exhaustive dispatch table. name appears in error
// messages for unsupported formats.
func NewDispatch(name string, impls map[TypeDesc]OpFunc) *Dispatch {
	d := &Dispatch{name: name, impls: make(map[TypeDesc]OpFunc, len(impls))}
	for t, f := range impls {
		d.impls[t] = f
	}
	return d
}

// Name returns the operation name the table was built with.
func (d *Dispatch) Name() string { return d.name }

// Run invokes the specialization for t on dst. A missing specialization
// records an error naming the operation and the format and returns false.
func (d *Dispatch) Run(t TypeDesc, dst *ImageBuf, roi ROI) bool {
	f, ok := d.impls[t]
	if !ok {
		dst.SetError("%s: unsupported pixel data format %q", d.name, t)
		return false
	}
	return f(dst, roi)
}

// Dispatch2 is the exhaustive policy over two type axes: the destination
// format and one source format. The table holds the cross product of
// supported combinations.
type Dispatch2 struct {
	name  string
	impls map[[2]TypeDesc]OpFunc2
}

// NewDispatch2 builds an exhaustive two-axis dispatch table keyed by
// {destination format, source format}.
func NewDispatch2(name string, impls map[[2]TypeDesc]OpFunc2) *Dispatch2 {
	d := &Dispatch2{name: name, impls: make(map[[2]TypeDesc]OpFunc2, len(impls))}
	for k, f := range impls {
		d.impls[k] = f
	}
	return d
}

// Name returns the operation name the table was built with.
func (d *Dispatch2) Name() string { return d.name }

// Run invokes the specialization for the {rt, at} pair on dst and a. When
// the pair is missing, the recorded error names whichever axis has no
// support at all, mirroring a nested type switch.
func (d *Dispatch2) Run(rt, at TypeDesc, dst, a *ImageBuf, roi ROI) bool {
	if f, ok := d.impls[[2]TypeDesc{rt, at}]; ok {
		return f(dst, a, roi)
	}
	outer := false
	for k := range d.impls {
		if k[0] == rt {
			outer = true
			break
		}
	}
	if !outer {
		dst.SetError("%s: unsupported pixel data format %q", d.name, rt)
	} else {
		dst.SetError("%s: unsupported pixel data format %q", d.name, at)
	}
	return false
}

// Dispatch3 is the exhaustive policy over three type axes: the destination
// format and two source formats.
type Dispatch3 struct {
	name  string
	impls map[[3]TypeDesc]OpFunc3
}

// NewDispatch3 builds an exhaustive three-axis dispatch table keyed by
// {destination format, first source format, second source format}.
func NewDispatch3(name string, impls map[[3]TypeDesc]OpFunc3) *Dispatch3 {
	d := &Dispatch3{name: name, impls: make(map[[3]TypeDesc]OpFunc3, len(impls))}
	for k, f := range impls {
		d.impls[k] = f
	}
	return d
}

// Name returns the operation name the table was built with.
func (d *Dispatch3) Name() string { return d.name }

// Run invokes the specialization for the {rt, at, bt} triple on dst, a, and
// b. A missing triple records an error naming the operation and all three
// formats.
func (d *Dispatch3) Run(rt, at, bt TypeDesc, dst, a, b *ImageBuf, roi ROI) bool {
	f, ok := d.impls[[3]TypeDesc{rt, at, bt}]
	if !ok {
		dst.SetError("%s: unsupported pixel data format %q/%q/%q", d.name, rt, at, bt)
		return false
	}
	return f(dst, a, b, roi)
}

// CommonDispatch routes a single-operand operation with the common-type
// policy: the table carries specializations only for the frequently used
// formats (float, uint8, half, uint16 — see commonPixelType), and any other
// destination format is handled by running the float specialization on a
// float copy and converting the result back to the original storage format.
//
// The fallback never fails because of the format itself; it fails only if
// the float specialization fails, and then the underlying error message is
// forwarded verbatim to the destination.
type CommonDispatch struct {
	name  string
	impls map[TypeDesc]OpFunc
}

// NewCommonDispatch builds a common-type dispatch table. The TypeFloat
// entry is mandatory: it is both a direct specialization and the fallback
// target for every format outside the common set.
func NewCommonDispatch(name string, impls map[TypeDesc]OpFunc) *CommonDispatch {
	d := &CommonDispatch{name: name, impls: make(map[TypeDesc]OpFunc, len(impls))}
	for t, f := range impls {
		d.impls[t] = f
	}
	return d
}

// Name returns the operation name the table was built with.
func (d *CommonDispatch) Name() string { return d.name }

// Run invokes the specialization for t on dst, falling back through the
// float pipeline for formats outside the table.
func (d *CommonDispatch) Run(t TypeDesc, dst *ImageBuf, roi ROI) bool {
	if f, ok := d.impls[t]; ok {
		return f(dst, roi)
	}
	f, ok := d.impls[TypeFloat]
	if !ok {
		dst.SetError("%s: no float specialization registered", d.name)
		return false
	}

	// Punt: run in float working space, then convert back.
	var tmp ImageBuf
	if dst.Initialized() {
		if !tmp.Copy(dst, TypeFloat) {
			dst.SetError("%s", tmp.Error())
			return false
		}
	}
	if !f(&tmp, roi) {
		if msg := tmp.Error(); msg != "" {
			dst.SetError("%s", msg)
		} else {
			dst.SetError("%s: operation failed", d.name)
		}
		return false
	}
	return dst.Copy(&tmp, TypeUnknown)
}

// CommonDispatch2 is the common-type policy over two type axes
// (destination, one source). Each axis falls back to float independently:
// an uncommon source is converted to a float copy before the call, an
// uncommon destination runs through a float temporary and is converted back
// afterwards.
type CommonDispatch2 struct {
	name  string
	impls map[[2]TypeDesc]OpFunc2
}

// NewCommonDispatch2 builds a two-axis common-type table. It should carry
// the full cross product of the common formats; the {TypeFloat, TypeFloat}
// entry is the ultimate fallback.
func NewCommonDispatch2(name string, impls map[[2]TypeDesc]OpFunc2) *CommonDispatch2 {
	d := &CommonDispatch2{name: name, impls: make(map[[2]TypeDesc]OpFunc2, len(impls))}
	for k, f := range impls {
		d.impls[k] = f
	}
	return d
}

// Name returns the operation name the table was built with.
func (d *CommonDispatch2) Name() string { return d.name }

// Run invokes the specialization for the {rt, at} pair on dst and a,
// falling back through float on either axis as needed.
func (d *CommonDispatch2) Run(rt, at TypeDesc, dst, a *ImageBuf, roi ROI) bool {
	aUse, atUse := a, at
	var atmp ImageBuf
	if !commonPixelType(at) {
		if !atmp.Copy(a, TypeFloat) {
			dst.SetError("%s", atmp.Error())
			return false
		}
		aUse, atUse = &atmp, TypeFloat
	}

	if commonPixelType(rt) {
		f, ok := d.impls[[2]TypeDesc{rt, atUse}]
		if !ok {
			dst.SetError("%s: unsupported pixel data format %q", d.name, atUse)
			return false
		}
		return f(dst, aUse, roi)
	}

	f, ok := d.impls[[2]TypeDesc{TypeFloat, atUse}]
	if !ok {
		dst.SetError("%s: unsupported pixel data format %q", d.name, atUse)
		return false
	}
	var tmp ImageBuf
	if dst.Initialized() {
		if !tmp.Copy(dst, TypeFloat) {
			dst.SetError("%s", tmp.Error())
			return false
		}
	}
	if !f(&tmp, aUse, roi) {
		if msg := tmp.Error(); msg != "" {
			dst.SetError("%s", msg)
		} else {
			dst.SetError("%s: operation failed", d.name)
		}
		return false
	}
	return dst.Copy(&tmp, TypeUnknown)
}

// CommonDispatch3 is the common-type policy over three type axes
// (destination, two sources), with per-axis float fallback as in
// CommonDispatch2.
type CommonDispatch3 struct {
	name  string
	impls map[[3]TypeDesc]OpFunc3
}

// NewCommonDispatch3 builds a three-axis common-type table keyed by
// {destination format, first source format, second source format}.
func NewCommonDispatch3(name string, impls map[[3]TypeDesc]OpFunc3) *CommonDispatch3 {
	d := &CommonDispatch3{name: name, impls: make(map[[3]TypeDesc]OpFunc3, len(impls))}
	for k, f := range impls {
		d.impls[k] = f
	}
	return d
}

// Name returns the operation name the table was built with.
func (d *CommonDispatch3) Name() string { return d.name }

// Run invokes the specialization for the {rt, at, bt} triple on dst, a,
// and b, falling back through float on any axis as needed.
func (d *CommonDispatch3) Run(rt, at, bt TypeDesc, dst, a, b *ImageBuf, roi ROI) bool {
	aUse, atUse := a, at
	var atmp ImageBuf
	if !commonPixelType(at) {
		if !atmp.Copy(a, TypeFloat) {
			dst.SetError("%s", atmp.Error())
			return false
		}
		aUse, atUse = &atmp, TypeFloat
	}
	bUse, btUse := b, bt
	var btmp ImageBuf
	if !commonPixelType(bt) {
		if !btmp.Copy(b, TypeFloat) {
			dst.SetError("%s", btmp.Error())
			return false
		}
		bUse, btUse = &btmp, TypeFloat
	}

	if commonPixelType(rt) {
		f, ok := d.impls[[3]TypeDesc{rt, atUse, btUse}]
		if !ok {
			dst.SetError("%s: unsupported pixel data format %q/%q/%q",
				d.name, rt, atUse, btUse)
			return false
		}
		return f(dst, aUse, bUse, roi)
	}

	f, ok := d.impls[[3]TypeDesc{TypeFloat, atUse, btUse}]
	if !ok {
		dst.SetError("%s: unsupported pixel data format %q/%q/%q",
			d.name, TypeFloat, atUse, btUse)
		return false
	}
	var tmp ImageBuf
	if dst.Initialized() {
		if !tmp.Copy(dst, TypeFloat) {
			dst.SetError("%s", tmp.Error())
			return false
		}
	}
	if !f(&tmp, aUse, bUse, roi) {
		if msg := tmp.Error(); msg != "" {
			dst.SetError("%s", msg)
		} else {
			dst.SetError("%s: operation failed", d.name)
		}
		return false
	}
	return dst.Copy(&tmp, TypeUnknown)
}
