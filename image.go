package pix

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// FromImage converts img into a freshly allocated four-channel (RGBA)
// buffer with the given storage format. The source is first normalized to
// 8-bit RGBA, so formats wider than uint8 gain no precision; FromImage is
// a bridge for callers starting from the standard image types, not a
// high-fidelity decoder.
func FromImage(img image.Image, format TypeDesc) *ImageBuf {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Copy(rgba, image.Point{}, img, bounds, xdraw.Src, nil)

	buf := NewImageBuf(NewImageSpec(w, h, 4, format))
	for y := 0; y < h; y++ {
		row := rgba.Pix[y*rgba.Stride:]
		for x := 0; x < w; x++ {
			for c := 0; c < 4; c++ {
				buf.SetFloat(x, y, 0, c, float32(row[x*4+c])/255)
			}
		}
	}
	return buf
}

// ToImage renders the first z slice of the buffer's data window as an
// 8-bit RGBA image. Channels beyond the first four are dropped; a missing
// alpha channel renders opaque. An uninitialized buffer yields nil.
func (b *ImageBuf) ToImage() *image.RGBA {
	if !b.Initialized() {
		return nil
	}
	s := b.Spec()
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	nch := min(s.NChannels, 4)
	for y := 0; y < s.Height; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < s.Width; x++ {
			for c := 0; c < 4; c++ {
				v := float32(0)
				switch {
				case c < nch:
					v = b.GetFloat(s.X+x, s.Y+y, s.Z, c)
				case c == 3:
					v = 1
				}
				row[x*4+c] = byte(clamp01(v)*255 + 0.5)
			}
		}
	}
	return img
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
