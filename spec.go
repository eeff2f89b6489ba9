package pix

import "fmt"

// ImageSpec describes the shape and layout of an image buffer: its data
// window (the pixels actually stored), its full or "display" window, the
// channel set, and the per-sample storage format. Specs are value types;
// the Metadata map is shallow-shared unless copied with Clone.
type ImageSpec struct {
	// Origin and extents of the data window.
	X, Y, Z              int
	Width, Height, Depth int

	// Origin and extents of the full ("display") window, which may differ
	// from the data window for cropped or padded images.
	FullX, FullY, FullZ              int
	FullWidth, FullHeight, FullDepth int

	NChannels    int
	ChannelNames []string

	// AlphaChannel and ZChannel are channel indexes, or -1 when the image
	// has no such channel.
	AlphaChannel int
	ZChannel     int

	// Format is the storage representation of every sample.
	Format TypeDesc

	// Deep marks variable-sample-count ("deep") pixel data. This core only
	// validates the flag; deep sample storage lives with the owner of the
	// buffer.
	Deep bool

	Metadata map[string]string
}

// NewImageSpec returns a flat 2-D spec with the given size, channel count,
// and format. The full window matches the data window, channel names follow
// the R, G, B, A convention, and an alpha channel is assumed at index 3 when
// four or more channels are present.
func NewImageSpec(width, height, nchannels int, format TypeDesc) ImageSpec {
	s := ImageSpec{
		Width: width, Height: height, Depth: 1,
		FullWidth: width, FullHeight: height, FullDepth: 1,
		NChannels: nchannels,
		Format:    format,
	}
	s.SetDefaultChannels()
	return s
}

// SpecFromROI builds a spec whose data and full windows both equal roi,
// with roi's channel count and the given format.
func SpecFromROI(roi ROI, format TypeDesc) ImageSpec {
	s := ImageSpec{
		X: roi.XBegin, Y: roi.YBegin, Z: roi.ZBegin,
		Width: roi.Width(), Height: roi.Height(), Depth: roi.Depth(),
		FullX: roi.XBegin, FullY: roi.YBegin, FullZ: roi.ZBegin,
		FullWidth: roi.Width(), FullHeight: roi.Height(), FullDepth: roi.Depth(),
		NChannels: roi.ChEnd,
		Format:    format,
	}
	s.SetDefaultChannels()
	return s
}

var defaultChannelNames = []string{"R", "G", "B", "A"}

// SetDefaultChannels fills in conventional channel names and the alpha/z
// channel indexes for the spec's channel count, replacing any existing
// names.
func (s *ImageSpec) SetDefaultChannels() {
	s.ChannelNames = make([]string, s.NChannels)
	s.AlphaChannel = -1
	s.ZChannel = -1
	for i := range s.ChannelNames {
		switch {
		case i < len(defaultChannelNames):
			s.ChannelNames[i] = defaultChannelNames[i]
		default:
			s.ChannelNames[i] = fmt.Sprintf("channel%d", i)
		}
		switch s.ChannelNames[i] {
		case "A":
			s.AlphaChannel = i
		case "Z":
			s.ZChannel = i
		}
	}
}

// ROI returns the spec's data window with the full channel range.
func (s ImageSpec) ROI() ROI {
	return ROI{
		XBegin: s.X, XEnd: s.X + s.Width,
		YBegin: s.Y, YEnd: s.Y + s.Height,
		ZBegin: s.Z, ZEnd: s.Z + s.Depth,
		ChBegin: 0, ChEnd: s.NChannels,
	}
}

// FullROI returns the spec's full (display) window with the full channel
// range.
func (s ImageSpec) FullROI() ROI {
	return ROI{
		XBegin: s.FullX, XEnd: s.FullX + s.FullWidth,
		YBegin: s.FullY, YEnd: s.FullY + s.FullHeight,
		ZBegin: s.FullZ, ZEnd: s.FullZ + s.FullDepth,
		ChBegin: 0, ChEnd: s.NChannels,
	}
}

// SetROI repositions the data window to roi. The channel count is left
// alone; use SpecFromROI to derive channels from a region.
func (s *ImageSpec) SetROI(roi ROI) {
	s.X, s.Y, s.Z = roi.XBegin, roi.YBegin, roi.ZBegin
	s.Width, s.Height, s.Depth = roi.Width(), roi.Height(), roi.Depth()
}

// SetFullROI repositions the full (display) window to roi.
func (s *ImageSpec) SetFullROI(roi ROI) {
	s.FullX, s.FullY, s.FullZ = roi.XBegin, roi.YBegin, roi.ZBegin
	s.FullWidth, s.FullHeight, s.FullDepth = roi.Width(), roi.Height(), roi.Depth()
}

// HasAlpha reports whether the spec names an alpha channel.
func (s *ImageSpec) HasAlpha() bool { return s.AlphaChannel >= 0 }

// HasZ reports whether the spec names a depth ("Z") channel.
func (s *ImageSpec) HasZ() bool { return s.ZChannel >= 0 }

// IsVolume reports whether the data window has nontrivial z extent.
func (s *ImageSpec) IsVolume() bool { return s.Depth > 1 }

// PixelBytes returns the storage size of one full pixel (all channels).
func (s *ImageSpec) PixelBytes() int {
	return s.NChannels * s.Format.Size()
}

// ImageBytes returns the storage size of the whole data window.
func (s *ImageSpec) ImageBytes() int64 {
	return int64(s.Width) * int64(s.Height) * int64(s.Depth) * int64(s.PixelBytes())
}

// Clone returns a deep copy of the spec, including channel names and
// metadata.
func (s *ImageSpec) Clone() ImageSpec {
	out := *s
	out.ChannelNames = append([]string(nil), s.ChannelNames...)
	if s.Metadata != nil {
		out.Metadata = make(map[string]string, len(s.Metadata))
		for k, v := range s.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// structuralMetadata lists keys that describe how pixels were stored rather
// than what they depict. These are not carried across operations unless the
// caller asks for CopyAllMetadata, since the result is usually re-encoded.
var structuralMetadata = map[string]bool{
	"compression":    true,
	"bitspersample":  true,
	"planarconfig":   true,
	"tilewidth":      true,
	"tileheight":     true,
	"thumbnail":      true,
	"thumbnail_size": true,
}

// CopyMetadata replaces s's metadata with from's. Structural keys (see
// structuralMetadata) are skipped unless all is true.
func (s *ImageSpec) CopyMetadata(from *ImageSpec, all bool) {
	if from.Metadata == nil {
		s.Metadata = nil
		return
	}
	s.Metadata = make(map[string]string, len(from.Metadata))
	for k, v := range from.Metadata {
		if !all && structuralMetadata[k] {
			continue
		}
		s.Metadata[k] = v
	}
}
