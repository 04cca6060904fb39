package media

import (
	"image"
	"image/jpeg"
	"io"

	// Decoders for formats that are recognised but served unchanged.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
)

// Codec is the decode/encode strategy for one thumbnailable format. The set
// is closed: only JPEG, PNG and GIF are thumbnailed.
type Codec interface {
	Name() string
	MimeType() string
	Decode(r io.Reader) (image.Image, error)
	Encode(w io.Writer, img image.Image) error
}

type imagingCodec struct {
	name     string
	mimeType string
	format   imaging.Format
	options  []imaging.EncodeOption
}

func (c imagingCodec) Name() string     { return c.name }
func (c imagingCodec) MimeType() string { return c.mimeType }

func (c imagingCodec) Decode(r io.Reader) (image.Image, error) {
	return imaging.Decode(r, imaging.AutoOrientation(true))
}

func (c imagingCodec) Encode(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, c.format, c.options...)
}

var codecs = map[string]Codec{
	"jpeg": imagingCodec{
		name:     "jpeg",
		mimeType: "image/jpeg",
		format:   imaging.JPEG,
		options:  []imaging.EncodeOption{imaging.JPEGQuality(jpeg.DefaultQuality)},
	},
	"png": imagingCodec{name: "png", mimeType: "image/png", format: imaging.PNG},
	"gif": imagingCodec{name: "gif", mimeType: "image/gif", format: imaging.GIF},
}

// codecFor maps a format name reported by image.DecodeConfig to its codec.
func codecFor(format string) (Codec, bool) {
	c, ok := codecs[format]
	return c, ok
}
