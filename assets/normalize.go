package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/http"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/zeptools/jewel-docs/pdfs"
)

const (
	MaxBytes     = 5 * 1024 * 1024 // 5MB
	MaxDimension = 4000            // px, either side
)

var (
	ErrEmpty           = errors.New("empty image")
	ErrTooLarge        = errors.New("image exceeds 5MB")
	ErrTooManyPixels   = errors.New("image exceeds 4000x4000 px")
	ErrUnsupportedType = errors.New("unsupported image type")
)

// AllowedTypes are the sniffed MIME types accepted for any role
var AllowedTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/bmp":  true,
	"image/webp": true,
}

// Normalize validates an encoded image and returns it in a form the PDF writer embeds:
// baseline PNG and JPEG pass through, everything else is re-encoded to 8-bit PNG.
func Normalize(name string, data []byte) (*pdfs.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if len(data) > MaxBytes {
		return nil, ErrTooLarge
	}
	mime := http.DetectContentType(data)
	if !AllowedTypes[mime] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedType, mime, err)
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}

	switch {
	case format == "jpeg":
		return &pdfs.Image{Name: name, Data: data, Type: pdfs.ImageJPEG}, nil
	case format == "png" && !pngNeedsReencode(data):
		return &pdfs.Image{Name: name, Data: data, Type: pdfs.ImagePNG}, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	dst := image.NewNRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	var buf bytes.Buffer
	if err = png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode %s as png: %w", format, err)
	}
	return &pdfs.Image{Name: name, Data: buf.Bytes(), Type: pdfs.ImagePNG}, nil
}

// pngNeedsReencode reports 16-bit or interlaced PNGs, which the PDF backend cannot embed
func pngNeedsReencode(data []byte) bool {
	// signature(8) + length(4) + "IHDR"(4) + width(4) + height(4) + depth(1) + color(1) + compression(1) + filter(1) + interlace(1)
	if len(data) < 29 {
		return true
	}
	depth, interlace := data[24], data[28]
	return depth > 8 || interlace != 0
}
