package pdfs

import "io"

// draw styles for Rect and Circle
const (
	StyleDraw     = "D"
	StyleFill     = "F"
	StyleFillDraw = "FD"
)

// image types accepted by Writer.Image
const (
	ImagePNG  = "PNG"
	ImageJPEG = "JPG"
)

// Writer is a minimal, stream-style, append-only PDF writer. No page navigation.
// Drawing calls are stateful and order-dependent: later draws overlap earlier ones.
type Writer interface {
	PaperSize() PaperSize
	Orientation() string

	AddBlankPage()

	SetDrawColor(c Color)
	SetFillColor(c Color)
	SetTextColor(c Color)
	SetLineWidth(width float64)
	SetFont(family string, style string, size float64)
	// SetAlpha sets the opacity (0..1) for subsequent drawing
	SetAlpha(alpha float64)

	Rect(x float64, y float64, w float64, h float64, style string)
	Circle(x float64, y float64, r float64, style string)
	Line(x1 float64, y1 float64, x2 float64, y2 float64)
	Text(x float64, y float64, text string)
	// Image places encoded image data. A returned error leaves the document usable.
	Image(name string, data []byte, imageType string, x float64, y float64, w float64, h float64) error

	WriteTo(w io.Writer) (int64, error)
	WriteToFile(filepath string) error
	ProduceBytes() ([]byte, error)
}
