package fpdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	lowimpl "github.com/go-pdf/fpdf"

	"github.com/zeptools/jewel-docs/pdfs"
	"github.com/zeptools/jewel-docs/rw"
)

// Writer is a pdfs.Writer backed by go-pdf/fpdf, using the core (cp1252) fonts
type Writer struct {
	paper       pdfs.PaperSize
	orientation string

	// implementation details, not exported
	internal  *lowimpl.Fpdf
	translate func(string) string
}

// Ensure fpdf.Writer implements pdfs.Writer interface
var _ pdfs.Writer = (*Writer)(nil)

// Option customizes a Writer during construction
type Option func(*lowimpl.Fpdf)

// WithCreationDate pins the document dates, making the output reproducible
func WithCreationDate(t time.Time) Option {
	return func(f *lowimpl.Fpdf) {
		f.SetCreationDate(t)
		f.SetModificationDate(t)
	}
}

// WithMetadata sets the document info dictionary
func WithMetadata(title, author, creator string) Option {
	return func(f *lowimpl.Fpdf) {
		f.SetTitle(title, true)
		f.SetAuthor(author, true)
		f.SetCreator(creator, true)
	}
}

// New creates a Writer with unit `pt`. Dimensions in the PaperSize are portrait;
// the orientation decides which side is the page width.
func New(paper pdfs.PaperSize, orientation string, opts ...Option) *Writer {
	f := lowimpl.NewCustom(&lowimpl.InitType{
		OrientationStr: orientation,
		UnitStr:        "pt",
		Size:           lowimpl.SizeType{Wd: paper.Width, Ht: paper.Height},
	})
	f.SetMargins(0, 0, 0)
	f.SetAutoPageBreak(false, 0)
	f.SetCompression(true)
	f.SetCatalogSort(true)
	for _, opt := range opts {
		opt(f)
	}
	return &Writer{
		paper:       paper,
		orientation: orientation,
		internal:    f,
		translate:   f.UnicodeTranslatorFromDescriptor(""), // cp1252
	}
}

func (w *Writer) PaperSize() pdfs.PaperSize { return w.paper }

func (w *Writer) Orientation() string { return w.orientation }

func (w *Writer) AddBlankPage() {
	w.internal.AddPage()
}

func (w *Writer) SetDrawColor(c pdfs.Color) {
	w.internal.SetDrawColor(c.R, c.G, c.B)
}

func (w *Writer) SetFillColor(c pdfs.Color) {
	w.internal.SetFillColor(c.R, c.G, c.B)
}

func (w *Writer) SetTextColor(c pdfs.Color) {
	w.internal.SetTextColor(c.R, c.G, c.B)
}

func (w *Writer) SetLineWidth(width float64) {
	w.internal.SetLineWidth(width)
}

func (w *Writer) SetFont(family string, style string, size float64) {
	w.internal.SetFont(family, style, size)
}

func (w *Writer) SetAlpha(alpha float64) {
	w.internal.SetAlpha(alpha, "Normal")
}

func (w *Writer) Rect(x, y, width, height float64, style string) {
	w.internal.Rect(x, y, width, height, style)
}

func (w *Writer) Circle(x, y, r float64, style string) {
	w.internal.Circle(x, y, r, style)
}

func (w *Writer) Line(x1, y1, x2, y2 float64) {
	w.internal.Line(x1, y1, x2, y2)
}

func (w *Writer) Text(x, y float64, text string) {
	w.internal.Text(x, y, w.translate(text))
}

// Image registers the data under name (once) and places it.
// fpdf keeps a sticky error state, so a rejected image is cleared here
// to let the caller draw a fallback on the same page.
func (w *Writer) Image(name string, data []byte, imageType string, x, y, width, height float64) error {
	if err := w.internal.Error(); err != nil {
		return fmt.Errorf("writer already failed: %w", err)
	}
	opts := lowimpl.ImageOptions{ImageType: imageType, ReadDpi: false}
	w.internal.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if w.internal.Err() {
		err := w.internal.Error()
		w.internal.ClearError()
		return fmt.Errorf("register image %q: %w", name, err)
	}
	w.internal.ImageOptions(name, x, y, width, height, false, opts, 0, "")
	if w.internal.Err() {
		err := w.internal.Error()
		w.internal.ClearError()
		return fmt.Errorf("place image %q: %w", name, err)
	}
	return nil
}

// WriteTo implements io.WriterTo
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	cw := rw.NewCountWriter(dst)
	err := w.internal.Output(cw)
	return cw.BytesWritten(), err
}

func (w *Writer) WriteToFile(filepath string) error {
	f, err := os.Create(filepath)
	if err != nil {
		return err
	}
	if _, err = w.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (w *Writer) ProduceBytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
