package layout

import (
	"fmt"

	"github.com/zeptools/jewel-docs/pdfs"
)

// Op is the kind of drawing primitive an Instruction performs
type Op int

const (
	OpRect Op = iota + 1
	OpCircle
	OpLine
	OpText
	OpImage
)

func (o Op) String() string {
	switch o {
	case OpRect:
		return "rect"
	case OpCircle:
		return "circle"
	case OpLine:
		return "line"
	case OpText:
		return "text"
	case OpImage:
		return "image"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Font is a core-font selection
type Font struct {
	Family string
	Style  string // "", "B", "I", "BI"
	Size   float64
}

// Instruction is one self-contained drawing step.
// Every instruction carries the pen state it needs, so a list can be replayed on any Writer.
type Instruction struct {
	Op Op

	X, Y   float64
	W, H   float64 // rect, image
	R      float64 // circle
	X2, Y2 float64 // line

	Style     string // pdfs.StyleDraw / StyleFill / StyleFillDraw
	Stroke    pdfs.Color
	Fill      pdfs.Color
	LineWidth float64

	Text  string
	Font  Font
	Color pdfs.Color // text color

	Image *pdfs.Image
	Alpha float64 // image opacity; 0 means opaque
	// Fallback is played instead of the image when the image is absent or cannot be embedded
	Fallback []Instruction
}

func Rect(x, y, w, h float64, style string, stroke, fill pdfs.Color, lineWidth float64) Instruction {
	return Instruction{Op: OpRect, X: x, Y: y, W: w, H: h, Style: style, Stroke: stroke, Fill: fill, LineWidth: lineWidth}
}

func Circle(x, y, r float64, style string, stroke, fill pdfs.Color, lineWidth float64) Instruction {
	return Instruction{Op: OpCircle, X: x, Y: y, R: r, Style: style, Stroke: stroke, Fill: fill, LineWidth: lineWidth}
}

func Line(x1, y1, x2, y2 float64, stroke pdfs.Color, lineWidth float64) Instruction {
	return Instruction{Op: OpLine, X: x1, Y: y1, X2: x2, Y2: y2, Stroke: stroke, LineWidth: lineWidth}
}

func Text(x, y float64, text string, font Font, color pdfs.Color) Instruction {
	return Instruction{Op: OpText, X: x, Y: y, Text: text, Font: font, Color: color}
}

func Image(img *pdfs.Image, x, y, w, h float64, fallback ...Instruction) Instruction {
	return Instruction{Op: OpImage, X: x, Y: y, W: w, H: h, Image: img, Fallback: fallback}
}

// WithAlpha returns a copy of an image instruction drawn at the given opacity
func (in Instruction) WithAlpha(alpha float64) Instruction {
	in.Alpha = alpha
	return in
}
