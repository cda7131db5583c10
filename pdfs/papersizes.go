package pdfs

type PaperSize struct {
	Name   string
	Width  float64 // in `pt` (1" = 72pts), portrait
	Height float64 // in `pt`, portrait
}

// Landscape returns the page extent when the paper is laid on its side
func (p PaperSize) Landscape() (width, height float64) {
	if p.Width > p.Height {
		return p.Width, p.Height
	}
	return p.Height, p.Width
}

var (
	LetterSize      = PaperSize{Name: "Letter", Width: 612, Height: 792}         // 8.5" x 11"
	A4Size          = PaperSize{Name: "A4", Width: 595.27559, Height: 841.88976} // 210mm x 297mm
	CertificateSize = PaperSize{Name: "Certificate", Width: 500, Height: 824}    // 824 x 500 landscape
)

const (
	OrientationPortrait  = "P"
	OrientationLandscape = "L"
)
