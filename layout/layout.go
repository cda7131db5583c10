package layout

import (
	"github.com/zeptools/jewel-docs/document"
	"github.com/zeptools/jewel-docs/pdfs"
)

// palette
var (
	DarkPurple = pdfs.MustHexColor("#280029")
	Gold       = pdfs.MustHexColor("#d4af37")
	LightGray  = pdfs.MustHexColor("#f5f5f5")
	White      = pdfs.MustHexColor("#ffffff")
	ValueGray  = pdfs.Color{R: 51, G: 51, B: 51}
)

const fontFamily = "helvetica"

// Box is an axis-aligned rectangle in `pt`, origin top-left
type Box struct {
	X, Y, W, H float64
}

// Layout holds the geometry of one document type.
// All documents share the page furniture; only the header title block differs.
type Layout struct {
	Paper       pdfs.PaperSize
	Orientation string

	Border      Box
	BorderWidth float64
	HeaderBand  Box

	LogoCenterX      float64
	LogoCenterY      float64
	LogoRadius       float64
	Logo             Box
	LogoFallbackX    float64
	LogoFallbackY    float64
	LogoFallbackSize float64

	// title block; an empty Title prints the business line as the title
	Title        string
	TitleX       float64
	TitleY       float64
	TitleSize    float64
	ShowSubtitle bool
	SubtitleY    float64
	SubtitleSize float64

	HeaderDecoration Box
	Sidebar          Box

	LabelX      float64
	ColonX      float64
	ValueX      float64
	FirstRowY   float64
	RowHeight   float64
	RowFontSize float64

	ImagesX         float64
	ImagesY         float64
	PairedImageSize float64 // stamp and photo both present
	SingleImageSize float64 // only one of them present
	ImageGap        float64

	SignatureY            float64
	SignatureHeight       float64
	SignatureDefaultWidth float64

	Watermark      Box
	WatermarkAlpha float64

	FooterBand  Box
	FooterLineY float64
	AddressX    float64
	AddressY    float64
	AddressSize float64
}

// Base returns the page furniture shared by every document type
func Base() Layout {
	pw, ph := pdfs.CertificateSize.Landscape()
	const wm = 300
	return Layout{
		Paper:       pdfs.CertificateSize,
		Orientation: pdfs.OrientationLandscape,

		Border:      Box{10, 10, 804, 480},
		BorderWidth: 3,
		HeaderBand:  Box{10, 10, 804, 80},

		LogoCenterX:      50,
		LogoCenterY:      50,
		LogoRadius:       30,
		Logo:             Box{20, 20, 60, 60},
		LogoFallbackX:    35,
		LogoFallbackY:    58,
		LogoFallbackSize: 24,

		TitleX:       90,
		TitleSize:    28,
		SubtitleY:    68,
		SubtitleSize: 10,

		HeaderDecoration: Box{700, 15, 100, 60},
		Sidebar:          Box{10, 90, 50, 400},

		LabelX:      80,
		ColonX:      240,
		ValueX:      260,
		FirstRowY:   140,
		RowHeight:   35,
		RowFontSize: 14,

		ImagesX:         580,
		ImagesY:         120,
		PairedImageSize: 100,
		SingleImageSize: 180,
		ImageGap:        10,

		SignatureY:            335,
		SignatureHeight:       80,
		SignatureDefaultWidth: 180,

		Watermark:      Box{(pw - wm) / 2, (ph - wm) / 2, wm, wm},
		WatermarkAlpha: 0.15,

		FooterBand:  Box{10, 440, 804, 50},
		FooterLineY: 440,
		AddressX:    60,
		AddressY:    465,
		AddressSize: 11,
	}
}

// ForType returns the built-in layout of a document type
func ForType(t document.Type) Layout {
	l := Base()
	switch t {
	case document.Certificate:
		l.Title, l.TitleY, l.ShowSubtitle = "CERTIFICATE", 45, true
	case document.JewelleryReport:
		l.Title, l.TitleY, l.ShowSubtitle = "JEWELLERY REPORT", 45, true
	default:
		l.Title, l.TitleY, l.ShowSubtitle = "", 50, false
	}
	return l
}

// DefaultStore returns a template store holding the built-in layout of every type, keyed by selector
func DefaultStore() *pdfs.TemplateStore[Layout] {
	store := pdfs.NewTemplateStore[Layout]()
	for _, t := range document.Types {
		store.Store(t.String(), ForType(t))
	}
	return store
}
