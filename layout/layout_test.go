package layout

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeptools/jewel-docs/document"
	"github.com/zeptools/jewel-docs/pdfs"
	"github.com/zeptools/jewel-docs/pdfs/impls/fpdf"
)

// recorder is a pdfs.Writer that logs calls
type recorder struct {
	calls      []string
	rejectImgs bool
}

var _ pdfs.Writer = (*recorder)(nil)

func (r *recorder) log(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) PaperSize() pdfs.PaperSize          { return pdfs.CertificateSize }
func (r *recorder) Orientation() string                { return pdfs.OrientationLandscape }
func (r *recorder) AddBlankPage()                      { r.log("page") }
func (r *recorder) SetDrawColor(c pdfs.Color)          {}
func (r *recorder) SetFillColor(c pdfs.Color)          {}
func (r *recorder) SetTextColor(c pdfs.Color)          {}
func (r *recorder) SetLineWidth(width float64)         {}
func (r *recorder) SetFont(string, string, float64)    {}
func (r *recorder) SetAlpha(alpha float64)             { r.log("alpha %.2f", alpha) }
func (r *recorder) Rect(x, y, w, h float64, s string)  { r.log("rect %g,%g %gx%g %s", x, y, w, h, s) }
func (r *recorder) Circle(x, y, rad float64, s string) { r.log("circle %g,%g r%g", x, y, rad) }
func (r *recorder) Line(x1, y1, x2, y2 float64)        { r.log("line %g,%g-%g,%g", x1, y1, x2, y2) }
func (r *recorder) Text(x, y float64, text string)     { r.log("text %g,%g %s", x, y, text) }

func (r *recorder) Image(name string, data []byte, typ string, x, y, w, h float64) error {
	if r.rejectImgs {
		return errors.New("rejected")
	}
	r.log("image %s %g,%g %gx%g", name, x, y, w, h)
	return nil
}

func (r *recorder) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, "%PDF-fake")
	return int64(n), err
}
func (r *recorder) WriteToFile(string) error { return nil }
func (r *recorder) ProduceBytes() ([]byte, error) {
	return []byte("%PDF-fake"), nil
}

func tinyPNG(t *testing.T, name string) *pdfs.Image {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 0xd4, G: 0xaf, B: 0x37, A: 0xff})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &pdfs.Image{Name: name, Data: buf.Bytes(), Type: pdfs.ImagePNG}
}

var sampleRecord = document.Record{
	CustomerName:     "Ramesh Patel",
	CustomerID:       "C-17",
	JewelleryDetails: "Gold chain",
	GrossWeight:      12.5,
	NetWeight:        11.456,
	GoldPurity:       "22K",
}

func texts(instrs []Instruction) []Instruction {
	var out []Instruction
	for _, in := range instrs {
		if in.Op == OpText {
			out = append(out, in)
		}
	}
	return out
}

func findText(instrs []Instruction, text string) (Instruction, bool) {
	for _, in := range instrs {
		if in.Op == OpText && in.Text == text {
			return in, true
		}
	}
	return Instruction{}, false
}

func TestBuild_TitlePerType(t *testing.T) {
	lh := document.DefaultLetterhead()
	tests := []struct {
		typ       document.Type
		title     string
		titleY    float64
		titleSize float64
		subtitle  bool
	}{
		{document.Certificate, "CERTIFICATE", 45, 28, true},
		{document.JewelleryReport, "JEWELLERY REPORT", 45, 28, true},
		{document.Bill, lh.BusinessLine, 50, 28, false},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			instrs := Build(ForType(tt.typ), lh, sampleRecord, Images{})
			title, ok := findText(instrs, tt.title)
			require.True(t, ok)
			assert.Equal(t, 90.0, title.X)
			assert.Equal(t, tt.titleY, title.Y)
			assert.Equal(t, tt.titleSize, title.Font.Size)

			var subtitles int
			for _, in := range texts(instrs) {
				if in.Text == lh.BusinessLine && in.Y == 68 && in.Font.Size == 10 {
					subtitles++
				}
			}
			if tt.subtitle {
				assert.Equal(t, 1, subtitles)
			} else {
				assert.Zero(t, subtitles)
			}
		})
	}
}

func TestBuild_Rows(t *testing.T) {
	instrs := Build(ForType(document.Certificate), document.DefaultLetterhead(), sampleRecord, Images{})

	want := []struct {
		label, value string
		y            float64
	}{
		{"NAME", "Ramesh Patel", 140},
		{"CUSTOMER ID", "C-17", 175},
		{"DESCRIPTION", "Gold chain", 210},
		{"GROSS WEIGHT", "12.5 gm", 245},
		{"NET WEIGHT", "11.46 gm", 280},
		{"GOLD PURITY", "22K", 315},
	}
	for _, w := range want {
		label, ok := findText(instrs, w.label)
		require.True(t, ok, w.label)
		assert.Equal(t, 80.0, label.X)
		assert.Equal(t, w.y, label.Y)

		value, ok := findText(instrs, w.value)
		require.True(t, ok, w.value)
		assert.Equal(t, 260.0, value.X)
		assert.Equal(t, w.y, value.Y)
		assert.Equal(t, ValueGray, value.Color)
	}
}

func TestBuild_ImagePresenceMatrix(t *testing.T) {
	l := ForType(document.Certificate)
	tests := []struct {
		name         string
		stamp, photo bool
		wantBoxes    []float64 // box x positions, square sizes in wantSizes
		wantSizes    []float64
		wantSigWidth float64
	}{
		{"neither", false, false, nil, nil, 180},
		{"stamp only", true, false, []float64{580}, []float64{180}, 180},
		{"photo only", false, true, []float64{580}, []float64{180}, 180},
		{"both", true, true, []float64{580, 690}, []float64{100, 100}, 210},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imgs := Images{Signature: Use(nil)}
			if tt.stamp {
				imgs.Stamp = Use(nil)
			}
			if tt.photo {
				imgs.Photo = Use(nil)
			}
			instrs := Build(l, document.DefaultLetterhead(), sampleRecord, imgs)

			var xs, sizes []float64
			var sig *Instruction
			for i, in := range instrs {
				if in.Op != OpRect {
					continue
				}
				if in.Y == l.ImagesY && in.W == in.H {
					xs = append(xs, in.X)
					sizes = append(sizes, in.W)
				}
				if in.Y == l.SignatureY {
					sig = &instrs[i]
				}
			}
			assert.Equal(t, tt.wantBoxes, xs)
			assert.Equal(t, tt.wantSizes, sizes)
			require.NotNil(t, sig)
			assert.Equal(t, tt.wantSigWidth, sig.W)
			assert.Equal(t, 80.0, sig.H)
		})
	}
	assert.NotEqual(t, l.PairedImageSize, l.SingleImageSize)
}

func TestBuild_NoSignatureBoxWhenNotProvided(t *testing.T) {
	instrs := Build(ForType(document.Bill), document.DefaultLetterhead(), sampleRecord, Images{})
	_, ok := findText(instrs, "Customer Signature")
	assert.False(t, ok)
}

func TestBuild_Stable(t *testing.T) {
	imgs := Images{Logo: tinyPNG(t, "logo"), Stamp: Use(tinyPNG(t, "stamp"))}
	a := Build(ForType(document.JewelleryReport), document.DefaultLetterhead(), sampleRecord, imgs)
	b := Build(ForType(document.JewelleryReport), document.DefaultLetterhead(), sampleRecord, imgs)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Build not stable (-first +second):\n%s", diff)
	}
}

func TestBuild_WatermarkLast(t *testing.T) {
	logo := tinyPNG(t, "logo")
	instrs := Build(ForType(document.Certificate), document.DefaultLetterhead(), sampleRecord, Images{Logo: logo})

	var wm *Instruction
	for i := range instrs {
		if instrs[i].Op == OpImage && instrs[i].Alpha > 0 {
			wm = &instrs[i]
		}
	}
	require.NotNil(t, wm)
	want := Instruction{Op: OpImage, X: 262, Y: 100, W: 300, H: 300, Image: logo, Alpha: 0.15}
	if diff := cmp.Diff(want, *wm); diff != "" {
		t.Errorf("watermark mismatch (-want +got):\n%s", diff)
	}

	// only the footer follows the watermark
	tail := instrs[len(instrs)-3:]
	assert.Equal(t, []Op{OpRect, OpLine, OpText}, []Op{tail[0].Op, tail[1].Op, tail[2].Op})
}

func TestPlay_FallbacksWhenImagesAbsent(t *testing.T) {
	rec := &recorder{}
	imgs := Images{Stamp: Use(nil), Signature: Use(nil)}
	require.NoError(t, Play(rec, Build(ForType(document.Certificate), document.DefaultLetterhead(), sampleRecord, imgs)))

	assert.Contains(t, rec.calls, "text 35,58 BP")
	assert.Contains(t, rec.calls, "rect 700,15 100x60 FD")
	assert.Contains(t, rec.calls, "text 710,35 SONI")
	assert.Contains(t, rec.calls, "text 710,50 JEWELLERY")
	assert.Contains(t, rec.calls, "text 710,65 CERTIFIED")
	assert.Contains(t, rec.calls, "text 660,220 S")
	assert.Contains(t, rec.calls, "text 590,150 SONI BHAVARLAL")
	assert.Contains(t, rec.calls, "text 595,165 PRHLAD")
	assert.Contains(t, rec.calls, "text 590,280 JEWELLERY")
	assert.Contains(t, rec.calls, "text 590,375 Signature")
	assert.Contains(t, rec.calls, "text 585,430 Ramesh Patel")
	assert.NotContains(t, rec.calls, "alpha 0.15")
}

func TestPlay_RejectedImageFallsBack(t *testing.T) {
	rec := &recorder{rejectImgs: true}
	imgs := Images{Logo: tinyPNG(t, "logo"), HeaderDecoration: tinyPNG(t, "header")}
	require.NoError(t, Play(rec, Build(ForType(document.Bill), document.DefaultLetterhead(), sampleRecord, imgs)))

	assert.Contains(t, rec.calls, "text 35,58 BP")
	assert.Contains(t, rec.calls, "text 710,35 SONI")
}

func TestPlay_WatermarkOpacityRestored(t *testing.T) {
	rec := &recorder{}
	imgs := Images{Logo: tinyPNG(t, "logo")}
	require.NoError(t, Play(rec, Build(ForType(document.Bill), document.DefaultLetterhead(), sampleRecord, imgs)))

	i := indexOf(rec.calls, "alpha 0.15")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, "image logo 262,100 300x300", rec.calls[i+1])
	assert.Equal(t, "alpha 1.00", rec.calls[i+2])
	assert.Contains(t, rec.calls, "image logo 20,20 60x60")
}

func TestPlay_UnknownOp(t *testing.T) {
	err := Play(&recorder{}, []Instruction{{Op: Op(42)}})
	assert.ErrorContains(t, err, "unknown op op(42)")
}

func indexOf(calls []string, s string) int {
	for i, c := range calls {
		if c == s {
			return i
		}
	}
	return -1
}

func TestRenderer_RenderWithFpdf(t *testing.T) {
	r := NewRenderer(document.Letterhead{})
	l := r.Layout(document.Certificate)
	w := fpdf.New(l.Paper, l.Orientation)

	imgs := Images{
		Logo:      tinyPNG(t, "logo"),
		Stamp:     Use(tinyPNG(t, "stamp")),
		Photo:     Use(&pdfs.Image{Name: "photo", Data: []byte("not an image"), Type: pdfs.ImageJPEG}),
		Signature: Use(nil),
	}
	rec := sampleRecord
	rec.CustomerName = "Zoë Müller"
	data, err := r.Render(w, rec, imgs, document.Certificate)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	pw, ph := l.Paper.Landscape()
	assert.Equal(t, 824.0, pw)
	assert.Equal(t, 500.0, ph)
}

func TestRenderer_LayoutOverride(t *testing.T) {
	r := NewRenderer(document.DefaultLetterhead())
	custom := ForType(document.Bill)
	custom.Title = "ESTIMATE"
	r.Layouts().Store(document.Bill.String(), custom)

	_, ok := findText(r.Build(sampleRecord, Images{}, document.Bill), "ESTIMATE")
	assert.True(t, ok)
	assert.Equal(t, []string{"bill", "certificate", "jewellery-report"}, r.Layouts().Keys())
}

func TestRenderer_SetLetterhead(t *testing.T) {
	r := NewRenderer(document.Letterhead{})
	assert.Equal(t, document.DefaultLetterhead(), r.Letterhead())

	r.SetLetterhead(document.Letterhead{Address: "1 MG ROAD, PUNE"})
	instrs := r.Build(sampleRecord, Images{}, document.Certificate)
	_, ok := findText(instrs, "1 MG ROAD, PUNE")
	assert.True(t, ok)
	_, ok = findText(instrs, document.DefaultLetterhead().BusinessLine)
	assert.True(t, ok, "unset fields keep their defaults")
}
