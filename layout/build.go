package layout

import (
	"github.com/zeptools/jewel-docs/document"
	"github.com/zeptools/jewel-docs/pdfs"
)

// Slot is a user-supplied image position. Provided reports whether the caller asked for
// the image at all; it decides the box geometry even when the image failed to resolve.
type Slot struct {
	Provided bool
	Image    *pdfs.Image
}

// Use marks a slot as provided with the resolved image (possibly nil)
func Use(img *pdfs.Image) Slot {
	return Slot{Provided: true, Image: img}
}

// Images are the resolved assets of one render
type Images struct {
	Logo             *pdfs.Image
	HeaderDecoration *pdfs.Image
	Stamp            Slot
	Photo            Slot
	Signature        Slot
}

// Build turns a record into the ordered drawing instructions of one page. It is pure.
func Build(l Layout, lh document.Letterhead, rec document.Record, imgs Images) []Instruction {
	lh = lh.WithDefaults()
	var out []Instruction

	// frame and header
	out = append(out,
		Rect(l.Border.X, l.Border.Y, l.Border.W, l.Border.H, pdfs.StyleDraw, DarkPurple, White, l.BorderWidth),
		Rect(l.HeaderBand.X, l.HeaderBand.Y, l.HeaderBand.W, l.HeaderBand.H, pdfs.StyleFill, DarkPurple, DarkPurple, l.BorderWidth),
		Circle(l.LogoCenterX, l.LogoCenterY, l.LogoRadius, pdfs.StyleFillDraw, White, White, 2),
		Image(imgs.Logo, l.Logo.X, l.Logo.Y, l.Logo.W, l.Logo.H,
			Text(l.LogoFallbackX, l.LogoFallbackY, lh.LogoFallback, Font{fontFamily, "B", l.LogoFallbackSize}, White),
		),
	)
	out = append(out, titleBlock(l, lh)...)
	out = append(out, headerDecoration(l, lh, imgs.HeaderDecoration))
	out = append(out, Rect(l.Sidebar.X, l.Sidebar.Y, l.Sidebar.W, l.Sidebar.H, pdfs.StyleFill, DarkPurple, DarkPurple, 2))

	// label:value rows
	rows := [][2]string{
		{"NAME", rec.CustomerName},
		{"CUSTOMER ID", rec.CustomerID},
		{"DESCRIPTION", rec.JewelleryDetails},
		{"GROSS WEIGHT", document.FormatWeight(rec.GrossWeight)},
		{"NET WEIGHT", document.FormatWeight(rec.NetWeight)},
		{"GOLD PURITY", rec.GoldPurity},
	}
	bold := Font{fontFamily, "B", l.RowFontSize}
	regular := Font{fontFamily, "", l.RowFontSize}
	for n, row := range rows {
		y := l.FirstRowY + float64(n)*l.RowHeight
		out = append(out,
			Text(l.LabelX, y, row[0], bold, DarkPurple),
			Text(l.ColonX, y, ":", bold, ValueGray),
			Text(l.ValueX, y, row[1], regular, ValueGray),
		)
	}

	out = append(out, imageBoxes(l, lh, rec, imgs)...)

	if imgs.Logo != nil {
		wm := l.Watermark
		out = append(out, Image(imgs.Logo, wm.X, wm.Y, wm.W, wm.H).WithAlpha(l.WatermarkAlpha))
	}

	// footer
	out = append(out,
		Rect(l.FooterBand.X, l.FooterBand.Y, l.FooterBand.W, l.FooterBand.H, pdfs.StyleFill, LightGray, LightGray, 2),
		Line(l.FooterBand.X, l.FooterLineY, l.FooterBand.X+l.FooterBand.W, l.FooterLineY, Gold, 2),
		Text(l.AddressX, l.AddressY, lh.Address, Font{fontFamily, "B", l.AddressSize}, DarkPurple),
	)
	return out
}

func titleBlock(l Layout, lh document.Letterhead) []Instruction {
	title := l.Title
	if title == "" {
		title = lh.BusinessLine
	}
	out := []Instruction{Text(l.TitleX, l.TitleY, title, Font{fontFamily, "B", l.TitleSize}, Gold)}
	if l.ShowSubtitle {
		out = append(out, Text(l.TitleX, l.SubtitleY, lh.BusinessLine, Font{fontFamily, "", l.SubtitleSize}, Gold))
	}
	return out
}

func headerDecoration(l Layout, lh document.Letterhead, img *pdfs.Image) Instruction {
	d := l.HeaderDecoration
	fallback := []Instruction{Rect(d.X, d.Y, d.W, d.H, pdfs.StyleFillDraw, Gold, DarkPurple, 2)}
	font := Font{fontFamily, "B", 10}
	for i, word := range lh.HeaderFallback {
		fallback = append(fallback, Text(d.X+10, d.Y+20+float64(i)*15, word, font, Gold))
	}
	return Image(img, d.X, d.Y, d.W, d.H, fallback...)
}

// ImageBoxSizes returns the square box sizes of the stamp and photo. A zero size means no box.
func ImageBoxSizes(l Layout, stamp, photo bool) (stampSize, photoSize float64) {
	switch {
	case stamp && photo:
		return l.PairedImageSize, l.PairedImageSize
	case stamp:
		return l.SingleImageSize, 0
	case photo:
		return 0, l.SingleImageSize
	default:
		return 0, 0
	}
}

// SignatureWidth spans whatever image boxes are present
func SignatureWidth(l Layout, stampSize, photoSize float64) float64 {
	switch {
	case stampSize > 0 && photoSize > 0:
		return stampSize + l.ImageGap + photoSize
	case stampSize > 0 || photoSize > 0:
		return max(stampSize, photoSize)
	default:
		return l.SignatureDefaultWidth
	}
}

func imageBoxes(l Layout, lh document.Letterhead, rec document.Record, imgs Images) []Instruction {
	var out []Instruction
	stampSize, photoSize := ImageBoxSizes(l, imgs.Stamp.Provided, imgs.Photo.Provided)
	x, y := l.ImagesX, l.ImagesY

	if stampSize > 0 {
		out = append(out,
			Rect(x, y, stampSize, stampSize, pdfs.StyleFillDraw, DarkPurple, White, 2),
			Image(imgs.Stamp.Image, x+10, y+20, stampSize-20, stampSize-30, stampFallback(lh, x, y, stampSize)...),
		)
		x += stampSize + l.ImageGap
	}
	if photoSize > 0 {
		out = append(out,
			Rect(x, y, photoSize, photoSize, pdfs.StyleFillDraw, DarkPurple, White, 2),
			Image(imgs.Photo.Image, x+10, y+20, photoSize-20, photoSize-30), // empty box on failure
		)
	}

	if imgs.Signature.Provided {
		sx, sy, sh := l.ImagesX, l.SignatureY, l.SignatureHeight
		sw := SignatureWidth(l, stampSize, photoSize)
		out = append(out,
			Rect(sx, sy, sw, sh, pdfs.StyleDraw, DarkPurple, White, 1),
			Text(sx+5, sy+12, "Customer Signature", Font{fontFamily, "B", 10}, DarkPurple),
			Image(imgs.Signature.Image, sx+5, sy+20, sw-10, 40,
				Text(sx+10, sy+40, "Signature", Font{fontFamily, "", 12}, DarkPurple),
			),
			Text(sx+5, sy+sh+15, rec.CustomerName, Font{fontFamily, "B", 11}, DarkPurple),
		)
	}
	return out
}

func stampFallback(lh document.Letterhead, x, y, size float64) []Instruction {
	markSize, lineSize := 35.0, 8.0
	if size > 100 {
		markSize, lineSize = 70, 11
	}
	out := []Instruction{
		Text(x+size/2-10, y+size/2+10, lh.StampFallbackMark, Font{fontFamily, "B", markSize}, DarkPurple),
	}
	font := Font{fontFamily, "B", lineSize}
	// top two lines under the box edge, the last one near the bottom
	offsets := [][2]float64{{10, 30}, {15, 45}}
	for i, line := range lh.StampFallback {
		switch {
		case i < len(offsets) && i < len(lh.StampFallback)-1:
			out = append(out, Text(x+offsets[i][0], y+offsets[i][1], line, font, DarkPurple))
		case i == len(lh.StampFallback)-1:
			out = append(out, Text(x+10, y+size-20, line, font, DarkPurple))
		}
	}
	return out
}
