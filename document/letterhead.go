package document

// Letterhead holds the business identity printed on every document
type Letterhead struct {
	BusinessLine      string   `json:"business_line"`       // title of bills, subtitle of certificates and reports
	Address           string   `json:"address"`             // footer
	LogoFallback      string   `json:"logo_fallback"`       // drawn in the logo badge when no logo resolves
	HeaderFallback    []string `json:"header_fallback"`     // words in the top-right placeholder box
	StampFallbackMark string   `json:"stamp_fallback_mark"` // large letter in the stamp box
	StampFallback     []string `json:"stamp_fallback"`      // small lines in the stamp box
}

// DefaultLetterhead is used when no .letterhead.json is configured
func DefaultLetterhead() Letterhead {
	return Letterhead{
		BusinessLine:      "SONI BHAVARLAL PRHLADJI - MO. 9428419514",
		Address:           "283/6/1, PREMDARWAJA OPP BABASDEHLA AHM-380002",
		LogoFallback:      "BP",
		HeaderFallback:    []string{"SONI", "JEWELLERY", "CERTIFIED"},
		StampFallbackMark: "S",
		StampFallback:     []string{"SONI BHAVARLAL", "PRHLAD", "JEWELLERY"},
	}
}

// WithDefaults fills empty fields from DefaultLetterhead
func (l Letterhead) WithDefaults() Letterhead {
	d := DefaultLetterhead()
	if l.BusinessLine == "" {
		l.BusinessLine = d.BusinessLine
	}
	if l.Address == "" {
		l.Address = d.Address
	}
	if l.LogoFallback == "" {
		l.LogoFallback = d.LogoFallback
	}
	if len(l.HeaderFallback) == 0 {
		l.HeaderFallback = d.HeaderFallback
	}
	if l.StampFallbackMark == "" {
		l.StampFallbackMark = d.StampFallbackMark
	}
	if len(l.StampFallback) == 0 {
		l.StampFallback = d.StampFallback
	}
	return l
}
