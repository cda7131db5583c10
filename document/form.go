package document

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Form is the raw, untrusted input as typed by a user
type Form struct {
	CustomerName     string `json:"customer_name"`
	CustomerID       string `json:"customer_id"`
	JewelleryDetails string `json:"jewellery_details"`
	GrossWeight      string `json:"gross_weight"`
	NetWeight        string `json:"net_weight"`
	GoldPurity       string `json:"gold_purity"`
}

// field limits
const (
	MaxCustomerNameLen     = 100
	MaxCustomerIDLen       = 50
	MaxJewelleryDetailsLen = 500
	MaxGoldPurityLen       = 20
	MaxWeight              = 10000.0
)

// ValidationError lists every field problem found in a Form
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid form: " + strings.Join(e.Problems, "; ")
}

var (
	regexScript      = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	regexJSProto     = regexp.MustCompile(`(?i)javascript:`)
	regexVBProto     = regexp.MustCompile(`(?i)vbscript:`)
	regexDataProto   = regexp.MustCompile(`(?i)data:(image/(png|jpg|jpeg|gif|webp))?`)
	regexEventAttr   = regexp.MustCompile(`(?i)\bon\w+\s*=`)
	regexTag         = regexp.MustCompile(`<[^>]*>`)
	regexControl     = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]")
	regexSpaces      = regexp.MustCompile(`\s+`)
	regexNonNumeric  = regexp.MustCompile(`[^0-9.]`)
	suspiciousTokens = []*regexp.Regexp{
		regexp.MustCompile(`(?i)eval\s*\(`),
		regexp.MustCompile(`(?i)expression\s*\(`),
		regexp.MustCompile(`(?i)url\s*\(`),
		regexp.MustCompile(`(?i)@import`),
		regexp.MustCompile(`(?i)document\.`),
		regexp.MustCompile(`(?i)window\.`),
		regexp.MustCompile(`(?i)alert\s*\(`),
		regexp.MustCompile(`(?i)confirm\s*\(`),
		regexp.MustCompile(`(?i)prompt\s*\(`),
	}
)

// SanitizeText strips markup, script vectors and control characters, collapses whitespace
// and truncates to maxLen runes. Every alteration beyond trimming is reported as a warning.
func SanitizeText(input string, maxLen int) (string, []string) {
	var warnings []string
	s := strings.TrimSpace(input)
	if s == "" {
		return "", nil
	}
	if n := utf8.RuneCountInString(s); n > maxLen {
		warnings = append(warnings, fmt.Sprintf("input truncated from %d to %d characters", n, maxLen))
		s = string([]rune(s)[:maxLen])
	}
	s = regexScript.ReplaceAllString(s, "")
	s = regexJSProto.ReplaceAllString(s, "")
	s = regexDataProto.ReplaceAllStringFunc(s, func(m string) string {
		if len(m) > len("data:") {
			return m // safe image data reference
		}
		return ""
	})
	s = regexVBProto.ReplaceAllString(s, "")
	s = regexEventAttr.ReplaceAllString(s, "")
	s = regexTag.ReplaceAllString(s, "")
	s = regexControl.ReplaceAllString(s, "")
	s = regexSpaces.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	for _, re := range suspiciousTokens {
		if re.MatchString(s) {
			warnings = append(warnings, "potentially dangerous content detected and removed")
			s = re.ReplaceAllString(s, "")
		}
	}
	return s, warnings
}

// SanitizeWeight keeps digits and the first decimal point, then parses and range-checks the value
func SanitizeWeight(input string) (float64, error) {
	s := regexNonNumeric.ReplaceAllString(input, "")
	if s == "" {
		return 0, fmt.Errorf("numeric input is required")
	}
	if parts := strings.Split(s, "."); len(parts) > 2 {
		s = parts[0] + "." + strings.Join(parts[1:], "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric format")
	}
	if v <= 0 {
		return 0, fmt.Errorf("must be greater than zero")
	}
	if v > MaxWeight {
		return 0, fmt.Errorf("must not exceed %v", MaxWeight)
	}
	return v, nil
}

// Validate sanitizes a Form into a Record.
// Customer name and both weights are required; the other text fields may be empty.
func (f Form) Validate() (Record, error) {
	var problems []string
	text := func(label, in string, maxLen int, required bool) string {
		out, warnings := SanitizeText(in, maxLen)
		switch {
		case len(warnings) > 0:
			problems = append(problems, fmt.Sprintf("%s: %s", label, strings.Join(warnings, ", ")))
		case required && out == "":
			problems = append(problems, label+": is required")
		}
		return out
	}
	weight := func(label, in string) float64 {
		v, err := SanitizeWeight(in)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", label, err))
		}
		return v
	}
	rec := Record{
		CustomerName:     text("customer name", f.CustomerName, MaxCustomerNameLen, true),
		CustomerID:       text("customer id", f.CustomerID, MaxCustomerIDLen, false),
		JewelleryDetails: text("jewellery details", f.JewelleryDetails, MaxJewelleryDetailsLen, false),
		GrossWeight:      weight("gross weight", f.GrossWeight),
		NetWeight:        weight("net weight", f.NetWeight),
		GoldPurity:       text("gold purity", f.GoldPurity, MaxGoldPurityLen, false),
	}
	if len(problems) > 0 {
		return Record{}, &ValidationError{Problems: problems}
	}
	return rec, nil
}

// Validate checks an already-structured Record, as received from API clients
func (r Record) Validate() (Record, error) {
	rec, err := Form{
		CustomerName:     r.CustomerName,
		CustomerID:       r.CustomerID,
		JewelleryDetails: r.JewelleryDetails,
		GrossWeight:      strconv.FormatFloat(r.GrossWeight, 'f', -1, 64),
		NetWeight:        strconv.FormatFloat(r.NetWeight, 'f', -1, 64),
		GoldPurity:       r.GoldPurity,
	}.Validate()
	var problems []string
	var verr *ValidationError
	if errors.As(err, &verr) {
		problems = verr.Problems
	} else if err != nil {
		return Record{}, err
	}
	// the string sanitizer drops the sign, so negatives are caught here
	if r.GrossWeight < 0 {
		problems = append(problems, "gross weight: must be greater than zero")
	}
	if r.NetWeight < 0 {
		problems = append(problems, "net weight: must be greater than zero")
	}
	if len(problems) > 0 {
		return Record{}, &ValidationError{Problems: problems}
	}
	return rec, nil
}
