package artifacts

import (
	"regexp"
	"strings"
)

const (
	MaxSlugLen  = 20
	Placeholder = "unnamed" // slug of a name with nothing filename-safe in it
)

var (
	slugStrip     = regexp.MustCompile(`[^A-Za-z0-9\s_]`)
	slugSeparator = regexp.MustCompile(`[\s_]+`)
	slugAlnum     = regexp.MustCompile(`[a-z0-9]`)
)

// Slug derives the filename-safe part of an artifact name from a customer name.
// Slug(Slug(x)) == Slug(x) for every x.
func Slug(name string) string {
	s := strings.TrimSpace(name)
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSeparator.ReplaceAllString(s, "_")
	s = strings.ToLower(s)
	if len(s) > MaxSlugLen {
		s = s[:MaxSlugLen] // ASCII only at this point
	}
	if !slugAlnum.MatchString(s) {
		return Placeholder
	}
	return s
}

// FileName is "{slug}_{suffix}.pdf"
func FileName(customerName string, suffix string) string {
	return Slug(customerName) + "_" + suffix + ".pdf"
}

// CustomerFromFileName reverses the naming convention for display: "ramesh_patel_report.pdf" is "ramesh patel"
func CustomerFromFileName(name string) string {
	for _, suffix := range knownSuffixes() {
		if strings.Contains(name, suffix) {
			return strings.ReplaceAll(strings.Replace(name, suffix, "", 1), "_", " ")
		}
	}
	return strings.TrimSuffix(name, ".pdf")
}
