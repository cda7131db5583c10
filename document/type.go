package document

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Type selects the header title, the output filename suffix and the destination sub-folder
type Type int

const (
	Bill Type = iota // default
	Certificate
	JewelleryReport
)

// Types lists every document type in discovery order
var Types = []Type{Certificate, JewelleryReport, Bill}

type typeInfo struct {
	selector string
	folder   string
	suffix   string
	label    string
}

var typeInfos = map[Type]typeInfo{
	Certificate:     {selector: "certificate", folder: "certificate", suffix: "certificate", label: "Certificate"},
	JewelleryReport: {selector: "jewellery-report", folder: "jewellery-report", suffix: "report", label: "Jewellery Report"},
	Bill:            {selector: "bill", folder: "bills", suffix: "invoice", label: "Bill"},
}

// ParseType maps a selector to a Type. Empty or unknown selectors are a Bill.
// Suffix names ("report", "invoice") are accepted too, as used by document filters.
func ParseType(s string) Type {
	t, _ := LookupType(s)
	return t
}

// LookupType is ParseType that reports whether s named a type. Empty s is not a type.
func LookupType(s string) (Type, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "certificate":
		return Certificate, true
	case "jewellery-report", "jewelry-report", "report":
		return JewelleryReport, true
	case "bill", "bills", "invoice":
		return Bill, true
	default:
		return Bill, false
	}
}

// String returns the selector, e.g. "jewellery-report"
func (t Type) String() string { return t.info().selector }

// Folder is the sub-folder under {root}/KAPIL_SONI_APP/invoices
func (t Type) Folder() string { return t.info().folder }

// Suffix is the filename suffix without the leading underscore and extension
func (t Type) Suffix() string { return t.info().suffix }

// FileSuffix is the full filename tail, e.g. "_certificate.pdf"
func (t Type) FileSuffix() string { return "_" + t.info().suffix + ".pdf" }

// Label is the human-readable name
func (t Type) Label() string { return t.info().label }

func (t Type) info() typeInfo {
	if info, ok := typeInfos[t]; ok {
		return info
	}
	return typeInfos[Bill]
}

// TypeFromFilename detects the type from the filename suffix convention.
// ok is false when the name carries none of the known suffixes.
func TypeFromFilename(name string) (Type, bool) {
	for _, t := range Types {
		if strings.Contains(name, t.FileSuffix()) {
			return t, true
		}
	}
	return Bill, false
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	*t = ParseType(string(text))
	return nil
}

// Scan reads the selector text stored in a document_type column
func (t *Type) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = Bill
	case string:
		*t = ParseType(v)
	case []byte:
		*t = ParseType(string(v))
	default:
		return fmt.Errorf("document.Type: cannot scan %T", src)
	}
	return nil
}

func (t Type) Value() (driver.Value, error) {
	return t.String(), nil
}
