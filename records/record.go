package records

import (
	"time"

	"github.com/zeptools/jewel-docs/document"
	"github.com/zeptools/jewel-docs/nullable"
)

// TimeLayout is how created_at is stored. Fixed width in UTC, so text order is time order.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Record is one row of the invoices table: one generated document
type Record struct {
	ID int64 `json:"id"`
	document.Record
	CustomerSignature nullable.String `json:"customer_signature"` // reference as supplied
	CustomerImage     nullable.String `json:"customer_image"`
	PDFPath           string          `json:"pdf_path"`
	DocumentType      document.Type   `json:"document_type"`
	Checksum          string          `json:"checksum"`
	CreatedAt         string          `json:"created_at"`
}

// TargetFields follows the column order of the select_* statements
func (r *Record) TargetFields() []any {
	return []any{
		&r.ID,
		&r.CustomerName,
		&r.CustomerID,
		&r.JewelleryDetails,
		&r.GrossWeight,
		&r.NetWeight,
		&r.GoldPurity,
		&r.CustomerSignature,
		&r.CustomerImage,
		&r.PDFPath,
		&r.DocumentType,
		&r.Checksum,
		&r.CreatedAt,
	}
}

// Created parses CreatedAt. Rows written by other tools may not parse; they give the zero time.
func (r *Record) Created() time.Time {
	t, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// values maps column name to the value inserted for it
func (r *Record) values() map[string]any {
	return map[string]any{
		"customer_name":      r.CustomerName,
		"customer_id":        r.CustomerID,
		"jewellery_details":  r.JewelleryDetails,
		"gross_weight":       r.GrossWeight,
		"net_weight":         r.NetWeight,
		"gold_purity":        r.GoldPurity,
		"customer_signature": r.CustomerSignature,
		"customer_image":     r.CustomerImage,
		"pdf_path":           r.PDFPath,
		"document_type":      r.DocumentType,
		"checksum":           r.Checksum,
		"created_at":         r.CreatedAt,
	}
}
