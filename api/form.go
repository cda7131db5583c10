package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/zeptools/jewel-docs/assets"
	"github.com/zeptools/jewel-docs/docgen"
	"github.com/zeptools/jewel-docs/document"
)

// looseString takes a JSON string or number, so weights can be sent either way
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("want a string or a number, got %s", data)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*s = looseString(n.String())
	return nil
}

// generateBody is the JSON body of POST /api/documents
type generateBody struct {
	Type             string           `json:"type"`
	CustomerName     string           `json:"customer_name"`
	CustomerID       string           `json:"customer_id"`
	JewelleryDetails string           `json:"jewellery_details"`
	GrossWeight      looseString      `json:"gross_weight"`
	NetWeight        looseString      `json:"net_weight"`
	GoldPurity       string           `json:"gold_purity"`
	Stamp            assets.Reference `json:"stamp"`
	Photo            assets.Reference `json:"photo"`
	Signature        assets.Reference `json:"signature"`
	Logo             assets.Reference `json:"logo"`
	HeaderDecoration assets.Reference `json:"header_decoration"`
}

func (b generateBody) request() docgen.Request {
	return docgen.Request{
		Form: document.Form{
			CustomerName:     b.CustomerName,
			CustomerID:       b.CustomerID,
			JewelleryDetails: b.JewelleryDetails,
			GrossWeight:      string(b.GrossWeight),
			NetWeight:        string(b.NetWeight),
			GoldPurity:       b.GoldPurity,
		},
		Type:             document.ParseType(b.Type),
		Stamp:            b.Stamp,
		Photo:            b.Photo,
		Signature:        b.Signature,
		Logo:             b.Logo,
		HeaderDecoration: b.HeaderDecoration,
	}
}
