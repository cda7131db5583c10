package document

import (
	"strconv"
)

// Record is the input of one render. It is passed by value and never mutated by the renderer.
type Record struct {
	CustomerName     string  `json:"customer_name"`
	CustomerID       string  `json:"customer_id"`
	JewelleryDetails string  `json:"jewellery_details"`
	GrossWeight      float64 `json:"gross_weight"` // gm
	NetWeight        float64 `json:"net_weight"`   // gm
	GoldPurity       string  `json:"gold_purity"`
}

// FormatWeight renders a weight with the fixed "gm" unit and at most two decimals
func FormatWeight(grams float64) string {
	return strconv.FormatFloat(roundTo2(grams), 'f', -1, 64) + " gm"
}

func roundTo2(v float64) float64 {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	r, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return v
	}
	return r
}
