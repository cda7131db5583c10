package conf

import (
	"github.com/zeptools/jewel-docs/docgen"
	"github.com/zeptools/jewel-docs/document"
)

func docgenRequest() docgen.Request {
	return docgen.Request{
		Form: document.Form{
			CustomerName:     "Ramesh Patel",
			JewelleryDetails: "Gold chain",
			GrossWeight:      "10.5",
			NetWeight:        "9.75",
			GoldPurity:       "22K",
		},
		Type: document.Certificate,
	}
}
