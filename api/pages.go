package api

import (
	"net/http"

	"github.com/zeptools/jewel-docs/document"
)

type typeOption struct {
	Selector string
	Label    string
}

type browserPage struct {
	AppName string
	APIBase string
	Types   []typeOption
}

// browser serves the document browser. The page itself is public; it calls the API with a token.
func (s *Server) browser(w http.ResponseWriter, r *http.Request) {
	page := browserPage{AppName: s.AppName, APIBase: "/api"}
	for _, t := range document.Types {
		page.Types = append(page.Types, typeOption{Selector: t.String(), Label: t.Label()})
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.Templates.Render(w, "documents", page); err != nil {
		writeError(w, r, err)
	}
}
