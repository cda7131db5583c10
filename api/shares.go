package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/zeptools/jewel-docs/responses"
	"github.com/zeptools/jewel-docs/sharing"
)

type shareBody struct {
	Path string `json:"path"`
	TTL  string `json:"ttl"` // e.g. "72h"; empty for the default
}

// shareView adds the links to a share
type shareView struct {
	*sharing.Share
	URL  string `json:"url"`            // path of the link on this server
	Link string `json:"link,omitempty"` // absolute link when a public base is configured
}

func (s *Server) view(share *sharing.Share) shareView {
	v := shareView{Share: share, URL: "/s/" + share.Token}
	if s.PublicBase != "" {
		v.Link = strings.TrimSuffix(s.PublicBase, "/") + v.URL
	}
	return v
}

func (s *Server) createShare(w http.ResponseWriter, r *http.Request) {
	var body shareBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&body); err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	var ttl time.Duration
	if body.TTL != "" {
		d, err := time.ParseDuration(body.TTL)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: ttl: %w", errBadRequest, err))
			return
		}
		ttl = d
	}
	release, ok := s.lockPath(w, body.Path)
	if !ok {
		return
	}
	defer release()
	share, err := s.Shares.Create(r.Context(), body.Path, ttl)
	if err != nil {
		writeError(w, r, err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusCreated, s.view(share))
}

func (s *Server) recentShares(w http.ResponseWriter, r *http.Request) {
	n, _ := strconv.Atoi(r.URL.Query().Get("n"))
	shares, err := s.Shares.Recent(r.Context(), n)
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]shareView, len(shares))
	for i, share := range shares {
		views[i] = s.view(share)
	}
	responses.EncodeWriteJSON(w, http.StatusOK, views)
}

// openShare streams the shared document. The token is the only credential.
func (s *Server) openShare(w http.ResponseWriter, r *http.Request) {
	if s.Shares == nil {
		writeError(w, r, sharing.ErrShareNotFound)
		return
	}
	share, err := s.Shares.Resolve(r.Context(), r.PathValue("token"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "private, no-store")
	if err = responses.ServePDFFile(w, r, share.Path); err != nil {
		writeError(w, r, err)
	}
}
