package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/zeptools/jewel-docs/artifacts"
	"github.com/zeptools/jewel-docs/document"
	"github.com/zeptools/jewel-docs/responses"
)

// documentView is an artifacts.Entry with its size for humans
type documentView struct {
	artifacts.Entry
	SizeHuman string `json:"size_human"`
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	var body generateBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxGenerateBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	res, err := s.Generator.Generate(r.Context(), body.request())
	if err != nil {
		writeError(w, r, err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusCreated, res)
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if kind := strings.TrimSpace(q.Get("type")); kind != "" && !strings.EqualFold(kind, "all") {
		if _, ok := document.LookupType(kind); !ok {
			writeError(w, r, fmt.Errorf("%w: unknown document type %q", errBadRequest, kind))
			return
		}
	}
	entries := artifacts.Filter(s.Discovery.Scan(), q.Get("type"), q.Get("q"))
	views := make([]documentView, len(entries))
	for i, e := range entries {
		views[i] = documentView{Entry: e, SizeHuman: artifacts.HumanSize(e.Size)}
	}
	responses.EncodeWriteJSON(w, http.StatusOK, views)
}

func (s *Server) viewDocument(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if !s.Discovery.Contains(path) {
		writeError(w, r, artifacts.ErrOutsideRoots)
		return
	}
	if err := responses.ServePDFFile(w, r, path); err != nil {
		writeError(w, r, err)
	}
}

type deleteResult struct {
	Path    string `json:"path"`
	Records int64  `json:"records"` // matching records removed
	Shares  int    `json:"shares"`  // share links revoked
}

// deleteDocument removes the file, then its records and share links
func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	release, ok := s.lockPath(w, path)
	if !ok {
		return
	}
	defer release()
	if err := s.Discovery.Delete(path); err != nil {
		writeError(w, r, err)
		return
	}
	res := deleteResult{Path: path}
	log := zap.L().With(zap.String("component", "api"), zap.String("path", path))
	if s.Records != nil {
		n, err := s.Records.DeleteByPath(r.Context(), path)
		if err != nil {
			log.Warn("records of deleted document not removed", zap.Error(err))
		}
		res.Records = n
	}
	if s.Shares != nil {
		n, err := s.Shares.RevokePath(r.Context(), path)
		if err != nil {
			log.Warn("shares of deleted document not revoked", zap.Error(err))
		}
		res.Shares = n
	}
	responses.EncodeWriteJSON(w, http.StatusOK, res)
}
