package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/zeptools/jewel-docs/responses"
)

func (s *Server) listRecords(w http.ResponseWriter, r *http.Request) {
	recs, err := s.Records.All(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusOK, recs)
}

func recordID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid record id %q", errBadRequest, r.PathValue("id"))
	}
	return id, nil
}

func (s *Server) getRecord(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := s.Records.ByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusOK, rec)
}

// deleteRecord removes the row only; the document file stays
func (s *Server) deleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err = s.Records.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	responses.WriteOK(w)
}
