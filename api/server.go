// Package api is the HTTP surface: documents, records, share links and the document browser page.
package api

import (
	"errors"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zeptools/jewel-docs/artifacts"
	"github.com/zeptools/jewel-docs/docgen"
	"github.com/zeptools/jewel-docs/document"
	"github.com/zeptools/jewel-docs/locks/keyonlylocks"
	"github.com/zeptools/jewel-docs/records"
	"github.com/zeptools/jewel-docs/responses"
	"github.com/zeptools/jewel-docs/routing"
	"github.com/zeptools/jewel-docs/sharing"
	"github.com/zeptools/jewel-docs/throttle"
	"github.com/zeptools/jewel-docs/tpl"
)

// MaxGenerateBody bounds POST /api/documents, inline images included
const MaxGenerateBody = 48 << 20

// Server holds what the handlers need. Records and Shares are optional:
// their routes answer 404 when unset.
type Server struct {
	AppName       string
	PublicBase    string // prefix of share links, e.g. https://docs.example.com. Empty: relative links.
	Generator     *docgen.Generator
	Discovery     *artifacts.Discovery
	Records       *records.Store
	Shares        *sharing.Service
	Verifier      routing.TokenVerifier
	Throttle      *throttle.BucketStore[string]
	ThrottleGroup string
	TrustProxy    bool
	Templates     *tpl.HTMLTemplateStore

	busy sync.Map // document paths being deleted or shared
}

// Routes builds the router.
//
//	GET    /healthz
//	GET    /                         document browser page
//	GET    /s/{token}                shared document
//	POST   /api/documents            generate (throttled per client IP)
//	GET    /api/documents            ?type=&q=
//	DELETE /api/documents            ?path=
//	GET    /api/documents/view       ?path=
//	GET    /api/records
//	GET    /api/records/{id}
//	DELETE /api/records/{id}
//	POST   /api/shares
//	GET    /api/shares
func (s *Server) Routes() http.Handler {
	r := routing.NewRouter()
	r.HandleFunc("GET /healthz", s.healthz)
	r.HandleFunc("GET /{$}", s.browser)
	r.HandleFunc("GET /s/{token}", s.openShare)

	r.Group("/api/", func(api *routing.RouteGroup) {
		throttled := &routing.ThrottleWrapper{
			Store:      s.Throttle,
			Group:      s.ThrottleGroup,
			TrustProxy: s.TrustProxy,
			RetryAfter: 6 * time.Second,
		}
		if s.Throttle != nil {
			api.HandleFunc("POST documents", s.generate, throttled)
		} else {
			api.HandleFunc("POST documents", s.generate)
		}
		api.HandleFunc("GET documents", s.listDocuments)
		api.HandleFunc("DELETE documents", s.deleteDocument)
		api.HandleFunc("GET documents/view", s.viewDocument)

		api.Group("records", func(recs *routing.RouteGroup) {
			recs.HandleFunc("GET ", s.listRecords)
			recs.HandleFunc("GET /{id}", s.getRecord)
			recs.HandleFunc("DELETE /{id}", s.deleteRecord)
		}, s.needs(s.Records != nil, "record store"))

		api.Group("shares", func(shares *routing.RouteGroup) {
			shares.HandleFunc("POST ", s.createShare)
			shares.HandleFunc("GET ", s.recentShares)
		}, s.needs(s.Shares != nil, "share links"))
	}, &routing.AuthWrapper{Verifier: s.Verifier})

	return routing.AccessLog.Wrap(routing.Recover.Wrap(r))
}

// needs answers 404 for a feature that is not configured
func (s *Server) needs(available bool, feature string) routing.HandlerWrapper {
	return routing.HandlerWrapperFunc(func(inner http.Handler) http.Handler {
		if available {
			return inner
		}
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			responses.WriteErrorJSON(w, http.StatusNotFound, responses.CodeNotFound, feature+" not configured")
		})
	})
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	responses.WriteOK(w)
}

// writeError maps an error to a status and an application code
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *document.ValidationError
	switch {
	case errors.As(err, &verr):
		responses.WriteErrorJSON(w, http.StatusBadRequest, responses.CodeInvalidInput, verr.Error())
	case errors.Is(err, errBadRequest):
		responses.WriteErrorJSON(w, http.StatusBadRequest, responses.CodeInvalidInput, err.Error())
	case errors.Is(err, records.ErrNotFound),
		errors.Is(err, sharing.ErrShareNotFound),
		errors.Is(err, sharing.ErrNotShareable),
		errors.Is(err, artifacts.ErrOutsideRoots),
		errors.Is(err, fs.ErrNotExist):
		responses.WriteErrorJSON(w, http.StatusNotFound, responses.CodeNotFound, notFoundMessage(err))
	case errors.Is(err, artifacts.ErrNotWritten), errors.Is(err, artifacts.ErrNoRoots):
		zap.L().Error("storage failure", zap.String("component", "api"), zap.String("path", r.URL.Path), zap.Error(err))
		responses.WriteErrorJSON(w, http.StatusInternalServerError, responses.CodeStorage, err.Error())
	default:
		zap.L().Error("request failed", zap.String("component", "api"), zap.String("path", r.URL.Path), zap.Error(err))
		responses.WriteErrorJSON(w, http.StatusInternalServerError, responses.CodeInternal, "internal server error")
	}
}

// notFoundMessage keeps file system details out of 404 bodies
func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, sharing.ErrShareNotFound):
		return sharing.ErrShareNotFound.Error()
	case errors.Is(err, records.ErrNotFound):
		return records.ErrNotFound.Error()
	default:
		return "document not found"
	}
}

var errBadRequest = errors.New("bad request")

// lockPath holds path for the duration of one request, or answers 409
func (s *Server) lockPath(w http.ResponseWriter, path string) (release func(), ok bool) {
	release, ok = keyonlylocks.TryLock(&s.busy, path)
	if !ok {
		responses.WriteErrorJSON(w, http.StatusConflict, responses.CodeBusy, "document is busy, retry shortly")
	}
	return release, ok
}
