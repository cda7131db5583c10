package routing

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/zeptools/jewel-docs/responses"
)

// Recover answers 500 instead of dropping the connection when a handler panics
var Recover = HandlerWrapperFunc(RecoverWrapper)

func RecoverWrapper(inner http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				zap.L().Error("panic recovered",
					zap.String("component", "routing"),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()))
				responses.WriteErrorJSON(w, http.StatusInternalServerError, responses.CodeInternal, "internal server error")
			}
		}()
		inner.ServeHTTP(w, r)
	})
}
