package routing

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/zeptools/jewel-docs/requests"
	"github.com/zeptools/jewel-docs/responses"
	"github.com/zeptools/jewel-docs/throttle"
)

// ThrottleWrapper limits requests per client IP with the bucket group Group
type ThrottleWrapper struct {
	Store      *throttle.BucketStore[string]
	Group      string
	TrustProxy bool
	RetryAfter time.Duration
	Now        func() time.Time
}

func (t *ThrottleWrapper) Wrap(inner http.Handler) http.Handler {
	now := t.Now
	if now == nil {
		now = time.Now
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := requests.ClientIP(r, t.TrustProxy)
		if !t.Store.Allow(t.Group, ip, now()) {
			zap.L().Info("request throttled",
				zap.String("component", "routing"),
				zap.String("group", t.Group),
				zap.String("ip", ip))
			if t.RetryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(t.RetryAfter.Seconds())))
			}
			responses.WriteErrorJSON(w, http.StatusTooManyRequests, responses.CodeThrottled, "too many requests")
			return
		}
		inner.ServeHTTP(w, r)
	})
}
