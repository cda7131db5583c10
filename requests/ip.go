package requests

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the client address. Forwarding headers are only honoured behind a
// trusted reverse proxy, otherwise any client could pick its own throttle key.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		// first entry of X-Forwarded-For
		if xForwardedFor := r.Header.Get("X-Forwarded-For"); xForwardedFor != "" {
			first, _, _ := strings.Cut(xForwardedFor, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if xRealIP := r.Header.Get("X-Real-IP"); xRealIP != "" {
			return strings.TrimSpace(xRealIP)
		}
	}
	hostIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return hostIP
}
