package requests

import "net/http"

func HasBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodDelete:
		return false
	default:
		return r.Body != nil && r.Body != http.NoBody
	}
}
