package requests

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.10:5123"
	r.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")

	assert.Equal(t, "192.0.2.10", ClientIP(r, false))
	assert.Equal(t, "203.0.113.5", ClientIP(r, true))

	r.Header.Del("X-Forwarded-For")
	r.Header.Set("X-Real-IP", " 198.51.100.7 ")
	assert.Equal(t, "198.51.100.7", ClientIP(r, true))

	r.RemoteAddr = "not-an-addr"
	assert.Equal(t, "not-an-addr", ClientIP(r, false))
}

func TestURLs(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://docs.local:8080/api/documents?type=bill", nil)
	assert.Equal(t, "http://docs.local:8080/api/documents?type=bill", FullURL(r))
	assert.Equal(t, "http://docs.local:8080", BaseURL(r))

	r.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://docs.local:8080", BaseURL(r))
}

func TestHasBody(t *testing.T) {
	assert.False(t, HasBody(httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.False(t, HasBody(httptest.NewRequest(http.MethodPost, "/", nil)))
	assert.True(t, HasBody(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))))
}
