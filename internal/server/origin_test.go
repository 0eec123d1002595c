package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithOrigin(origin string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	if origin != "" {
		r.Header.Set("Origin", origin)
	}
	return r
}

func TestNormalizeOrigin(t *testing.T) {
	tests := []struct {
		name   string
		origin string
		want   string
		ok     bool
	}{
		{"plain origin", "http://example.com", "http://example.com", true},
		{"uppercase host", "HTTP://EXAMPLE.COM", "http://example.com", true},
		{"with port", "https://example.com:8443", "https://example.com:8443", true},
		{"missing scheme", "example.com", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := normalizeOrigin(tt.origin)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsOriginAllowed(t *testing.T) {
	t.Cleanup(func() { SetConfig(nil) })
	SetConfig(&Config{AllowedOrigins: []string{"http://allowed.test"}})

	assert.True(t, isOriginAllowed(requestWithOrigin("http://allowed.test")))
	assert.True(t, isOriginAllowed(requestWithOrigin("http://ALLOWED.test")))
	assert.False(t, isOriginAllowed(requestWithOrigin("http://blocked.test")))
	assert.False(t, isOriginAllowed(requestWithOrigin("")))
}

func TestWildcardOriginAllowsEverything(t *testing.T) {
	t.Cleanup(func() { SetConfig(nil) })
	SetConfig(&Config{AllowedOrigins: []string{"*"}})

	assert.True(t, isOriginAllowed(requestWithOrigin("http://anything.test")))
	assert.False(t, isOriginAllowed(requestWithOrigin("")), "missing Origin header is still rejected")
}

func TestInvalidConfiguredOriginsAreIgnored(t *testing.T) {
	t.Cleanup(func() { SetConfig(nil) })
	SetConfig(&Config{AllowedOrigins: []string{"not a url", "http://good.test"}})

	assert.True(t, isOriginAllowed(requestWithOrigin("http://good.test")))
	assert.False(t, isOriginAllowed(requestWithOrigin("not a url")))
}
