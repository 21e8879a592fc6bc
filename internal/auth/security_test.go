package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeRedirectPath(t *testing.T) {
	kept := []string{
		"/",
		"/projects/3",
		"/projects/3/docs?page=2",
		"/projects/3/docs/download",
	}
	for _, path := range kept {
		assert.Equal(t, path, sanitizeRedirectPath(path), path)
	}

	replaced := []string{
		"",
		"//evil.com",
		"https://evil.com",
		"/https://evil.com",
		"/projects\\..\\evil",
		"\\evil.com",
		"javascript:alert(1)",
		"projects/3",
	}
	for _, path := range replaced {
		assert.Equal(t, "/projects", sanitizeRedirectPath(path), path)
	}
}

func TestSecurityHeaders(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/projects", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve := func(proto string) http.Header {
		req := httptest.NewRequest(http.MethodGet, "/projects", nil)
		if proto != "" {
			req.Header.Set("X-Forwarded-Proto", proto)
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr.Header()
	}

	plain := serve("")
	assert.Equal(t, "DENY", plain.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", plain.Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", plain.Get("Referrer-Policy"))
	assert.Empty(t, plain.Get("Strict-Transport-Security"), "no HSTS over plain HTTP")

	csp := plain.Get("Content-Security-Policy")
	for _, directive := range []string{"default-src 'self'", "frame-ancestors 'none'", "https://cdn.jsdelivr.net"} {
		assert.Contains(t, csp, directive)
	}

	assert.NotEmpty(t, serve("https").Get("Strict-Transport-Security"))
}

func TestUsernamePattern(t *testing.T) {
	valid := []string{"ann", "annotator1", "lead_linguist", "ner-team", strings.Repeat("a", 64)}
	invalid := []string{"", "a", "an", "ann.smith", "ann@corp", "ann smith", "añn", strings.Repeat("a", 65)}

	for _, name := range valid {
		assert.True(t, usernamePattern.MatchString(name), name)
	}
	for _, name := range invalid {
		assert.False(t, usernamePattern.MatchString(name), name)
	}
}

func TestEmailPattern(t *testing.T) {
	valid := []string{"ann@example.com", "ann.smith@example.com", "ann+reviews@example.com", "ann@nlp.example.org"}
	invalid := []string{"ann", "@example.com", "ann@", "ann@.com", "ann@example", "ann @example.com"}

	for _, email := range valid {
		assert.True(t, emailPattern.MatchString(email), email)
	}
	for _, email := range invalid {
		assert.False(t, emailPattern.MatchString(email), email)
	}
}
