package auth

import "github.com/gin-gonic/gin"

// SecurityHeadersMiddleware adds security headers to all responses.
// Pages load Bulma from jsDelivr and keep their annotation scripts inline.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	const cdn = "https://cdn.jsdelivr.net"

	csp := "default-src 'self'; " +
		"script-src 'self' 'unsafe-inline' " + cdn + "; " +
		"style-src 'self' 'unsafe-inline' " + cdn + "; " +
		"img-src 'self' data:; " +
		"font-src 'self' " + cdn + "; " +
		"connect-src 'self'; " +
		"frame-ancestors 'none'; " +
		"form-action 'self'"

	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", csp)
		c.Header("Permissions-Policy", "camera=(), geolocation=(), microphone=(), payment=(), usb=()")

		if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
