package middleware

import (
	"net/http"

	"github.com/crewjam/csp"
)

// SecurityHeaders sets conservative response headers on every response.
// With withCSP the site is limited to same-origin resources.
func SecurityHeaders(withCSP bool) func(http.Handler) http.Handler {
	policy := csp.Header{
		DefaultSrc: []string{"'self'"},
	}.String()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if withCSP {
				h.Set("Content-Security-Policy", policy)
			}
			next.ServeHTTP(w, r)
		})
	}
}
