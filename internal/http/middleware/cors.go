package middleware

import (
	"net/http"
	"strings"
)

// CORS applies the intake endpoint's CORS policy. The storefront posts from
// the shop domain, so the allowed origin is configurable; "*" allows any.
func CORS(allowedOrigin string) func(http.Handler) http.Handler {
	allowedOrigin = strings.TrimSpace(allowedOrigin)
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ApplyHeaders(w.Header(), allowedOrigin)

			// Preflight handshake: headers only, no body processing.
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ApplyHeaders writes the CORS response headers. Exported for the Lambda
// entrypoint, which rejects undecodable bodies before the middleware runs.
func ApplyHeaders(h http.Header, allowedOrigin string) {
	h.Set("Access-Control-Allow-Origin", allowedOrigin)
	h.Set("Access-Control-Allow-Methods", "POST,OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	h.Set("Access-Control-Max-Age", "86400")
	h.Add("Vary", "Origin")
}
