// Package apicors provides CORS middleware for open API endpoints.
//
// The data API serves read-only archive payloads to other forecastviz
// instances and to embedding pages on arbitrary domains. There are no
// cookies or credentials on that surface, so:
//   - Origins can be "*" (any origin) since there is nothing to protect
//   - AllowCredentials stays false
//
// The session command API does NOT use this package; it is same-origin
// and CSRF-protected.
package apicors

import (
	"net/http"
)

// Middleware returns permissive CORS middleware for the data API.
//
// This middleware:
//   - Allows any origin (Access-Control-Allow-Origin: *)
//   - Does not allow credentials
//   - Allows common API methods and headers
//   - Handles preflight OPTIONS requests
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
			w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
