package guard

import (
	"net/http"
)

// loadingBody is the neutral indicator served while hydration is pending.
// Nothing from the guarded subtree is rendered in this state.
const loadingBody = `<!doctype html><title>Loading</title><p>Loading&hellip;</p>`

// Middleware wraps protected routes. While hydrating it serves a neutral
// loading response and asks the client to retry; once hydrated it either
// redirects signed-out visitors to the landing path or passes the request
// through unchanged.
func (g *Guard) Middleware(landingPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch g.State() {
			case StateHydrating:
				w.Header().Set("Retry-After", "1")
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(loadingBody))
			case StateUnauthenticated:
				http.Redirect(w, r, landingPath, http.StatusFound)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
