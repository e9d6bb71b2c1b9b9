package chi

import "net/http"

// exemptPaths are routes that bypass authentication (probes, metrics,
// service info).
var exemptPaths = map[string]struct{}{
	"/":              {},
	"/health":        {},
	"/metrics":       {},
	"/api/v1/health": {},
}

// APIKeyMiddleware returns a middleware that validates the x-api-key
// header. If apiKeys is empty, authentication is disabled (pass-through).
func APIKeyMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	validKeys := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			validKeys[k] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		// Auth disabled — pass everything through
		if len(validKeys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("x-api-key")
			if key == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing x-api-key header")
				return
			}
			if _, ok := validKeys[key]; !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
