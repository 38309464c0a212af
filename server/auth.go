package server

import (
	"net/http"
	"strings"
)

// NormalizeAuthorization cleans up common client mistakes seen in incoming
// Authorization values: surrounding quotes, stray whitespace, and a missing
// or non-standard scheme. A bare token becomes "Bearer <token>".
func NormalizeAuthorization(raw string) string {
	auth := strings.TrimSpace(raw)
	if auth == "" {
		return ""
	}

	if len(auth) >= 2 {
		if (auth[0] == '"' && auth[len(auth)-1] == '"') || (auth[0] == '\'' && auth[len(auth)-1] == '\'') {
			auth = strings.TrimSpace(auth[1 : len(auth)-1])
		}
	}
	if auth == "" {
		return ""
	}

	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return auth
	}

	// "Token <token>" or a raw token: take the last part as the token.
	parts := strings.Fields(auth)
	return "Bearer " + parts[len(parts)-1]
}

func requestHeaders(r *http.Request) http.Header {
	headers := r.Header.Clone()
	if raw := headers.Get("Authorization"); raw != "" {
		headers.Set("Authorization", NormalizeAuthorization(raw))
	}
	return headers
}
