package auth

import (
	"net/http"
	"net/url"
	"strings"
)

const bearerPrefix = "Bearer "

// ExtractToken pulls the bearer credential from handshake metadata.
// Order: a non-empty "token" query parameter wins, then an
// "Authorization: Bearer <token>" header. Returns false when neither is
// present.
func ExtractToken(query url.Values, header http.Header) (string, bool) {
	if token := query.Get("token"); token != "" {
		return token, true
	}

	authHeader := header.Get("Authorization")
	if strings.HasPrefix(authHeader, bearerPrefix) {
		if token := strings.TrimPrefix(authHeader, bearerPrefix); token != "" {
			return token, true
		}
	}

	return "", false
}
