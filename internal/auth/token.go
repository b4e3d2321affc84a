package auth

import (
	"net/http"
)

const (
	AdminKeyHeader = "X-Admin-Key"
	AdminKeyQuery  = "key"
)

// ExtractCredential reads the admin key from the X-Admin-Key header, falling
// back to the "key" query parameter.
func ExtractCredential(r *http.Request) string {
	if v := r.Header.Get(AdminKeyHeader); v != "" {
		return v
	}
	return r.URL.Query().Get(AdminKeyQuery)
}
