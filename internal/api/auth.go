package api

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

const keyPrefix = "dco_"

// RequireAPIKey guards reporting routes with a bearer API key. The stored
// hash is sha256 of the full key material; revoked and expired keys fail the
// lookup.
func (h *Handler) RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || !strings.HasPrefix(token, keyPrefix) {
			writeError(w, http.StatusUnauthorized, "missing or invalid authorization header")
			return
		}

		sum := sha256.Sum256([]byte(token))
		if _, err := h.store.LookupAPIKey(r.Context(), hex.EncodeToString(sum[:])); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}
