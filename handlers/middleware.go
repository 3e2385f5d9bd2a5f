package handlers

import (
	"crypto/subtle"
	"log"
	"net/http"
)

// RequireSecret only lets requests through whose Authorization header equals secret.
// With an empty secret every request is rejected.
func RequireSecret(secret string) func(http.Handler) http.Handler {
	if secret == "" {
		log.Println("Warning: no shared secret configured, system routes are disabled")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("Authorization")
			if secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
