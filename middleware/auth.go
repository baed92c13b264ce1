package middleware

import (
	"net/http"

	"Reelpick/services"

	json "github.com/goccy/go-json"
)

// RequireAuth rejects unauthenticated API requests with a JSON 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := services.GetSession(r)
		if err != nil {
			unauthorized(w)
			return
		}

		userID, ok := session.Values["user_id"]
		if !ok {
			unauthorized(w)
			return
		}

		id, ok := userID.(int64)
		if !ok {
			unauthorized(w)
			return
		}

		// Verify the user still exists
		if _, err := services.GetUserByID(id); err != nil {
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}
