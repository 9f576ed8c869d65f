package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
)

// Authenticator определяет пользователя запроса по Bearer JWT или по cookie сессии.
// Проверку паролей он не делает - только читает уже выданные учетные данные.
type Authenticator struct {
	secret   []byte
	sessions sessions.Store
}

func NewAuthenticator(jwtSecret []byte, store sessions.Store) *Authenticator {
	return &Authenticator{
		secret:   jwtSecret,
		sessions: store,
	}
}

// Secret нужен обработчику логина, чтобы выдать токен тем же ключом
func (a *Authenticator) Secret() []byte {
	return a.secret
}

// Middleware извлекает userID и помещает его в context.
// Анонимные запросы и невалидные токены пропускаются дальше без userID.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, ok := a.resolve(r); ok {
			r = r.WithContext(WithUserID(r.Context(), userID))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth отвечает 401 до разбора тела запроса, если пользователь не определен
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := GetUserIDFromContext(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			if err := json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"}); err != nil {
				log.Printf("Failed to encode unauthorized response: %v", err)
			}
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) resolve(r *http.Request) (uint, bool) {
	tokenStr := extractTokenFromHeader(r.Header.Get("Authorization"))
	if tokenStr != "" && len(a.secret) > 0 {
		userID, err := ParseToken(a.secret, tokenStr)
		if err == nil {
			return userID, true
		}
	}

	return a.userIDFromSession(r)
}

func extractTokenFromHeader(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
