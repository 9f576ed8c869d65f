package auth

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	SessionName      = "postboard_session"
	sessionUserIDKey = "user_id"
	sessionMaxAge    = 60 * 60 * 24 * 7
)

// NewCookieStore создает хранилище сессий в подписанных cookie
func NewCookieStore(secret []byte) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// StartSession запоминает пользователя в cookie сессии
func (a *Authenticator) StartSession(w http.ResponseWriter, r *http.Request, userID uint) error {
	session, err := a.sessions.Get(r, SessionName)
	if err != nil {
		// испорченная cookie - начинаем новую сессию
		session, err = a.sessions.New(r, SessionName)
		if session == nil {
			return fmt.Errorf("could not create session: %w", err)
		}
	}

	session.Values[sessionUserIDKey] = userID
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("could not save session: %w", err)
	}
	return nil
}

// EndSession удаляет cookie сессии
func (a *Authenticator) EndSession(w http.ResponseWriter, r *http.Request) error {
	session, err := a.sessions.Get(r, SessionName)
	if session == nil {
		return fmt.Errorf("could not load session: %w", err)
	}

	delete(session.Values, sessionUserIDKey)
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("could not clear session: %w", err)
	}
	return nil
}

func (a *Authenticator) userIDFromSession(r *http.Request) (uint, bool) {
	if a.sessions == nil {
		return 0, false
	}
	session, err := a.sessions.Get(r, SessionName)
	if err != nil || session == nil {
		return 0, false
	}
	id, ok := session.Values[sessionUserIDKey].(uint)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}
