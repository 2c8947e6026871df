package auth

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
)

const (
	SessionName   = "afford_session"
	sessionMaxAge = 60 * 60 * 24
	userIDKey     = "user_id"
	issuedAtKey   = "issued_at"
)

// sessionTTL bounds a session on the server side, independent of what the
// browser does with the cookie.
const sessionTTL = sessionMaxAge * time.Second

// NewSessionStore returns the signed-cookie store. Only the user id is kept in
// the cookie; everything else is looked up per request.
func NewSessionStore(secret []byte, secure bool) sessions.Store {
	store := cookie.NewStore(secret)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	// Options only reaches the cookie attributes; the codec keeps its own
	// 30-day limit unless told otherwise.
	if s, ok := store.(interface{ MaxAge(int) }); ok {
		s.MaxAge(sessionMaxAge)
	}
	return store
}

func StartSession(sess sessions.Session, userID string) error {
	sess.Clear()
	sess.Set(userIDKey, userID)
	sess.Set(issuedAtKey, time.Now().Unix())
	return sess.Save()
}

func SessionUserID(sess sessions.Session) (string, bool) {
	id, ok := sess.Get(userIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	issued, ok := sess.Get(issuedAtKey).(int64)
	if !ok || time.Since(time.Unix(issued, 0)) > sessionTTL {
		return "", false
	}
	return id, true
}

func EndSession(sess sessions.Session) error {
	sess.Clear()
	sess.Options(sessions.Options{Path: "/", MaxAge: -1})
	return sess.Save()
}
