package middleware

import (
	"context"
	"net/http"
	"strings"

	"tickethub/internal/models"

	"github.com/gorilla/sessions"
)

type contextKey string

const (
	// UserContextKey holds the authenticated *models.User on the request context
	UserContextKey contextKey = "user"

	sessionName     = "session"
	sessionIDKey    = "session_id"
	authBearerSplit = "Bearer "
)

// SessionValidator resolves a session ID to its user
type SessionValidator interface {
	ValidateSession(sessionID string) (*models.User, error)
}

// AuthMiddleware provides session-based authentication. The session ID is
// read from the session cookie, with an Authorization Bearer fallback for
// API clients that don't hold cookies.
type AuthMiddleware struct {
	authService SessionValidator
	store       sessions.Store
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(authService SessionValidator, store sessions.Store) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		store:       store,
	}
}

// LoadUser resolves the current user, if any, and adds them to the request
// context. Requests without a valid session continue anonymously.
func (m *AuthMiddleware) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := m.SessionIDFromRequest(r)
		if sessionID == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.authService.ValidateSession(sessionID)
		if err != nil {
			// Continue without user if the session is invalid
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects requests without an authenticated user
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireOrganizer rejects requests unless the user is an organizer
func (m *AuthMiddleware) RequireOrganizer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !user.IsOrganizer() {
			writeJSONError(w, http.StatusForbidden, "organizer role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SaveSession writes the session ID into the cookie store after login
func (m *AuthMiddleware) SaveSession(w http.ResponseWriter, r *http.Request, sessionID string) error {
	session, err := m.store.Get(r, sessionName)
	if err != nil {
		// A stale cookie decodes to an error but still yields a fresh session
		session, _ = m.store.New(r, sessionName)
	}
	session.Values[sessionIDKey] = sessionID
	return session.Save(r, w)
}

// ClearSession drops the session cookie on logout
func (m *AuthMiddleware) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session, err := m.store.Get(r, sessionName)
	if err != nil {
		return nil
	}
	delete(session.Values, sessionIDKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

func (m *AuthMiddleware) SessionIDFromRequest(r *http.Request) string {
	if session, err := m.store.Get(r, sessionName); err == nil {
		if sessionID, ok := session.Values[sessionIDKey].(string); ok && sessionID != "" {
			return sessionID
		}
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, authBearerSplit) {
		return strings.TrimPrefix(authHeader, authBearerSplit)
	}

	return ""
}

// UserFromContext returns the authenticated user, or nil
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserContextKey).(*models.User)
	return user
}
