package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"mediadock/internal/logging"
	"mediadock/internal/store"
)

// Keyword is the Authorization scheme accepted by Authenticate.
const Keyword = "Bearer"

// Rejection messages returned in the 401 body.
const (
	MsgNotProvided = "Authentication credentials were not provided."
	MsgNoKey       = "Invalid token header. No credentials provided."
	MsgSpaces      = "Invalid token header. Token string should not contain spaces."
	MsgInvalid     = "Invalid token"
	MsgInactive    = "User inactive or deleted"
)

// Error is an authentication failure carrying the client-facing message.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// TokenLookup resolves a token key to its owner, returning nil, nil for
// unknown keys.
type TokenLookup interface {
	UserByToken(ctx context.Context, key string) (*store.User, error)
}

// Authenticate validates the Authorization header value. Failures that the
// caller should see are *Error; anything else is a lookup failure.
func Authenticate(ctx context.Context, lookup TokenLookup, header string) (*store.User, error) {
	fields := strings.Fields(header)
	if len(fields) == 0 || !strings.EqualFold(fields[0], Keyword) {
		return nil, &Error{Message: MsgNotProvided}
	}
	switch {
	case len(fields) == 1:
		return nil, &Error{Message: MsgNoKey}
	case len(fields) > 2:
		return nil, &Error{Message: MsgSpaces}
	}

	user, err := lookup.UserByToken(ctx, fields[1])
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &Error{Message: MsgInvalid}
	}
	if !user.IsActive {
		return nil, &Error{Message: MsgInactive}
	}
	return user, nil
}

type userKey struct{}

// WithUser stores the authenticated user on ctx.
func WithUser(ctx context.Context, user *store.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*store.User, bool) {
	user, ok := ctx.Value(userKey{}).(*store.User)
	return user, ok && user != nil
}

// Middleware rejects unauthenticated requests with 401 and otherwise calls
// next with the user attached to the request context.
func Middleware(lookup TokenLookup, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logging.NewComponentLogger(logger, "auth")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			user, err := Authenticate(ctx, lookup, r.Header.Get("Authorization"))
			if err != nil {
				var authErr *Error
				if errors.As(err, &authErr) {
					logging.WithContext(ctx, logger).Debug("request rejected",
						logging.String("reason", authErr.Message),
						logging.String("path", r.URL.Path),
					)
					w.Header().Set("WWW-Authenticate", Keyword+` realm="api"`)
					writeError(w, http.StatusUnauthorized, authErr.Message)
					return
				}
				logging.ErrorWithContext(logging.WithContext(ctx, logger), "token lookup failed", "auth_lookup_failed",
					logging.Error(err),
				)
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			ctx = WithUser(ctx, user)
			ctx = logging.WithUser(ctx, user.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
