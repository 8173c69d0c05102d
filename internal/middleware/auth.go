package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "context"  // context with timeout bounds the identity lookup
    "errors"   // errors.Is matches repository sentinels
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming
    "time"     // timeout durations

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/job-board/internal/repository"
    "github.com/iliyamo/job-board/internal/utils"
)

// identityKey is the context key under which the resolved user is stored.
const identityKey = "identity"

// UserStore is the credential-store dependency of the authenticator. The
// concrete *repository.UserRepo satisfies it; tests substitute fakes.
type UserStore interface {
    GetByID(ctx context.Context, id uint64) (*repository.User, error)
}

// Authenticate returns an Echo middleware that resolves a Bearer access
// token to a concrete user identity.  The token is decoded with the access
// secret, its type claim must be "access", and the subject must reference
// an existing user.  The user row is re-read from storage on every request
// rather than trusted from the token, so tokens of deleted users stop
// working immediately and role changes apply before the token expires.
// Any failure along the way yields 401; handlers behind this middleware
// can rely on CurrentUser returning a live record.
func Authenticate(secret string, users UserStore) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            claims, err := utils.ParseToken(raw, secret)
            if err != nil {
                // Expired, bad signature and malformed all collapse to 401;
                // the client must re-authenticate either way.
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            if claims.TokenType != utils.TokenTypeAccess {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            uid, err := claims.UserID()
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
            defer cancel()

            u, err := users.GetByID(ctx, uid)
            if err != nil {
                if errors.Is(err, repository.ErrUserNotFound) {
                    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
                }
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
            }

            c.Set(identityKey, u)
            return next(c)
        }
    }
}

// CurrentUser returns the user resolved by Authenticate for this request.
// The boolean is false when the middleware did not run or failed.
func CurrentUser(c echo.Context) (*repository.User, bool) {
    u, ok := c.Get(identityKey).(*repository.User)
    return u, ok
}
