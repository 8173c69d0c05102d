package utils // package utils provides helper functions for token creation and hashing

import (
    "errors"  // sentinel error values and errors.Is matching
    "strconv" // numeric user IDs are carried as string subjects
    "time"    // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
    "github.com/google/uuid"       // uuid generates the refresh token_id (jti)
)

// Token type values carried in the "type" claim.  Access tokens authorize
// individual requests; refresh tokens may only be exchanged for a new pair.
const (
    TokenTypeAccess  = "access"
    TokenTypeRefresh = "refresh"
)

// Decode failures are collapsed into three sentinel errors so that callers
// can map them onto HTTP responses without importing the jwt package.
var (
    ErrTokenExpired   = errors.New("token expired")
    ErrTokenSignature = errors.New("invalid token signature")
    ErrTokenMalformed = errors.New("malformed token")
)

// Claims is the payload shared by both token classes.  Role snapshots the
// user's role at issuance; TokenType distinguishes the two classes;
// TokenID is the unique identifier of a refresh token and is empty on
// access tokens.  Subject, IssuedAt and ExpiresAt live in the embedded
// registered claims.
type Claims struct {
    Role      string `json:"role"`
    TokenType string `json:"type"`
    TokenID   string `json:"token_id,omitempty"`
    jwt.RegisteredClaims
}

// UserID parses the subject claim into the numeric user ID.  A missing or
// non-numeric subject is reported as a malformed token.
func (c *Claims) UserID() (uint64, error) {
    if c.Subject == "" {
        return 0, ErrTokenMalformed
    }
    id, err := strconv.ParseUint(c.Subject, 10, 64)
    if err != nil {
        return 0, ErrTokenMalformed
    }
    return id, nil
}

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are short‑lived and sent in the Authorization header when
// calling protected endpoints.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// RefreshToken represents a long‑lived signed token used to obtain new
// access tokens.  TokenID is the token's unique identifier claim; only this
// identifier (never the signed blob) is persisted server-side.
type RefreshToken struct {
    Token   string    // the serialized JWT string returned to the client
    TokenID string    // unique token identifier, the metadata lookup key
    Exp     time.Time // UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user.  It takes the
// access signing secret, the user ID, the user's role, and a TTL in
// minutes.  The claims carry subject, role, type="access", issued-at and
// expiration.
func NewAccessToken(secret string, userID uint64, role string, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := Claims{
        Role:      role,
        TokenType: TokenTypeAccess,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   strconv.FormatUint(userID, 10),
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(exp),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken builds and signs an HS256 refresh JWT.  Each refresh
// token carries a freshly generated token_id which serves as the lookup
// key for the persisted metadata row.  The ttlDays parameter controls how
// many days the token stays valid.
func NewRefreshToken(secret string, userID uint64, role string, ttlDays int) (RefreshToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlDays) * 24 * time.Hour)
    tokenID := uuid.NewString()
    claims := Claims{
        Role:      role,
        TokenType: TokenTypeRefresh,
        TokenID:   tokenID,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   strconv.FormatUint(userID, 10),
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(exp),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return RefreshToken{}, err
    }
    return RefreshToken{Token: signed, TokenID: tokenID, Exp: exp}, nil
}

// ParseToken verifies the signature and expiry of a token and returns its
// claims.  The signing method must be HMAC; tokens signed with any other
// algorithm are rejected.  Failures are reported through the sentinel
// errors above: ErrTokenExpired when exp is in the past, ErrTokenSignature
// when the signature does not verify under the given secret, and
// ErrTokenMalformed for anything that is not a well-formed token.
func ParseToken(raw, secret string) (*Claims, error) {
    claims := &Claims{}
    tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrTokenSignature
        }
        return []byte(secret), nil
    })
    if err != nil {
        switch {
        case errors.Is(err, jwt.ErrTokenExpired):
            return nil, ErrTokenExpired
        case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrTokenSignature):
            return nil, ErrTokenSignature
        default:
            return nil, ErrTokenMalformed
        }
    }
    if !tok.Valid {
        return nil, ErrTokenMalformed
    }
    return claims, nil
}
