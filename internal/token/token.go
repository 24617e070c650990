// Package token implements the auth token lifecycle: issuing signed
// bearer tokens bound to a user and an expiry, verifying presented
// tokens, and revoking them ahead of their natural expiry (logout).
//
// Tokens are HS256-signed compact tokens. The signature alone proves
// authenticity and the embedded expiry proves freshness, so verification
// needs no server-side lookup except the final revocation check. That
// check is deliberately last: the cheap local checks (signature, expiry)
// run first so only well-formed, unexpired tokens ever reach the store.
package token

import (
    "context"
    "crypto/sha256"
    "encoding/hex"
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/google/uuid"
)

// Verification failures. All four are terminal for the request; the
// HTTP layer maps each of them to a 401 response.
var (
    // ErrMalformed means the token could not be decoded or lacks
    // required claims.
    ErrMalformed = errors.New("token malformed")
    // ErrInvalidSignature means the signature does not match the
    // payload under the server secret.
    ErrInvalidSignature = errors.New("token signature invalid")
    // ErrExpired means the token's embedded expiry has passed.
    ErrExpired = errors.New("token expired")
    // ErrRevoked means the token was explicitly invalidated before
    // its natural expiry.
    ErrRevoked = errors.New("token revoked")
)

// RevocationStore is the set of tokens invalidated before natural
// expiry. Membership is exact-match on the token's hash. Revoking an
// already-revoked token must be a no-op, not an error.
type RevocationStore interface {
    Revoke(ctx context.Context, tokenHash string, expiresAt time.Time) error
    IsRevoked(ctx context.Context, tokenHash string) (bool, error)
}

// Claims is the signed token payload: the subject user, the standard
// issued-at / expires-at instants, and a unique jti. The jti makes
// every issued token a distinct byte string even for the same user
// and instant, so revoking one token never revokes a later one.
type Claims struct {
    UserID uint64 `json:"user_id"`
    jwt.RegisteredClaims
}

// Service mints and verifies auth tokens. The signing secret and TTL
// are injected at construction so each test can run with its own key
// and a short expiry.
type Service struct {
    secret  []byte
    ttl     time.Duration
    revoked RevocationStore
}

// NewService returns a Service signing with secret, issuing tokens
// valid for ttl and consulting store on every verification.
func NewService(secret string, ttl time.Duration, store RevocationStore) *Service {
    return &Service{secret: []byte(secret), ttl: ttl, revoked: store}
}

// Issue builds and signs a token for the user valid from now until
// now + TTL. It is stateless: nothing is persisted at issuance.
func (s *Service) Issue(userID uint64, now time.Time) (string, time.Time, error) {
    exp := now.UTC().Add(s.ttl)
    claims := &Claims{
        UserID: userID,
        RegisteredClaims: jwt.RegisteredClaims{
            ID:        uuid.NewString(),
            IssuedAt:  jwt.NewNumericDate(now.UTC()),
            ExpiresAt: jwt.NewNumericDate(exp),
        },
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString(s.secret)
    if err != nil {
        return "", time.Time{}, err
    }
    return signed, exp, nil
}

// Verify checks a presented token against the instant now and returns
// the embedded user ID. Checks run in a fixed order: decode, signature
// (constant-time comparison inside the jwt library), expiry, and only
// then the revocation store. Revocation is the sole I/O in the path.
func (s *Service) Verify(ctx context.Context, raw string, now time.Time) (uint64, error) {
    claims, err := s.parse(raw, now)
    if err != nil {
        return 0, err
    }
    revoked, err := s.revoked.IsRevoked(ctx, HashToken(raw))
    if err != nil {
        return 0, err
    }
    if revoked {
        return 0, ErrRevoked
    }
    return claims.UserID, nil
}

// Revoke permanently invalidates a token ahead of its expiry. The
// token must carry a valid signature; a token that has already
// expired needs no revocation record, so revoking it is a silent
// no-op. Revoking the same token twice is also a no-op.
func (s *Service) Revoke(ctx context.Context, raw string, now time.Time) error {
    claims, err := s.parse(raw, now)
    if errors.Is(err, ErrExpired) {
        return nil
    }
    if err != nil {
        return err
    }
    return s.revoked.Revoke(ctx, HashToken(raw), claims.ExpiresAt.Time)
}

// parse decodes and validates the token locally (no store access) and
// maps jwt library failures onto the package's error taxonomy.
func (s *Service) parse(raw string, now time.Time) (*Claims, error) {
    claims := &Claims{}
    _, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
        return s.secret, nil
    },
        jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
        jwt.WithExpirationRequired(),
        jwt.WithTimeFunc(func() time.Time { return now }),
    )
    switch {
    case err == nil:
        return claims, nil
    case errors.Is(err, jwt.ErrTokenSignatureInvalid):
        return nil, ErrInvalidSignature
    case errors.Is(err, jwt.ErrTokenExpired):
        return nil, ErrExpired
    default:
        return nil, ErrMalformed
    }
}

// HashToken returns the SHA‑256 hash of the raw token as a hex string.
// The revocation store keys entries by this digest rather than the
// token itself, so a leaked store dump exposes no usable credentials.
func HashToken(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}
