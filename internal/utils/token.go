package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/rand"   // secure random number generation
    "crypto/sha256" // SHA‑256 hashing for reset tokens
    "encoding/hex"  // hex encoding and decoding functions
    "time"          // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ResetTokenTTL is how long a password reset token remains redeemable after
// it has been issued.
const ResetTokenTTL = 10 * time.Minute

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.  Access tokens are short‑lived and encoded
// in the Authorization header when calling protected endpoints.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// ResetToken carries a freshly issued password reset token.  Raw is the
// plaintext value handed back exactly once for out‑of‑band delivery; the
// database only ever sees Digest, the SHA‑256 hex of Raw, together with
// the Exp expiry.  A stolen table row is therefore useless on its own.
type ResetToken struct {
    Raw    string    // plaintext token, returned once to the caller
    Digest string    // sha256 hex digest stored alongside the user
    Exp    time.Time // UTC expiry, ResetTokenTTL from issuance
}

// NewAccessToken builds and signs an HS256 JWT for a user.  It takes the
// signing secret, the user ID, the user's role, and a TTL in minutes.  The
// JWT includes standard claims: subject (sub), role, expiration (exp) and
// issued at (iat).  The iat claim carries whole‑second resolution; the
// freshness guard relies on that granularity when comparing against the
// stored password change time.
func NewAccessToken(secret string, userID uint64, role string, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":  userID,
        "role": role,
        "exp":  exp.Unix(),
        "iat":  now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// NewResetToken generates a cryptographically random 32‑byte reset token.
// The raw hex form goes to the user (by mail); only the digest and expiry
// are persisted.  If the random number generator fails, an error is
// returned and nothing is issued.
func NewResetToken() (ResetToken, error) {
    raw, err := randomHex(32) // 32 bytes -> 64 hex chars
    if err != nil {
        return ResetToken{}, err
    }
    return ResetToken{
        Raw:    raw,
        Digest: HashResetRaw(raw),
        Exp:    time.Now().UTC().Add(ResetTokenTTL),
    }, nil
}

// HashResetRaw returns the SHA‑256 hash of a raw reset token as a hex
// string.  Redemption recomputes this digest from the presented token and
// compares it against the stored column.
func HashResetRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

// randomHex returns a hex‑encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
