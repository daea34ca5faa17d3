package utils

import "time"

// PasswordChangeBackdate is subtracted from the wall clock when recording a
// password change.  Access tokens carry whole‑second iat claims while the
// database stores sub‑second timestamps; backdating the recorded change by a
// full second keeps a token minted immediately after the change from being
// rejected by a rounding artefact.  The repository applies this constant on
// every password mutation; do not compare freshness against a raw clock
// reading.
const PasswordChangeBackdate = time.Second

// BackdatedChangeTime returns the timestamp to persist for a password change
// happening at now.
func BackdatedChangeTime(now time.Time) time.Time {
    return now.UTC().Add(-PasswordChangeBackdate)
}

// TokenIssuedBeforeChange reports whether a bearer token issued at issuedAt
// (seconds since epoch) predates the user's last password change and must be
// rejected.  changedAt is nil for accounts that never changed their
// password; those tokens are always fresh.  The comparison truncates
// changedAt to whole seconds, matching the resolution of the iat claim.
func TokenIssuedBeforeChange(issuedAt int64, changedAt *time.Time) bool {
    if changedAt == nil {
        return false
    }
    return issuedAt < changedAt.Unix()
}
