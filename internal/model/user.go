package model

import "time"

// User represents an application user record as stored in the `users`
// table. Each field corresponds to a column in the database. The json
// tags are omitted here because these structs are primarily used
// internally by the repository layer; handlers define separate response
// types with appropriate JSON tags so that secret columns can never leak
// into an outbound payload by accident.
//
// Fields:
//  ID                  – primary key identifier of the user.
//  Name                – display name, unique, 3..40 characters.
//  Email               – unique email address, stored lowercase.
//  PasswordHash        – bcrypt hashed password. Empty in records loaded
//                        through the default projection; populated only by
//                        the explicit *WithSecret lookups.
//  Role                – role name (user, guide, lead-guide or admin).
//  PasswordChangedAt   – when the password was last changed, backdated one
//                        second at write time. Nil if never changed.
//  ResetTokenDigest    – sha256 hex of an outstanding reset token, nil when
//                        no reset is pending. Set and cleared together with
//                        ResetTokenExpiresAt.
//  ResetTokenExpiresAt – expiry of the outstanding reset token.
//  IsActive            – false once the account has been soft‑deleted.
//  CreatedAt           – timestamp of creation.
//  UpdatedAt           – timestamp of last update.
type User struct {
    ID                  uint64     // users.id
    Name                string     // users.name
    Email               string     // users.email
    PasswordHash        string     // users.password_hash (explicit projection only)
    Role                string     // users.role
    PasswordChangedAt   *time.Time // users.password_changed_at (nullable)
    ResetTokenDigest    *string    // users.reset_token_digest (nullable)
    ResetTokenExpiresAt *time.Time // users.reset_token_expires_at (nullable)
    IsActive            bool       // users.is_active
    CreatedAt           time.Time  // users.created_at
    UpdatedAt           time.Time  // users.updated_at
}

// Roles accepted in the users.role column.
const (
    RoleUser      = "user"
    RoleGuide     = "guide"
    RoleLeadGuide = "lead-guide"
    RoleAdmin     = "admin"
)

// ValidRole reports whether r is one of the accepted role names.
func ValidRole(r string) bool {
    switch r {
    case RoleUser, RoleGuide, RoleLeadGuide, RoleAdmin:
        return true
    }
    return false
}
