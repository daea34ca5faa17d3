package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/tour-booking-api/internal/model"
	"github.com/iliyamo/tour-booking-api/internal/utils"
)

// UserRepo is the single owner of the 'users' table. All credential
// state — password hash, password change time, reset token digest and
// expiry, active flag — is read and mutated only through this type.
// Every mutation is a single statement so concurrent password changes
// and reset redemptions against the same row cannot interleave into a
// partial write.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// defaultCols is the projection used by ordinary lookups. It leaves out
// password_hash and the reset token columns; those must be requested
// explicitly via the *WithSecret variants so a secret can never ride
// along into a response struct by accident.
const defaultCols = "id,name,email,role,password_changed_at,is_active,created_at,updated_at"

const secretCols = "id,name,email,password_hash,role,password_changed_at,reset_token_digest,reset_token_expires_at,is_active,created_at,updated_at"

// Create validates, hashes and inserts a new user, returning its ID.
// The confirmation value is compared against the password and then
// discarded; it never reaches the database.
func (r *UserRepo) Create(ctx context.Context, name, email, password, passwordConfirm, role string, cost int) (uint64, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if err := ValidateName(name); err != nil {
		return 0, err
	}
	if err := ValidateEmail(email); err != nil {
		return 0, err
	}
	if err := ValidateNewPassword(password, passwordConfirm); err != nil {
		return 0, err
	}
	if !model.ValidRole(role) {
		role = model.RoleUser
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role) VALUES (?,?,?,?)",
		name, email, hash, role)
	if err != nil {
		if isDuplicate(err) {
			if strings.Contains(strings.ToLower(err.Error()), "name") {
				return 0, ErrNameExists
			}
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// FindActiveByEmail fetches an active user by normalized email using the
// default projection (no secret columns). Soft-deleted records are
// filtered out here, stated explicitly in the query rather than hidden
// in a global hook.
func (r *UserRepo) FindActiveByEmail(ctx context.Context, email string) (model.User, error) {
	return r.scanDefault(r.DB.QueryRowContext(ctx,
		"SELECT "+defaultCols+" FROM users WHERE email=? AND is_active=1 LIMIT 1",
		NormalizeEmail(email)))
}

// FindActiveByID fetches an active user by id using the default projection.
func (r *UserRepo) FindActiveByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanDefault(r.DB.QueryRowContext(ctx,
		"SELECT "+defaultCols+" FROM users WHERE id=? AND is_active=1 LIMIT 1", id))
}

// ListActive returns every active user in the default projection,
// ordered by id. Used by the admin listing endpoint.
func (r *UserRepo) ListActive(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+defaultCols+" FROM users WHERE is_active=1 ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var (
			u         model.User
			changedAt sql.NullTime
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &changedAt,
			&u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		if changedAt.Valid {
			t := changedAt.Time
			u.PasswordChangedAt = &t
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// FindActiveByEmailWithSecret is the explicit opt-in lookup used by the
// login flow; it is the only read path that loads password_hash by email.
func (r *UserRepo) FindActiveByEmailWithSecret(ctx context.Context, email string) (model.User, error) {
	return r.scanSecret(r.DB.QueryRowContext(ctx,
		"SELECT "+secretCols+" FROM users WHERE email=? AND is_active=1 LIMIT 1",
		NormalizeEmail(email)))
}

// FindActiveByIDWithSecret loads the full credential state for a user,
// used by the password change flow to verify the current password.
func (r *UserRepo) FindActiveByIDWithSecret(ctx context.Context, id uint64) (model.User, error) {
	return r.scanSecret(r.DB.QueryRowContext(ctx,
		"SELECT "+secretCols+" FROM users WHERE id=? AND is_active=1 LIMIT 1", id))
}

// UpdatePassword validates and installs a new password for a user. The
// recorded change time is backdated one second so a bearer token minted
// immediately after the change still compares as fresh at whole-second
// resolution.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, password, passwordConfirm string, cost int) error {
	if err := ValidateNewPassword(password, passwordConfirm); err != nil {
		return err
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, password_changed_at=? WHERE id=? AND is_active=1",
		hash, utils.BackdatedChangeTime(time.Now()), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetResetToken stores the digest and expiry of an outstanding reset
// token. Both columns are written by the same statement so they are
// always set together.
func (r *UserRepo) SetResetToken(ctx context.Context, id uint64, digest string, expiresAt time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET reset_token_digest=?, reset_token_expires_at=? WHERE id=? AND is_active=1",
		digest, expiresAt.UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// FindActiveByResetDigest locates the active user holding the given
// reset token digest. Expiry is not checked here; redemption re-checks
// it inside the conditional update, and every failure surfaces as the
// same ErrResetInvalid.
func (r *UserRepo) FindActiveByResetDigest(ctx context.Context, digest string) (model.User, error) {
	u, err := r.scanDefault(r.DB.QueryRowContext(ctx,
		"SELECT "+defaultCols+" FROM users WHERE reset_token_digest=? AND is_active=1 LIMIT 1",
		digest))
	if err == ErrNotFound {
		return model.User{}, ErrResetInvalid
	}
	return u, err
}

// ConsumeResetToken redeems a reset token: in one conditional UPDATE it
// installs the new hash, clears both reset columns and backdates the
// change time. The WHERE clause re-checks digest and expiry, so a token
// that raced a concurrent change, was already consumed, or has expired
// simply matches zero rows — there is no window in which another writer
// can observe a half-applied redemption. All of those cases report
// ErrResetInvalid without distinguishing them.
func (r *UserRepo) ConsumeResetToken(ctx context.Context, id uint64, digest, password, passwordConfirm string, cost int) error {
	if err := ValidateNewPassword(password, passwordConfirm); err != nil {
		return err
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users
		    SET password_hash=?, password_changed_at=?,
		        reset_token_digest=NULL, reset_token_expires_at=NULL
		  WHERE id=? AND reset_token_digest=? AND reset_token_expires_at > UTC_TIMESTAMP()
		    AND is_active=1`,
		hash, utils.BackdatedChangeTime(time.Now()), id, digest)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrResetInvalid
	}
	return nil
}

// UpdateProfile changes the whitelisted profile fields (name, email).
// Password and reset columns are deliberately out of reach of this
// method; the dedicated flows above are the only writers of those.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name, email string) (model.User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if err := ValidateName(name); err != nil {
		return model.User{}, err
	}
	if err := ValidateEmail(email); err != nil {
		return model.User{}, err
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, email=? WHERE id=? AND is_active=1", name, email, id)
	if err != nil {
		if isDuplicate(err) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	return r.FindActiveByID(ctx, id)
}

// Deactivate soft-deletes a user. The row is kept for audit and
// history; every read path excludes it from then on.
func (r *UserRepo) Deactivate(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_active=0 WHERE id=?", id)
	return err
}

func (r *UserRepo) scanDefault(row *sql.Row) (model.User, error) {
	var (
		u         model.User
		changedAt sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &changedAt,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	if changedAt.Valid {
		t := changedAt.Time
		u.PasswordChangedAt = &t
	}
	return u, nil
}

func (r *UserRepo) scanSecret(row *sql.Row) (model.User, error) {
	var (
		u           model.User
		changedAt   sql.NullTime
		resetDigest sql.NullString
		resetExp    sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &changedAt,
		&resetDigest, &resetExp, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	if changedAt.Valid {
		t := changedAt.Time
		u.PasswordChangedAt = &t
	}
	if resetDigest.Valid {
		s := resetDigest.String
		u.ResetTokenDigest = &s
	}
	if resetExp.Valid {
		t := resetExp.Time
		u.ResetTokenExpiresAt = &t
	}
	return u, nil
}

// isDuplicate detects a MySQL unique index violation (error 1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
