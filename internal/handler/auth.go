package handler

import (
    "context"  // provides context with cancellation for DB calls
    "fmt"      // renders the reset mail body
    "net/http" // HTTP status codes and primitives
    "strings"  // string manipulation utilities
    "time"     // timeouts for DB calls

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/iliyamo/tour-booking-api/internal/config"     // app configuration
    "github.com/iliyamo/tour-booking-api/internal/queue"      // outbound mail events
    "github.com/iliyamo/tour-booking-api/internal/repository" // DB repositories
    mailer "github.com/iliyamo/tour-booking-api/internal/service"
    "github.com/iliyamo/tour-booking-api/internal/utils" // helper functions (hashing, token issuing)
)

// AuthHandler bundles dependencies for auth endpoints. Mail is the
// out-of-band delivery collaborator for reset tokens; it defaults to
// the RabbitMQ publisher.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
	Mail  func(ctx context.Context, m queue.PasswordResetMail) error
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Mail: mailer.PublishPasswordReset}
}

// ----- DTOs -----

type signupReq struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type forgotReq struct {
	Email string `json:"email"`
}
type resetReq struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}
type updatePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// userPart is the outbound user shape. It carries no secret columns and
// is built only from default-projection records.
type userPart struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
type authResp struct {
	User   userPart  `json:"user"`
	Access tokenPart `json:"access"`
}

// Signup creates a user and returns an access token immediately. The
// confirmation value is checked by the repository and discarded; only
// the bcrypt hash of the password is ever stored.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, req.PasswordConfirm,
		"user", h.Cfg.BcryptCost)
	if err != nil {
		// Validation and uniqueness sentinels are translated centrally.
		return err
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, "user", h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}

	return c.JSON(http.StatusCreated, authResp{
		User:   userPart{ID: uid, Name: strings.TrimSpace(req.Name), Email: repository.NormalizeEmail(req.Email), Role: "user"},
		Access: tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Login verifies credentials and returns a new access token. Unknown
// email and wrong password produce the same 401 so the endpoint does
// not reveal which accounts exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.FindActiveByEmailWithSecret(ctx, req.Email)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		User:   userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role},
		Access: tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// ForgotPassword issues a single-use reset token for an active account
// and hands the plaintext to the mail queue for delivery. Only the
// sha256 digest and a 10 minute expiry are stored. A delivery failure
// is reported to the caller; the stored digest stays in place and the
// token remains redeemable until it expires.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	u, err := h.Users.FindActiveByEmail(ctx, req.Email)
	if err != nil {
		return err // ErrNotFound -> 404
	}

	tok, err := utils.NewResetToken()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	if err := h.Users.SetResetToken(ctx, u.ID, tok.Digest, tok.Exp); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s://%s/api/v1/users/reset-password/%s",
		c.Scheme(), c.Request().Host, tok.Raw)
	mail := queue.PasswordResetMail{
		To:      u.Email,
		Subject: "Your password reset token (valid for 10 minutes)",
		Body: fmt.Sprintf("Forgot your password? Submit a PATCH request with your new password to %s.\nIf you didn't forget your password, please ignore this email.",
			resetURL),
		IssuedAt:  time.Now().UTC(),
		ExpiresAt: tok.Exp,
	}
	if err := h.Mail(ctx, mail); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "there was an error sending the email, try again later"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "token sent to email"})
}

// ResetPassword redeems a reset token presented in the URL and installs
// the new password. Wrong, consumed and expired tokens all fail with
// the same low-detail 401; the conditional update in the repository
// guarantees a token redeems at most once even under concurrent
// requests. A fresh access token is returned so the user is logged in
// right away.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	raw := strings.TrimSpace(c.Param("token"))
	if raw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}
	var req resetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	digest := utils.HashResetRaw(raw)
	u, err := h.Users.FindActiveByResetDigest(ctx, digest)
	if err != nil {
		return err // ErrResetInvalid -> 401
	}
	if err := h.Users.ConsumeResetToken(ctx, u.ID, digest, req.Password, req.PasswordConfirm,
		h.Cfg.BcryptCost); err != nil {
		return err
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		User:   userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role},
		Access: tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// UpdatePassword changes the password of the logged-in user after
// verifying the current one. The recorded change time is backdated so
// the token returned here is already judged fresh; every token minted
// earlier becomes stale.
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	uid, ok := c.Get("user_id").(uint64)
	if !ok || uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	var req updatePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	u, err := h.Users.FindActiveByIDWithSecret(ctx, uid)
	if err != nil {
		return err
	}
	if !utils.VerifyPassword(u.PasswordHash, req.CurrentPassword) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "current password is wrong"})
	}
	if err := h.Users.UpdatePassword(ctx, uid, req.Password, req.PasswordConfirm, h.Cfg.BcryptCost); err != nil {
		return err
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		User:   userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role},
		Access: tokenPart{Token: access.Token, Expires: access.Exp},
	})
}
