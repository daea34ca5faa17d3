package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tour-booking-api/internal/repository"
)

// UserHandler serves the profile endpoints of the logged-in user.
type UserHandler struct {
	Users *repository.UserRepo
}

func NewUserHandler(u *repository.UserRepo) *UserHandler {
	return &UserHandler{Users: u}
}

type updateMeReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	// Bound only so a smuggled password can be detected and refused;
	// the dedicated update-password endpoint is the only way to change
	// a secret.
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// List returns every active user. The route is admin-only, enforced by
// the role middleware; the default projection keeps secret columns out
// of the response.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.ListActive(ctx)
	if err != nil {
		return err
	}
	parts := make([]userPart, 0, len(users))
	for _, u := range users {
		parts = append(parts, userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"result": len(parts),
		"users":  parts,
	})
}

// Me returns the authenticated user's profile, loaded through the
// default projection so no secret column can appear in the response.
func (h *UserHandler) Me(c echo.Context) error {
	uid, ok := c.Get("user_id").(uint64)
	if !ok || uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.FindActiveByID(ctx, uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user": userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role},
	})
}

// UpdateMe changes the whitelisted profile fields. Requests that try to
// smuggle a password through this route are rejected and pointed at the
// update-password endpoint instead.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	uid, ok := c.Get("user_id").(uint64)
	if !ok || uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	var req updateMeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Password != "" || req.PasswordConfirm != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "this route is not for password updates, use /api/v1/users/update-password",
		})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.UpdateProfile(ctx, uid, req.Name, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user": userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role},
	})
}

// DeactivateMe soft-deletes the account. The record stays in the table
// for audit but is excluded from every lookup from now on, so existing
// tokens stop working on the next request.
func (h *UserHandler) DeactivateMe(c echo.Context) error {
	uid, ok := c.Get("user_id").(uint64)
	if !ok || uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Deactivate(ctx, uid); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
