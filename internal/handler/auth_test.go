package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/tour-booking-api/internal/config"
	"github.com/iliyamo/tour-booking-api/internal/queue"
	"github.com/iliyamo/tour-booking-api/internal/repository"
)

func forgotContext(e *echo.Echo) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/forgot-password",
		strings.NewReader(`{"email":"gejza@example.com"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func expectForgotIssue(mock sqlmock.Sqlmock) {
	cols := []string{
		"id", "name", "email", "role", "password_changed_at",
		"is_active", "created_at", "updated_at",
	}
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id,name,email,role,password_changed_at,is_active,created_at,updated_at " +
			"FROM users WHERE email=? AND is_active=1 LIMIT 1")).
		WithArgs("gejza@example.com").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(7, "Gejza", "gejza@example.com", "user", nil, true, now, now))
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE users SET reset_token_digest=?, reset_token_expires_at=? WHERE id=? AND is_active=1")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestForgotPassword_QueuesMail(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	expectForgotIssue(mock)

	var queued queue.PasswordResetMail
	h := &AuthHandler{
		Cfg:   config.Config{JWTSecret: "s", AccessTTLMin: 15, BcryptCost: bcrypt.MinCost},
		Users: repository.NewUserRepo(db),
		Mail: func(ctx context.Context, m queue.PasswordResetMail) error {
			queued = m
			return nil
		},
	}

	c, rec := forgotContext(echo.New())
	if err := h.ForgotPassword(c); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rec.Code)
	}
	if queued.To != "gejza@example.com" {
		t.Fatalf("mail addressed to %q", queued.To)
	}
	if !strings.Contains(queued.Body, "/api/v1/users/reset-password/") {
		t.Fatalf("mail body lacks the reset URL: %q", queued.Body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestForgotPassword_MailFailureKeepsToken(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	expectForgotIssue(mock)

	h := &AuthHandler{
		Cfg:   config.Config{JWTSecret: "s", AccessTTLMin: 15, BcryptCost: bcrypt.MinCost},
		Users: repository.NewUserRepo(db),
		Mail: func(ctx context.Context, m queue.PasswordResetMail) error {
			return errors.New("broker unreachable")
		},
	}

	c, rec := forgotContext(echo.New())
	if err := h.ForgotPassword(c); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want 500", rec.Code)
	}
	// The mock permits exactly the lookup and the digest write; a
	// follow-up statement clearing the reset columns would be rejected
	// as unexpected. The issued token stays redeemable until expiry.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("issue flow did not complete: %v", err)
	}
}
