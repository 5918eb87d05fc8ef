package services_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/models"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/services"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/types"
)

func newAuthService(t *testing.T) (*services.AuthService, *services.UserService) {
	t.Helper()
	st, _ := newTestStore(t)
	auth := services.NewAuthService(st, newTestSessionDB(t), time.Hour, zap.NewNop())
	users := services.NewUserService(st, zap.NewNop())
	return auth, users
}

// TestRegisterAndApprovalGate tests that login is gated on approval
func TestRegisterAndApprovalGate(t *testing.T) {
	auth, users := newAuthService(t)
	ctx := context.Background()

	account, err := auth.Register(ctx, services.RegisterInput{
		Name: "Amina", Email: "amina@example.com", Password: "strongpass",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if account.ApprovalStatus != models.ApprovalPending {
		t.Errorf("New accounts must start pending, got %q", account.ApprovalStatus)
	}
	if account.Verified {
		t.Error("New accounts must start unverified")
	}
	if account.PasswordHash != "" {
		t.Error("Register must not return the credential hash")
	}

	// Pending accounts cannot log in, and the error says why.
	_, err = auth.Authenticate(ctx, "amina@example.com", "strongpass")
	if !types.IsCode(err, types.ErrAccountPending) {
		t.Errorf("Expected account_pending, got %v", err)
	}

	if _, err := users.SetApproval(ctx, 0, account.ID, models.ApprovalApproved); err != nil {
		t.Fatalf("SetApproval failed: %v", err)
	}

	logged, err := auth.Authenticate(ctx, "amina@example.com", "strongpass")
	if err != nil {
		t.Fatalf("Approved account could not log in: %v", err)
	}
	if logged.PasswordHash != "" {
		t.Error("Authenticate must not return the credential hash")
	}

	// Rejected accounts get their own refusal.
	if _, err := users.SetApproval(ctx, 0, account.ID, models.ApprovalRejected); err != nil {
		t.Fatalf("SetApproval failed: %v", err)
	}
	_, err = auth.Authenticate(ctx, "amina@example.com", "strongpass")
	if !types.IsCode(err, types.ErrAccountRejected) {
		t.Errorf("Expected account_rejected, got %v", err)
	}
}

// TestRegisterDuplicateEmail tests case-insensitive uniqueness at registration
func TestRegisterDuplicateEmail(t *testing.T) {
	auth, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, services.RegisterInput{
		Name: "Amina", Email: "amina@example.com", Password: "strongpass",
	}); err != nil {
		t.Fatalf("First registration failed: %v", err)
	}

	_, err := auth.Register(ctx, services.RegisterInput{
		Name: "Other", Email: "AMINA@Example.COM", Password: "otherpass1",
	})
	if !types.IsCode(err, types.ErrDuplicateEmail) {
		t.Errorf("Expected duplicate_email, got %v", err)
	}
}

// TestRegisterValidation tests the input gates
func TestRegisterValidation(t *testing.T) {
	auth, _ := newAuthService(t)
	ctx := context.Background()

	cases := []services.RegisterInput{
		{Name: "", Email: "a@b.c", Password: "strongpass"},
		{Name: "A", Email: "", Password: "strongpass"},
		{Name: "A", Email: "a@b.c", Password: "short"},
	}
	for _, input := range cases {
		if _, err := auth.Register(ctx, input); !types.IsCode(err, types.ErrValidation) {
			t.Errorf("Register(%+v) should fail validation, got %v", input, err)
		}
	}
}

// TestAuthenticateWrongCredentials tests that both failure modes look the same
func TestAuthenticateWrongCredentials(t *testing.T) {
	auth, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, services.RegisterInput{
		Name: "Amina", Email: "amina@example.com", Password: "strongpass",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, errBadPass := auth.Authenticate(ctx, "amina@example.com", "wrongpass")
	_, errNoAccount := auth.Authenticate(ctx, "nobody@example.com", "whatever")

	if !types.IsCode(errBadPass, types.ErrInvalidCredentials) {
		t.Errorf("Wrong password: expected invalid_credentials, got %v", errBadPass)
	}
	if !types.IsCode(errNoAccount, types.ErrInvalidCredentials) {
		t.Errorf("Unknown email: expected invalid_credentials, got %v", errNoAccount)
	}
	if errBadPass.Error() != errNoAccount.Error() {
		t.Error("Credential failures must be indistinguishable")
	}
}

// TestSessionLifecycle tests token issue, role enforcement and logout
func TestSessionLifecycle(t *testing.T) {
	auth, _ := newAuthService(t)

	user := models.UserAccount{ID: "u1", Name: "Amina", Role: models.RoleUser}
	token, err := auth.CreateSession(user)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	resolved, err := auth.ValidateSession(token, models.RoleUser, models.RoleAdmin)
	if err != nil {
		t.Fatalf("ValidateSession failed: %v", err)
	}
	if resolved.ID != "u1" {
		t.Errorf("Session resolved to wrong user: %q", resolved.ID)
	}

	if _, err := auth.ValidateSession(token, models.RoleAdmin); !types.IsCode(err, types.ErrUnauthorized) {
		t.Errorf("Role enforcement failed, got %v", err)
	}
	if _, err := auth.ValidateSession("no-such-token"); !types.IsCode(err, types.ErrUnauthorized) {
		t.Errorf("Unknown token should be unauthorized, got %v", err)
	}
	if _, err := auth.ValidateSession(""); !types.IsCode(err, types.ErrUnauthorized) {
		t.Errorf("Empty token should be unauthorized, got %v", err)
	}

	auth.DeleteSession(token)
	if _, err := auth.ValidateSession(token); err == nil {
		t.Error("Deleted session must not validate")
	}
}

// TestSessionExpiry tests delete-on-sight for expired sessions
func TestSessionExpiry(t *testing.T) {
	st, _ := newTestStore(t)
	auth := services.NewAuthService(st, newTestSessionDB(t), -time.Minute, zap.NewNop())

	token, err := auth.CreateSession(models.UserAccount{ID: "u1", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if _, err := auth.ValidateSession(token); !types.IsCode(err, types.ErrUnauthorized) {
		t.Errorf("Expired session should be unauthorized, got %v", err)
	}
}

// TestSeedInitialAdmin tests idempotent externally-configured seeding
func TestSeedInitialAdmin(t *testing.T) {
	auth, _ := newAuthService(t)
	ctx := context.Background()

	// Unconfigured seeding is a no-op.
	if err := auth.SeedInitialAdmin(ctx, "", ""); err != nil {
		t.Fatalf("Unconfigured seeding must be a no-op: %v", err)
	}

	if err := auth.SeedInitialAdmin(ctx, "admin@example.com", "adminpass1"); err != nil {
		t.Fatalf("SeedInitialAdmin failed: %v", err)
	}

	admin, err := auth.Authenticate(ctx, "admin@example.com", "adminpass1")
	if err != nil {
		t.Fatalf("Seeded admin could not log in: %v", err)
	}
	if admin.Role != models.RoleAdmin || !admin.Verified || admin.ApprovalStatus != models.ApprovalApproved {
		t.Errorf("Seeded admin has wrong trust state: %+v", admin)
	}

	// A second run with different credentials changes nothing.
	if err := auth.SeedInitialAdmin(ctx, "other@example.com", "otherpass1"); err != nil {
		t.Fatalf("Repeat seeding failed: %v", err)
	}
	if _, err := auth.Authenticate(ctx, "other@example.com", "otherpass1"); err == nil {
		t.Error("Repeat seeding must not create a second admin")
	}
}
