package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/models"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/store"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/types"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "hub_session"

const minPasswordLength = 8

// AuthService owns registration, login gating and session lifecycle.
type AuthService struct {
	store      *store.Store
	sessions   *gorm.DB
	sessionTTL time.Duration
	logger     *zap.Logger
}

// NewAuthService builds an AuthService.
func NewAuthService(st *store.Store, sessions *gorm.DB, sessionTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{store: st, sessions: sessions, sessionTTL: sessionTTL, logger: logger}
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Register creates a new account with approvalStatus=pending, verified=false.
// A case-insensitive email match against the freshly fetched document rejects
// the registration; uniqueness is enforced here and nowhere else.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (models.UserAccount, error) {
	if input.Name == "" || input.Email == "" {
		return models.UserAccount{}, types.NewDomainError(types.ErrValidation, "name and email are required")
	}
	if len(input.Password) < minPasswordLength {
		return models.UserAccount{}, types.NewDomainError(types.ErrValidation,
			"password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.UserAccount{}, types.NewDomainError(types.ErrInternal, "could not hash password")
	}

	account := models.UserAccount{
		ID:             uuid.NewString(),
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		PasswordHash:   string(hash),
		Role:           models.RoleUser,
		Verified:       false,
		ApprovalStatus: models.ApprovalPending,
		CreatedAt:      time.Now().UTC(),
	}

	_, err = s.store.Update(ctx, 0, func(doc *models.Document) error {
		for _, u := range doc.Users {
			if strings.EqualFold(u.Email, input.Email) {
				return types.NewDomainError(types.ErrDuplicateEmail,
					"an account with email %s already exists", input.Email)
			}
		}
		doc.Users = append(doc.Users, account)
		return nil
	})
	if err != nil {
		return models.UserAccount{}, err
	}

	s.logger.Info("account registered", zap.String("user_id", account.ID))
	return account.PublicView(), nil
}

// Authenticate checks credentials and the approval gate. Credential failure
// and approval failure are distinguishable: pending and rejected accounts get
// their own error codes so the UI can explain why login was refused.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (models.UserAccount, error) {
	var found *models.UserAccount
	s.store.View(ctx, func(doc *models.Document) {
		for i := range doc.Users {
			if strings.EqualFold(doc.Users[i].Email, email) {
				u := doc.Users[i]
				found = &u
				return
			}
		}
	})

	if found == nil {
		return models.UserAccount{}, types.NewDomainError(types.ErrInvalidCredentials, "invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password)); err != nil {
		return models.UserAccount{}, types.NewDomainError(types.ErrInvalidCredentials, "invalid email or password")
	}

	switch found.ApprovalStatus {
	case models.ApprovalApproved:
		return found.PublicView(), nil
	case models.ApprovalRejected:
		return models.UserAccount{}, types.NewDomainError(types.ErrAccountRejected,
			"your account application was rejected; contact support")
	default:
		return models.UserAccount{}, types.NewDomainError(types.ErrAccountPending,
			"your account is awaiting approval")
	}
}

// CreateSession issues a session token for an authenticated account.
func (s *AuthService) CreateSession(user models.UserAccount) (string, error) {
	snapshot, err := json.Marshal(user.PublicView())
	if err != nil {
		return "", types.NewDomainError(types.ErrInternal, "could not snapshot user")
	}

	session := models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Role:      string(user.Role),
		UserJSON:  snapshot,
		ExpiresAt: time.Now().UTC().Add(s.sessionTTL),
	}
	if err := s.sessions.Create(&session).Error; err != nil {
		return "", types.NewDomainError(types.ErrInternal, "could not persist session")
	}
	return session.Token, nil
}

// ValidateSession resolves a token to its user snapshot and enforces role
// membership. Expired sessions are deleted on sight.
func (s *AuthService) ValidateSession(token string, roles ...models.Role) (models.UserAccount, error) {
	if token == "" {
		return models.UserAccount{}, types.NewDomainError(types.ErrUnauthorized, "session cookie not found")
	}

	var session models.Session
	if err := s.sessions.First(&session, "token = ?", token).Error; err != nil {
		return models.UserAccount{}, types.NewDomainError(types.ErrUnauthorized, "invalid session")
	}
	if session.Expired(time.Now().UTC()) {
		s.sessions.Delete(&session)
		return models.UserAccount{}, types.NewDomainError(types.ErrUnauthorized, "session expired")
	}

	if len(roles) > 0 {
		allowed := false
		for _, r := range roles {
			if string(r) == session.Role {
				allowed = true
				break
			}
		}
		if !allowed {
			return models.UserAccount{}, types.NewDomainError(types.ErrUnauthorized,
				"role %s is not permitted here", session.Role)
		}
	}

	var user models.UserAccount
	if err := json.Unmarshal(session.UserJSON, &user); err != nil {
		return models.UserAccount{}, types.NewDomainError(types.ErrInternal, "corrupt session record")
	}
	return user, nil
}

// DeleteSession logs a session out. Deleting an unknown token is a no-op.
func (s *AuthService) DeleteSession(token string) {
	s.sessions.Delete(&models.Session{}, "token = ?", token)
}

// PurgeExpiredSessions removes sessions past their expiry.
func (s *AuthService) PurgeExpiredSessions() {
	s.sessions.Delete(&models.Session{}, "expires_at < ?", time.Now().UTC())
}

// SeedInitialAdmin creates one approved admin account at deployment time when
// none exists. This replaces the legacy hardcoded recovery credential: it is
// externally configured, runs once at startup, and does nothing when an admin
// is already present or when no seed credential is configured.
func (s *AuthService) SeedInitialAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.store.Update(ctx, 0, func(doc *models.Document) error {
		for _, u := range doc.Users {
			if u.Role == models.RoleAdmin {
				return store.ErrNoChange
			}
		}
		doc.Users = append(doc.Users, models.UserAccount{
			ID:             uuid.NewString(),
			Name:           "Administrator",
			Email:          email,
			PasswordHash:   string(hash),
			Role:           models.RoleAdmin,
			Verified:       true,
			ApprovalStatus: models.ApprovalApproved,
			CreatedAt:      time.Now().UTC(),
		})
		s.logger.Info("seeded initial admin account", zap.String("email", email))
		return nil
	})
	return err
}
