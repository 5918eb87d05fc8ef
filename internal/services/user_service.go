package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/models"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/store"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/types"
)

// UserService owns account listing, profile updates and the approval and
// verification state machine.
type UserService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewUserService builds a UserService.
func NewUserService(st *store.Store, logger *zap.Logger) *UserService {
	return &UserService{store: st, logger: logger}
}

// List returns all accounts with credential fields stripped.
func (s *UserService) List(ctx context.Context) []models.UserAccount {
	var out []models.UserAccount
	s.store.View(ctx, func(doc *models.Document) {
		out = make([]models.UserAccount, 0, len(doc.Users))
		for _, u := range doc.Users {
			out = append(out, u.PublicView())
		}
	})
	return out
}

// Get returns one account by id, credential stripped.
func (s *UserService) Get(ctx context.Context, id string) (models.UserAccount, error) {
	var found *models.UserAccount
	s.store.View(ctx, func(doc *models.Document) {
		if u := doc.FindUser(id); u != nil {
			v := u.PublicView()
			found = &v
		}
	})
	if found == nil {
		return models.UserAccount{}, types.NewDomainError(types.ErrNotFound, "user %s not found", id)
	}
	return *found, nil
}

// ProfileUpdate carries the self-service editable fields.
type ProfileUpdate struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// UpdateProfile replaces the account's editable fields. The stored credential
// is always preserved regardless of what the caller sends; role, approval and
// verification are admin-owned and equally untouchable here.
func (s *UserService) UpdateProfile(ctx context.Context, rev uint64, userID string, update ProfileUpdate) (uint64, error) {
	return s.store.Update(ctx, rev, func(doc *models.Document) error {
		u := doc.FindUser(userID)
		if u == nil {
			return types.NewDomainError(types.ErrNotFound, "user %s not found", userID)
		}
		if update.Name != "" {
			u.Name = update.Name
		}
		u.Phone = update.Phone
		return nil
	})
}

// SetApproval applies an admin approve/reject decision.
func (s *UserService) SetApproval(ctx context.Context, rev uint64, userID string, status models.ApprovalStatus) (uint64, error) {
	if status != models.ApprovalApproved && status != models.ApprovalRejected && status != models.ApprovalPending {
		return 0, types.NewDomainError(types.ErrValidation, "unknown approval status %q", status)
	}
	newRev, err := s.store.Update(ctx, rev, func(doc *models.Document) error {
		u := doc.FindUser(userID)
		if u == nil {
			return types.NewDomainError(types.ErrNotFound, "user %s not found", userID)
		}
		u.ApprovalStatus = status
		return nil
	})
	if err == nil {
		s.logger.Info("approval status changed",
			zap.String("user_id", userID), zap.String("status", string(status)))
	}
	return newRev, err
}

// SetRole changes an account's single role.
func (s *UserService) SetRole(ctx context.Context, rev uint64, userID string, role models.Role) (uint64, error) {
	if role != models.RoleAdmin && role != models.RoleNurse && role != models.RoleUser {
		return 0, types.NewDomainError(types.ErrValidation, "unknown role %q", role)
	}
	return s.store.Update(ctx, rev, func(doc *models.Document) error {
		u := doc.FindUser(userID)
		if u == nil {
			return types.NewDomainError(types.ErrNotFound, "user %s not found", userID)
		}
		u.Role = role
		return nil
	})
}

// SubmitKYC records ID document images and resets the account to
// pending/unverified regardless of its prior state; review happens later,
// by the external validation step or a manual admin approval.
func (s *UserService) SubmitKYC(ctx context.Context, userID, frontURL, backURL string) (uint64, error) {
	if frontURL == "" || backURL == "" {
		return 0, types.NewDomainError(types.ErrValidation, "both ID images are required")
	}
	return s.store.Update(ctx, 0, func(doc *models.Document) error {
		u := doc.FindUser(userID)
		if u == nil {
			return types.NewDomainError(types.ErrNotFound, "user %s not found", userID)
		}
		u.IDFrontURL = frontURL
		u.IDBackURL = backURL
		u.ApprovalStatus = models.ApprovalPending
		u.Verified = false
		return nil
	})
}

// SetVerified records a KYC review outcome on the verification axis.
func (s *UserService) SetVerified(ctx context.Context, rev uint64, userID string, verified bool) (uint64, error) {
	return s.store.Update(ctx, rev, func(doc *models.Document) error {
		u := doc.FindUser(userID)
		if u == nil {
			return types.NewDomainError(types.ErrNotFound, "user %s not found", userID)
		}
		u.Verified = verified
		return nil
	})
}

// RecordLocation stores the account's last known geolocation fix.
func (s *UserService) RecordLocation(ctx context.Context, userID string, lat, lng float64) (uint64, error) {
	return s.store.Update(ctx, 0, func(doc *models.Document) error {
		u := doc.FindUser(userID)
		if u == nil {
			return types.NewDomainError(types.ErrNotFound, "user %s not found", userID)
		}
		u.LastLocation = &models.GeoPoint{Lat: lat, Lng: lng, Timestamp: time.Now().UTC()}
		return nil
	})
}
