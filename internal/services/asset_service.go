package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/ai"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/models"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/store"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/types"
)

// AssetService owns listing submission, moderation and marketplace views.
type AssetService struct {
	store             *store.Store
	validator         ai.Validator
	validationTimeout time.Duration
	logger            *zap.Logger
}

// NewAssetService builds an AssetService. validator may be nil, in which case
// submissions go straight to pending moderation.
func NewAssetService(st *store.Store, validator ai.Validator, validationTimeout time.Duration, logger *zap.Logger) *AssetService {
	return &AssetService{store: st, validator: validator, validationTimeout: validationTimeout, logger: logger}
}

// AssetInput is an owner's listing submission.
type AssetInput struct {
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	Handling       string             `json:"handling"`
	ListingType    models.ListingType `json:"listingType"`
	DailyRate      float64            `json:"dailyRate"`
	SalePrice      float64            `json:"salePrice"`
	Images         []string           `json:"images"`
	OwnershipVideo string             `json:"ownershipVideo"`
	Location       string             `json:"location"`
}

func (in AssetInput) validate() error {
	if in.Name == "" {
		return types.NewDomainError(types.ErrValidation, "asset name is required")
	}
	switch in.ListingType {
	case models.ListingRent:
		if in.DailyRate <= 0 {
			return types.NewDomainError(types.ErrValidation, "rental listings need a positive daily rate")
		}
	case models.ListingSale:
		if in.SalePrice <= 0 {
			return types.NewDomainError(types.ErrValidation, "sale listings need a positive sale price")
		}
	default:
		return types.NewDomainError(types.ErrValidation, "listingType must be rent or sale")
	}
	return nil
}

// Create stores a new listing. Moderation status is forced to pending unless
// the pre-submission validation pipeline already rejected the images, in
// which case the listing lands rejected with the validator's reason attached.
// A validator that times out fails open: pending, for manual review.
func (s *AssetService) Create(ctx context.Context, ownerID string, input AssetInput) (models.Asset, error) {
	if err := input.validate(); err != nil {
		return models.Asset{}, err
	}

	moderation := models.ModerationPending
	reason := ""
	if s.validator != nil && len(input.Images) > 0 {
		result, failedOpen := ai.ValidateFailOpen(ctx, s.validator, s.validationTimeout, input.Images, input.Description)
		if failedOpen {
			s.logger.Warn("listing validation failed open", zap.String("asset_name", input.Name))
		} else if !result.Valid {
			moderation = models.ModerationRejected
			reason = result.Reason
		}
	}

	asset := models.Asset{
		ID:               uuid.NewString(),
		Name:             input.Name,
		Description:      input.Description,
		Handling:         input.Handling,
		ListingType:      input.ListingType,
		DailyRate:        input.DailyRate,
		SalePrice:        input.SalePrice,
		Images:           input.Images,
		OwnershipVideo:   input.OwnershipVideo,
		Status:           models.AssetAvailable,
		ModerationStatus: moderation,
		RejectionReason:  reason,
		OwnerID:          ownerID,
		Location:         input.Location,
		CreatedAt:        time.Now().UTC(),
	}

	_, err := s.store.Update(ctx, 0, func(doc *models.Document) error {
		doc.Assets = append(doc.Assets, asset)
		return nil
	})
	if err != nil {
		return models.Asset{}, err
	}
	return asset, nil
}

// Update replaces a listing's editable fields. Status and moderation state
// are owned by the transaction engine and the moderation flow respectively.
func (s *AssetService) Update(ctx context.Context, rev uint64, assetID, callerID string, input AssetInput) (uint64, error) {
	if err := input.validate(); err != nil {
		return 0, err
	}
	return s.store.Update(ctx, rev, func(doc *models.Document) error {
		a := doc.FindAsset(assetID)
		if a == nil {
			return types.NewDomainError(types.ErrNotFound, "asset %s not found", assetID)
		}
		if callerID != "" && a.OwnerID != callerID {
			return types.NewDomainError(types.ErrUnauthorized, "asset %s is not yours", assetID)
		}
		a.Name = input.Name
		a.Description = input.Description
		a.Handling = input.Handling
		a.ListingType = input.ListingType
		a.DailyRate = input.DailyRate
		a.SalePrice = input.SalePrice
		a.Images = input.Images
		a.OwnershipVideo = input.OwnershipVideo
		a.Location = input.Location
		return nil
	})
}

// Delete removes a listing. callerID is enforced as the owner unless empty
// (admin path). Deleting an unknown id is an explicit not_found.
func (s *AssetService) Delete(ctx context.Context, rev uint64, assetID, callerID string) (uint64, error) {
	return s.store.Update(ctx, rev, func(doc *models.Document) error {
		for i := range doc.Assets {
			if doc.Assets[i].ID != assetID {
				continue
			}
			if callerID != "" && doc.Assets[i].OwnerID != callerID {
				return types.NewDomainError(types.ErrUnauthorized, "asset %s is not yours", assetID)
			}
			doc.Assets = append(doc.Assets[:i], doc.Assets[i+1:]...)
			return nil
		}
		return types.NewDomainError(types.ErrNotFound, "asset %s not found", assetID)
	})
}

// ListApproved is the marketplace view: approved listings only, regardless of
// availability, so rented items remain browsable while unmoderated ones never
// surface.
func (s *AssetService) ListApproved(ctx context.Context) []models.Asset {
	var out []models.Asset
	s.store.View(ctx, func(doc *models.Document) {
		out = make([]models.Asset, 0, len(doc.Assets))
		for _, a := range doc.Assets {
			if a.ModerationStatus == models.ModerationApproved {
				out = append(out, a)
			}
		}
	})
	return out
}

// ListByOwner returns all of one owner's listings, any moderation state.
func (s *AssetService) ListByOwner(ctx context.Context, ownerID string) []models.Asset {
	var out []models.Asset
	s.store.View(ctx, func(doc *models.Document) {
		out = make([]models.Asset, 0)
		for _, a := range doc.Assets {
			if a.OwnerID == ownerID {
				out = append(out, a)
			}
		}
	})
	return out
}

// ListAll is the admin view.
func (s *AssetService) ListAll(ctx context.Context) []models.Asset {
	var out []models.Asset
	s.store.View(ctx, func(doc *models.Document) {
		out = append([]models.Asset{}, doc.Assets...)
	})
	return out
}

// Moderate applies an admin moderation decision. reason accompanies a
// rejection and is cleared on approval.
func (s *AssetService) Moderate(ctx context.Context, rev uint64, assetID string, status models.ModerationStatus, reason string) (uint64, error) {
	if status != models.ModerationApproved && status != models.ModerationRejected && status != models.ModerationPending {
		return 0, types.NewDomainError(types.ErrValidation, "unknown moderation status %q", status)
	}
	newRev, err := s.store.Update(ctx, rev, func(doc *models.Document) error {
		a := doc.FindAsset(assetID)
		if a == nil {
			return types.NewDomainError(types.ErrNotFound, "asset %s not found", assetID)
		}
		a.ModerationStatus = status
		if status == models.ModerationRejected {
			a.RejectionReason = reason
		} else {
			a.RejectionReason = ""
		}
		return nil
	})
	if err == nil {
		s.logger.Info("asset moderated",
			zap.String("asset_id", assetID), zap.String("status", string(status)))
	}
	return newRev, err
}
