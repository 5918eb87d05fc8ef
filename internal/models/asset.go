package models

import "time"

// ListingType distinguishes rentable items from items offered for sale.
type ListingType string

const (
	ListingRent ListingType = "rent"
	ListingSale ListingType = "sale"
)

// AssetStatus is the availability state of an Asset.
type AssetStatus string

const (
	AssetAvailable   AssetStatus = "available"
	AssetRented      AssetStatus = "rented"
	AssetSold        AssetStatus = "sold"
	AssetMaintenance AssetStatus = "maintenance"
)

// ModerationStatus gates marketplace visibility independently of AssetStatus.
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
)

// Asset is a rentable or sellable physical item listed by an owner.
// OwnerID is a plain UserAccount reference, never validated at write time.
type Asset struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	Handling         string           `json:"handling,omitempty"`
	ListingType      ListingType      `json:"listingType"`
	DailyRate        float64          `json:"dailyRate,omitempty"`
	SalePrice        float64          `json:"salePrice,omitempty"`
	Images           []string         `json:"images"`
	OwnershipVideo   string           `json:"ownershipVideo,omitempty"`
	Status           AssetStatus      `json:"status"`
	ModerationStatus ModerationStatus `json:"moderationStatus"`
	RejectionReason  string           `json:"rejectionReason,omitempty"`
	OwnerID          string           `json:"ownerId"`
	Location         string           `json:"location,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// CoverImage returns the first image, the listing cover by convention.
func (a Asset) CoverImage() string {
	if len(a.Images) == 0 {
		return ""
	}
	return a.Images[0]
}
