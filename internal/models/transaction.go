package models

import "time"

// TransactionStatus is the lifecycle state of one rental or purchase.
type TransactionStatus string

const (
	TxPendingApproval TransactionStatus = "pending_approval"
	TxInTransit       TransactionStatus = "in_transit"
	TxActive          TransactionStatus = "active"
	TxReturned        TransactionStatus = "returned"
	TxDisputed        TransactionStatus = "disputed"
)

// Terminal reports whether the status admits no further transitions. Only
// returned is terminal; a disputed transaction can still be closed out by
// processing its return.
func (s TransactionStatus) Terminal() bool {
	return s == TxReturned
}

// Transaction records one rental or purchase. AssetName, RenterName and
// OwnerID are denormalized snapshots taken at creation time and are not kept
// in sync afterwards.
type Transaction struct {
	ID          string            `json:"id"`
	AssetID     string            `json:"assetId"`
	AssetName   string            `json:"assetName"`
	RenterID    string            `json:"renterId"`
	RenterName  string            `json:"renterName"`
	OwnerID     string            `json:"ownerId"`
	StartDate   time.Time         `json:"startDate"`
	EndDate     *time.Time        `json:"endDate,omitempty"`
	TotalCost   float64           `json:"totalCost"`
	Status      TransactionStatus `json:"status"`
	DepositHeld bool              `json:"depositHeld"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// Open reports whether the transaction still holds its asset. At most one
// open transaction exists per asset; the store's serialized update cycle is
// what makes that a real invariant rather than a check-then-act race.
func (t Transaction) Open() bool {
	return t.Status != TxReturned && t.Status != TxDisputed
}
