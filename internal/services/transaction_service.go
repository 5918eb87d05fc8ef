package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/models"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/store"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/types"
)

// TransactionService owns the rental and purchase lifecycle. Every transition
// runs inside one serialized store update, so the one-open-transaction-per-
// asset rule holds as a real invariant: the availability check and the status
// write cannot interleave with another writer.
type TransactionService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewTransactionService builds a TransactionService.
func NewTransactionService(st *store.Store, logger *zap.Logger) *TransactionService {
	return &TransactionService{store: st, logger: logger}
}

// Rent starts a rental: asset goes rented, a pending_approval transaction is
// created with the deposit held and cost computed as dailyRate times days.
// Renting an asset that is not available is an explicit asset_unavailable
// error, not a silent no-op.
func (s *TransactionService) Rent(ctx context.Context, assetID, renterID string, days int) (models.Transaction, error) {
	if days < 1 {
		return models.Transaction{}, types.NewDomainError(types.ErrValidation, "rental must be at least one day")
	}

	var tx models.Transaction
	_, err := s.store.Update(ctx, 0, func(doc *models.Document) error {
		asset := doc.FindAsset(assetID)
		if asset == nil {
			return types.NewDomainError(types.ErrNotFound, "asset %s not found", assetID)
		}
		if asset.Status != models.AssetAvailable {
			return types.NewDomainError(types.ErrAssetUnavailable,
				"asset %s is %s, not available", assetID, asset.Status)
		}

		renterName := ""
		if renter := doc.FindUser(renterID); renter != nil {
			renterName = renter.Name
		}

		now := time.Now().UTC()
		end := now.AddDate(0, 0, days)
		tx = models.Transaction{
			ID:          uuid.NewString(),
			AssetID:     asset.ID,
			AssetName:   asset.Name,
			RenterID:    renterID,
			RenterName:  renterName,
			OwnerID:     asset.OwnerID,
			StartDate:   now,
			EndDate:     &end,
			TotalCost:   asset.DailyRate * float64(days),
			Status:      models.TxPendingApproval,
			DepositHeld: true,
			CreatedAt:   now,
		}

		asset.Status = models.AssetRented
		doc.Transactions = append(doc.Transactions, tx)
		return nil
	})
	if err != nil {
		return models.Transaction{}, err
	}

	s.logger.Info("rental started",
		zap.String("transaction_id", tx.ID),
		zap.String("asset_id", assetID),
		zap.Int("days", days),
	)
	return tx, nil
}

// Purchase is the sale counterpart of Rent: asset goes sold, total cost is
// the sale price, and there is no end date.
func (s *TransactionService) Purchase(ctx context.Context, assetID, buyerID string) (models.Transaction, error) {
	var tx models.Transaction
	_, err := s.store.Update(ctx, 0, func(doc *models.Document) error {
		asset := doc.FindAsset(assetID)
		if asset == nil {
			return types.NewDomainError(types.ErrNotFound, "asset %s not found", assetID)
		}
		if asset.Status != models.AssetAvailable {
			return types.NewDomainError(types.ErrAssetUnavailable,
				"asset %s is %s, not available", assetID, asset.Status)
		}

		buyerName := ""
		if buyer := doc.FindUser(buyerID); buyer != nil {
			buyerName = buyer.Name
		}

		now := time.Now().UTC()
		tx = models.Transaction{
			ID:          uuid.NewString(),
			AssetID:     asset.ID,
			AssetName:   asset.Name,
			RenterID:    buyerID,
			RenterName:  buyerName,
			OwnerID:     asset.OwnerID,
			StartDate:   now,
			TotalCost:   asset.SalePrice,
			Status:      models.TxPendingApproval,
			DepositHeld: true,
			CreatedAt:   now,
		}

		asset.Status = models.AssetSold
		doc.Transactions = append(doc.Transactions, tx)
		return nil
	})
	if err != nil {
		return models.Transaction{}, err
	}

	s.logger.Info("purchase started",
		zap.String("transaction_id", tx.ID),
		zap.String("asset_id", assetID),
	)
	return tx, nil
}

// Dispatch moves pending_approval to in_transit.
func (s *TransactionService) Dispatch(ctx context.Context, rev uint64, txID string) (uint64, error) {
	return s.transition(ctx, rev, txID, models.TxInTransit, func(tx *models.Transaction) error {
		if tx.Status != models.TxPendingApproval {
			return transitionError(tx, models.TxInTransit)
		}
		return nil
	})
}

// ConfirmDelivery moves in_transit to active.
func (s *TransactionService) ConfirmDelivery(ctx context.Context, rev uint64, txID string) (uint64, error) {
	return s.transition(ctx, rev, txID, models.TxActive, func(tx *models.Transaction) error {
		if tx.Status != models.TxInTransit {
			return transitionError(tx, models.TxActive)
		}
		return nil
	})
}

// ProcessReturn closes a transaction from any non-terminal state: the
// transaction goes returned, the deposit is released and the asset reverts
// to available.
func (s *TransactionService) ProcessReturn(ctx context.Context, rev uint64, txID string) (uint64, error) {
	return s.store.Update(ctx, rev, func(doc *models.Document) error {
		tx := doc.FindTransaction(txID)
		if tx == nil {
			return types.NewDomainError(types.ErrNotFound, "transaction %s not found", txID)
		}
		if tx.Status.Terminal() {
			return transitionError(tx, models.TxReturned)
		}

		tx.Status = models.TxReturned
		tx.DepositHeld = false
		if asset := doc.FindAsset(tx.AssetID); asset != nil {
			asset.Status = models.AssetAvailable
		}
		return nil
	})
}

// Dispute flags a transaction from any state except returned; disputing an
// already-disputed transaction is a conflict, not a silent repeat.
func (s *TransactionService) Dispute(ctx context.Context, rev uint64, txID string) (uint64, error) {
	return s.transition(ctx, rev, txID, models.TxDisputed, func(tx *models.Transaction) error {
		if tx.Status.Terminal() || tx.Status == models.TxDisputed {
			return transitionError(tx, models.TxDisputed)
		}
		return nil
	})
}

// List returns transactions newest first. userID narrows the view to one
// renter; empty userID is the admin view.
func (s *TransactionService) List(ctx context.Context, userID string) []models.Transaction {
	var out []models.Transaction
	s.store.View(ctx, func(doc *models.Document) {
		out = make([]models.Transaction, 0, len(doc.Transactions))
		for _, tx := range doc.Transactions {
			if userID == "" || tx.RenterID == userID || tx.OwnerID == userID {
				out = append(out, tx)
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// transition applies a guarded status change.
func (s *TransactionService) transition(ctx context.Context, rev uint64, txID string, to models.TransactionStatus, guard func(*models.Transaction) error) (uint64, error) {
	newRev, err := s.store.Update(ctx, rev, func(doc *models.Document) error {
		tx := doc.FindTransaction(txID)
		if tx == nil {
			return types.NewDomainError(types.ErrNotFound, "transaction %s not found", txID)
		}
		if err := guard(tx); err != nil {
			return err
		}
		tx.Status = to
		return nil
	})
	if err == nil {
		s.logger.Info("transaction transition",
			zap.String("transaction_id", txID), zap.String("to", string(to)))
	}
	return newRev, err
}

func transitionError(tx *models.Transaction, to models.TransactionStatus) error {
	return types.NewDomainError(types.ErrConflict,
		"transaction %s cannot move from %s to %s", tx.ID, tx.Status, to)
}
