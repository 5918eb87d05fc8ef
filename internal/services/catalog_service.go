package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/models"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/store"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/types"
)

// CatalogService owns the shop catalog and the settings singleton, both plain
// admin-owned CRUD.
type CatalogService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCatalogService builds a CatalogService.
func NewCatalogService(st *store.Store, logger *zap.Logger) *CatalogService {
	return &CatalogService{store: st, logger: logger}
}

// ProductInput is the admin-supplied product payload.
type ProductInput struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
}

func (in ProductInput) validate() error {
	if in.Name == "" {
		return types.NewDomainError(types.ErrValidation, "product name is required")
	}
	if in.Price < 0 || in.Stock < 0 {
		return types.NewDomainError(types.ErrValidation, "price and stock must be non-negative")
	}
	return nil
}

// ListProducts returns the catalog.
func (s *CatalogService) ListProducts(ctx context.Context) []models.Product {
	var out []models.Product
	s.store.View(ctx, func(doc *models.Document) {
		out = append([]models.Product{}, doc.Products...)
	})
	return out
}

// CreateProduct appends a catalog item.
func (s *CatalogService) CreateProduct(ctx context.Context, input ProductInput) (models.Product, error) {
	if err := input.validate(); err != nil {
		return models.Product{}, err
	}

	product := models.Product{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Price:     input.Price,
		Stock:     input.Stock,
		Image:     input.Image,
		Category:  input.Category,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.store.Update(ctx, 0, func(doc *models.Document) error {
		doc.Products = append(doc.Products, product)
		return nil
	})
	if err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// UpdateProduct replaces a catalog item's fields.
func (s *CatalogService) UpdateProduct(ctx context.Context, rev uint64, productID string, input ProductInput) (uint64, error) {
	if err := input.validate(); err != nil {
		return 0, err
	}
	return s.store.Update(ctx, rev, func(doc *models.Document) error {
		for i := range doc.Products {
			if doc.Products[i].ID != productID {
				continue
			}
			doc.Products[i].Name = input.Name
			doc.Products[i].Price = input.Price
			doc.Products[i].Stock = input.Stock
			doc.Products[i].Image = input.Image
			doc.Products[i].Category = input.Category
			return nil
		}
		return types.NewDomainError(types.ErrNotFound, "product %s not found", productID)
	})
}

// DeleteProduct removes a catalog item.
func (s *CatalogService) DeleteProduct(ctx context.Context, rev uint64, productID string) (uint64, error) {
	return s.store.Update(ctx, rev, func(doc *models.Document) error {
		for i := range doc.Products {
			if doc.Products[i].ID == productID {
				doc.Products = append(doc.Products[:i], doc.Products[i+1:]...)
				return nil
			}
		}
		return types.NewDomainError(types.ErrNotFound, "product %s not found", productID)
	})
}

// GetSettings returns the settings singleton with the AI key masked out; the
// key is write-only through the API.
func (s *CatalogService) GetSettings(ctx context.Context) models.AppSettings {
	var out models.AppSettings
	s.store.View(ctx, func(doc *models.Document) {
		out = doc.Settings
	})
	out.AIServiceKey = ""
	return out
}

// UpdateSettings overwrites the settings singleton wholesale. An empty
// AIServiceKey in the payload preserves the stored key so admins can edit
// org branding without re-entering the credential.
func (s *CatalogService) UpdateSettings(ctx context.Context, rev uint64, settings models.AppSettings) (uint64, error) {
	if settings.OrgName == "" {
		return 0, types.NewDomainError(types.ErrValidation, "orgName is required")
	}
	newRev, err := s.store.Update(ctx, rev, func(doc *models.Document) error {
		if settings.AIServiceKey == "" {
			settings.AIServiceKey = doc.Settings.AIServiceKey
		}
		doc.Settings = settings
		return nil
	})
	if err == nil {
		s.logger.Info("settings updated", zap.String("org_name", settings.OrgName))
	}
	return newRev, err
}
