package services_test

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/models"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/store"
)

// newTestStore creates a serialized store over an in-memory document host
func newTestStore(t *testing.T) (*store.Store, *store.MemoryClient) {
	t.Helper()
	client := store.NewMemoryClient()
	return store.New(client, zap.NewNop()), client
}

// newTestSessionDB creates an in-memory SQLite session database
func newTestSessionDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test session database: %v", err)
	}
	if err := db.AutoMigrate(&models.Session{}); err != nil {
		t.Fatalf("Failed to migrate test session database: %v", err)
	}
	return db
}

// seedUser writes an account straight into the document, bypassing registration
func seedUser(t *testing.T, st *store.Store, user models.UserAccount) {
	t.Helper()
	_, err := st.Update(context.Background(), 0, func(doc *models.Document) error {
		doc.Users = append(doc.Users, user)
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
}

// seedAsset writes a listing straight into the document
func seedAsset(t *testing.T, st *store.Store, asset models.Asset) {
	t.Helper()
	_, err := st.Update(context.Background(), 0, func(doc *models.Document) error {
		doc.Assets = append(doc.Assets, asset)
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to seed asset: %v", err)
	}
}
