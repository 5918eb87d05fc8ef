package store_test

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/models"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/store"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/types"
)

func newTestStore() (*store.Store, *store.MemoryClient) {
	client := store.NewMemoryClient()
	return store.New(client, zap.NewNop()), client
}

// TestFetchEmptyHost tests that an empty host yields a normalized document
func TestFetchEmptyHost(t *testing.T) {
	s, _ := newTestStore()

	doc := s.Fetch(context.Background())
	if doc.Users == nil || doc.Assets == nil || doc.Transactions == nil {
		t.Error("Collections must be non-nil after fetch")
	}
	if doc.Settings.OrgName != models.DefaultOrgName {
		t.Errorf("Expected default org name, got %q", doc.Settings.OrgName)
	}
}

// TestFetchFailureServesDefault tests the availability bias on read paths
func TestFetchFailureServesDefault(t *testing.T) {
	s, client := newTestStore()
	client.FailFetch = true

	doc := s.Fetch(context.Background())
	if doc == nil {
		t.Fatal("Fetch must not return nil on transport failure")
	}
	if len(doc.Users) != 0 {
		t.Error("Default document should be empty")
	}
}

// TestUpdateRoundTrip tests that a mutation survives a save/fetch cycle
func TestUpdateRoundTrip(t *testing.T) {
	s, client := newTestStore()

	rev, err := s.Update(context.Background(), 0, func(doc *models.Document) error {
		doc.Users = append(doc.Users, models.UserAccount{ID: "u1", Name: "Amina"})
		return nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if rev != 1 {
		t.Errorf("Expected revision 1, got %d", rev)
	}
	if client.SaveCount != 1 {
		t.Errorf("Expected 1 save, got %d", client.SaveCount)
	}

	doc := s.Fetch(context.Background())
	if len(doc.Users) != 1 || doc.Users[0].Name != "Amina" {
		t.Errorf("Mutation did not round-trip: %+v", doc.Users)
	}
}

// TestUpdateStaleRevision tests the E_VERSION conflict on stale writers
func TestUpdateStaleRevision(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	if _, err := s.Update(ctx, 0, func(doc *models.Document) error { return nil }); err != nil {
		t.Fatalf("Seed update failed: %v", err)
	}
	if _, err := s.Update(ctx, 0, func(doc *models.Document) error { return nil }); err != nil {
		t.Fatalf("Second update failed: %v", err)
	}

	// A writer that read at revision 1 is now stale.
	_, err := s.Update(ctx, 1, func(doc *models.Document) error {
		t.Error("Mutation must not run for a stale writer")
		return nil
	})
	if !types.IsCode(err, types.ErrStaleVersion) {
		t.Errorf("Expected stale_version error, got %v", err)
	}

	// A writer at the current revision goes through.
	if _, err := s.Update(ctx, s.Revision(), func(doc *models.Document) error { return nil }); err != nil {
		t.Errorf("Current-revision writer was rejected: %v", err)
	}
}

// TestUpdateNoChange tests that ErrNoChange skips the save
func TestUpdateNoChange(t *testing.T) {
	s, client := newTestStore()

	rev, err := s.Update(context.Background(), 0, func(doc *models.Document) error {
		return store.ErrNoChange
	})
	if err != nil {
		t.Fatalf("ErrNoChange must not surface as an error: %v", err)
	}
	if rev != 0 {
		t.Errorf("Revision must not bump on a no-change cycle, got %d", rev)
	}
	if client.SaveCount != 0 {
		t.Errorf("No-change cycle must not save, got %d saves", client.SaveCount)
	}
}

// TestUpdateFetchFailureAborts tests that write paths refuse a blind overwrite
func TestUpdateFetchFailureAborts(t *testing.T) {
	s, client := newTestStore()
	ctx := context.Background()

	if _, err := s.Update(ctx, 0, func(doc *models.Document) error {
		doc.Users = append(doc.Users, models.UserAccount{ID: "u1"})
		return nil
	}); err != nil {
		t.Fatalf("Seed update failed: %v", err)
	}

	client.FailFetch = true
	_, err := s.Update(ctx, 0, func(doc *models.Document) error {
		doc.Users = nil
		return nil
	})
	if err == nil {
		t.Fatal("Update must fail when the fetch fails")
	}

	client.FailFetch = false
	doc := s.Fetch(ctx)
	if len(doc.Users) != 1 {
		t.Error("Failed update must not have touched the stored document")
	}
}

// TestUpdateMutationErrorAborts tests that mutation errors write nothing
func TestUpdateMutationErrorAborts(t *testing.T) {
	s, client := newTestStore()

	_, err := s.Update(context.Background(), 0, func(doc *models.Document) error {
		doc.Users = append(doc.Users, models.UserAccount{ID: "u1"})
		return types.NewDomainError(types.ErrValidation, "nope")
	})
	if !types.IsCode(err, types.ErrValidation) {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if client.SaveCount != 0 {
		t.Error("Aborted mutation must not save")
	}
}

// TestUpdateSerialized tests that concurrent writers never lose appends
func TestUpdateSerialized(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	const writers = 50
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, 0, func(doc *models.Document) error {
				doc.ChatMessages = append(doc.ChatMessages, models.ChatMessage{Text: "x"})
				return nil
			})
			if err != nil {
				t.Errorf("Concurrent update failed: %v", err)
			}
		}()
	}
	wg.Wait()

	doc := s.Fetch(ctx)
	if len(doc.ChatMessages) != writers {
		t.Errorf("Expected %d messages, got %d (lost writes)", writers, len(doc.ChatMessages))
	}
	if s.Revision() != writers {
		t.Errorf("Expected revision %d, got %d", writers, s.Revision())
	}
}
