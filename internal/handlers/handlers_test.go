package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/ai"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/handlers"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/middleware"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/models"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/services"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/store"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/triage"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/utils"
)

type brokenChatter struct{}

func (brokenChatter) Generate(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	return nil, errors.New("model unavailable")
}

type testEnv struct {
	app    *fiber.App
	store  *store.Store
	client *store.MemoryClient
	auth   *services.AuthService
	users  *services.UserService
	assets *services.AssetService
}

// setupTestApp wires the HTTP surface over an in-memory document host and an
// in-memory session database
func setupTestApp(t *testing.T) *testEnv {
	t.Helper()

	client := store.NewMemoryClient()
	st := store.New(client, zap.NewNop())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test session database: %v", err)
	}
	if err := db.AutoMigrate(&models.Session{}); err != nil {
		t.Fatalf("Failed to migrate test session database: %v", err)
	}

	logger := zap.NewNop()
	auth := services.NewAuthService(st, db, time.Hour, logger)
	users := services.NewUserService(st, logger)
	assets := services.NewAssetService(st, nil, time.Second, logger)
	txs := services.NewTransactionService(st, logger)
	tickets := services.NewTicketService(st, logger)
	catalog := services.NewCatalogService(st, logger)
	chat := services.NewChatService(st, brokenChatter{}, triage.NewKeywordClassifier(nil), time.Second, logger)

	authHandler := &handlers.AuthHandler{Auth: auth, Users: users, SessionTTL: time.Hour, Logger: logger}
	marketHandler := &handlers.MarketplaceHandler{Assets: assets, Transactions: txs}
	adminHandler := &handlers.AdminHandler{Users: users, Assets: assets, Transactions: txs, Tickets: tickets, Catalog: catalog}
	chatHandler := &handlers.ChatHandler{Chat: chat}
	supportHandler := &handlers.SupportHandler{Tickets: tickets, Catalog: catalog}
	healthHandler := &handlers.HealthHandler{Client: client, Sessions: db, Logger: logger}

	authUser := middleware.AuthUser(auth)
	authAdmin := middleware.AuthAdmin(auth)

	app := fiber.New()
	api := app.Group("/api")
	api.Get("/health", healthHandler.GetHealth)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/logout", authHandler.Logout)
	api.Get("/profile", authUser, authHandler.GetProfile)
	api.Put("/profile", authUser, authHandler.UpdateProfile)
	api.Get("/marketplace/assets", authUser, marketHandler.ListMarketplace)
	api.Post("/assets", authUser, marketHandler.CreateAsset)
	api.Post("/assets/:id/rent", authUser, marketHandler.Rent)
	api.Get("/transactions", authUser, marketHandler.ListTransactions)
	api.Post("/chat/message", authUser, chatHandler.Message)
	api.Post("/tickets", authUser, supportHandler.CreateTicket)
	api.Get("/admin/users", authAdmin, adminHandler.ListUsers)
	api.Post("/admin/assets/:id/moderate", authAdmin, adminHandler.ModerateAsset)
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "[404] Resource Not Found")
	})

	return &testEnv{app: app, store: st, client: client, auth: auth, users: users, assets: assets}
}

// request builds a JSON request carrying an optional session cookie
func request(t *testing.T, method, target string, body interface{}, cookie string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: services.SessionCookieName, Value: cookie})
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

// loginAs seeds an approved account and returns its session cookie
func loginAs(t *testing.T, env *testEnv, role models.Role) (models.UserAccount, string) {
	t.Helper()
	user := models.UserAccount{
		ID: "user-" + string(role), Name: "Test " + string(role),
		Email: string(role) + "@example.com", Role: role,
		ApprovalStatus: models.ApprovalApproved,
	}
	_, err := env.store.Update(context.Background(), 0, func(doc *models.Document) error {
		doc.Users = append(doc.Users, user)
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to seed account: %v", err)
	}
	token, err := env.auth.CreateSession(user)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return user, token
}

// TestRegisterAndLoginFlow tests the full registration to login path over HTTP
func TestRegisterAndLoginFlow(t *testing.T) {
	env := setupTestApp(t)

	resp, err := env.app.Test(request(t, "POST", "/api/auth/register", map[string]string{
		"name": "Amina", "email": "amina@example.com", "password": "strongpass",
	}, ""))
	if err != nil {
		t.Fatalf("Register request failed: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	var registered models.UserAccount
	decodeBody(t, resp, &registered)
	if registered.ApprovalStatus != models.ApprovalPending {
		t.Errorf("New accounts must be pending, got %q", registered.ApprovalStatus)
	}

	// Duplicate registration is a 400.
	resp, err = env.app.Test(request(t, "POST", "/api/auth/register", map[string]string{
		"name": "Other", "email": "AMINA@example.com", "password": "otherpass1",
	}, ""))
	if err != nil {
		t.Fatalf("Register request failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("Duplicate email should be 400, got %d", resp.StatusCode)
	}

	// Pending accounts get a 403 with a distinguishing message.
	resp, err = env.app.Test(request(t, "POST", "/api/auth/login", map[string]string{
		"email": "amina@example.com", "password": "strongpass",
	}, ""))
	if err != nil {
		t.Fatalf("Login request failed: %v", err)
	}
	if resp.StatusCode != 403 {
		t.Fatalf("Pending login should be 403, got %d", resp.StatusCode)
	}

	if _, err := env.users.SetApproval(context.Background(), 0, registered.ID, models.ApprovalApproved); err != nil {
		t.Fatalf("SetApproval failed: %v", err)
	}

	resp, err = env.app.Test(request(t, "POST", "/api/auth/login", map[string]string{
		"email": "amina@example.com", "password": "strongpass",
	}, ""))
	if err != nil {
		t.Fatalf("Login request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Approved login should be 200, got %d", resp.StatusCode)
	}

	var sessionCookie string
	for _, c := range resp.Cookies() {
		if c.Name == services.SessionCookieName {
			sessionCookie = c.Value
		}
	}
	if sessionCookie == "" {
		t.Fatal("Login must set the session cookie")
	}

	var logged models.UserAccount
	decodeBody(t, resp, &logged)
	if logged.PasswordHash != "" {
		t.Error("Login response leaked the credential hash")
	}

	// The cookie grants access to the profile.
	resp, err = env.app.Test(request(t, "GET", "/api/profile", nil, sessionCookie))
	if err != nil {
		t.Fatalf("Profile request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Profile with session should be 200, got %d", resp.StatusCode)
	}
}

// TestRouteAuthorization tests cookie and role gates
func TestRouteAuthorization(t *testing.T) {
	env := setupTestApp(t)

	resp, err := env.app.Test(request(t, "GET", "/api/profile", nil, ""))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != 403 {
		t.Errorf("No cookie should be 403, got %d", resp.StatusCode)
	}

	_, userCookie := loginAs(t, env, models.RoleUser)
	resp, err = env.app.Test(request(t, "GET", "/api/admin/users", nil, userCookie))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != 403 {
		t.Errorf("User on admin route should be 403, got %d", resp.StatusCode)
	}

	_, adminCookie := loginAs(t, env, models.RoleAdmin)
	resp, err = env.app.Test(request(t, "GET", "/api/admin/users", nil, adminCookie))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Admin on admin route should be 200, got %d", resp.StatusCode)
	}
}

// TestRentOverHTTP tests the marketplace rental path end to end
func TestRentOverHTTP(t *testing.T) {
	env := setupTestApp(t)
	ctx := context.Background()

	_, renterCookie := loginAs(t, env, models.RoleUser)
	_, err := env.store.Update(ctx, 0, func(doc *models.Document) error {
		doc.Assets = append(doc.Assets, models.Asset{
			ID: "bike", Name: "City Bike", OwnerID: "owner",
			ListingType: models.ListingRent, DailyRate: 100,
			Status: models.AssetAvailable, ModerationStatus: models.ModerationApproved,
		})
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to seed asset: %v", err)
	}

	resp, err := env.app.Test(request(t, "POST", "/api/assets/bike/rent", map[string]int{"days": 3}, renterCookie))
	if err != nil {
		t.Fatalf("Rent request failed: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	var tx models.Transaction
	decodeBody(t, resp, &tx)
	if tx.TotalCost != 300 || tx.Status != models.TxPendingApproval {
		t.Errorf("Unexpected transaction: %+v", tx)
	}

	// The asset is now rented; a second rent attempt conflicts.
	resp, err = env.app.Test(request(t, "POST", "/api/assets/bike/rent", map[string]int{"days": 1}, renterCookie))
	if err != nil {
		t.Fatalf("Rent request failed: %v", err)
	}
	if resp.StatusCode != 409 {
		t.Errorf("Renting a rented asset should be 409, got %d", resp.StatusCode)
	}

	// Unknown assets are an explicit 404.
	resp, err = env.app.Test(request(t, "POST", "/api/assets/ghost/rent", map[string]int{"days": 1}, renterCookie))
	if err != nil {
		t.Fatalf("Rent request failed: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("Unknown asset should be 404, got %d", resp.StatusCode)
	}
}

// TestStaleVersionConflict tests the E_VERSION envelope on stale mutations
func TestStaleVersionConflict(t *testing.T) {
	env := setupTestApp(t)

	_, cookie := loginAs(t, env, models.RoleUser)

	resp, err := env.app.Test(request(t, "PUT", "/api/profile", map[string]interface{}{
		"version": "999", "name": "Renamed",
	}, cookie))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != 409 {
		t.Fatalf("Stale version should be 409, got %d", resp.StatusCode)
	}

	var envelope map[string]interface{}
	decodeBody(t, resp, &envelope)
	if envelope["versionError"] != true {
		t.Error("Conflict envelope must carry versionError: true")
	}

	// The current version goes through; version accepts number or string.
	resp, err = env.app.Test(request(t, "PUT", "/api/profile", map[string]interface{}{
		"version": env.store.Revision(), "name": "Renamed",
	}, cookie))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Current version should be 200, got %d", resp.StatusCode)
	}
}

// TestChatMessageOverHTTP tests escalation behavior through the route
func TestChatMessageOverHTTP(t *testing.T) {
	env := setupTestApp(t)

	_, cookie := loginAs(t, env, models.RoleUser)

	resp, err := env.app.Test(request(t, "POST", "/api/chat/message", map[string]interface{}{
		"text": "I am bleeding badly",
	}, cookie))
	if err != nil {
		t.Fatalf("Chat request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var result services.TurnResult
	decodeBody(t, resp, &result)
	if !result.Escalated {
		t.Error("Bleeding must escalate even when the AI backend is down")
	}
	if result.Reply == "" {
		t.Error("Fallback reply must not be empty")
	}

	// Empty text never reaches the classifier.
	resp, err = env.app.Test(request(t, "POST", "/api/chat/message", map[string]interface{}{
		"text": "",
	}, cookie))
	if err != nil {
		t.Fatalf("Chat request failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("Empty text should be 400, got %d", resp.StatusCode)
	}
}

// TestHealthEndpoint tests both health outcomes
func TestHealthEndpoint(t *testing.T) {
	env := setupTestApp(t)

	resp, err := env.app.Test(request(t, "GET", "/api/health", nil, ""))
	if err != nil {
		t.Fatalf("Health request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Healthy service should be 200, got %d", resp.StatusCode)
	}

	env.client.FailFetch = true
	resp, err = env.app.Test(request(t, "GET", "/api/health", nil, ""))
	if err != nil {
		t.Fatalf("Health request failed: %v", err)
	}
	if resp.StatusCode != 503 {
		t.Errorf("Unreachable document host should be 503, got %d", resp.StatusCode)
	}
}

// TestUnknownRoute tests the catch-all 404
func TestUnknownRoute(t *testing.T) {
	env := setupTestApp(t)

	resp, err := env.app.Test(request(t, "GET", "/api/no/such/route", nil, ""))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("Unknown route should be 404, got %d", resp.StatusCode)
	}
}
