package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"campusmarket/internal/http/handlers"
	"campusmarket/internal/repos"
	"campusmarket/internal/services"
)

// newTestApp wires the API the way cmd/campusmarket does, minus the
// middleware that only matters in production (rate limits, helmet).
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	authSvc := &services.AuthService{
		Users:       repos.NewUserRepo(db),
		Secret:      []byte("test-secret"),
		TokenTTL:    time.Hour,
		EmailDomain: "columbus.edu",
	}
	deps := handlers.NewDeps(db, authSvc)
	requireUser := handlers.RequireUser(authSvc)

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Post("/auth/register", deps.AuthHandler.Register)
	api.Post("/auth/login", deps.AuthHandler.Login)
	api.Get("/auth/me", requireUser, deps.AuthHandler.Me)
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id", deps.ProductHandler.Detail)
	api.Post("/products", requireUser, deps.ProductHandler.Create)
	api.Get("/cart", requireUser, deps.CartHandler.View)
	api.Post("/cart", requireUser, deps.CartHandler.Add)
	api.Put("/cart", requireUser, deps.CartHandler.Update)
	api.Delete("/cart/:productId", requireUser, deps.CartHandler.Remove)
	api.Post("/checkout", requireUser, deps.OrderHandler.PlaceOrder)
	api.Get("/orders", requireUser, deps.OrderHandler.History)

	return app, db
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, testEnvelope) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	var env testEnvelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("bad envelope %q: %v", raw, err)
		}
	}
	return resp, env
}

// registerAndLogin creates a fresh account and returns its bearer token.
func registerAndLogin(t *testing.T, app *fiber.App, name, email string) string {
	t.Helper()
	resp, _ := doJSON(t, app, "POST", "/api/v1/auth/register", "", fiber.Map{
		"name": name, "email": email, "password": "Passw0rd!",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d", email, resp.StatusCode)
	}
	resp, env := doJSON(t, app, "POST", "/api/v1/auth/login", "", fiber.Map{
		"email": email, "password": "Passw0rd!",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", email, resp.StatusCode)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		t.Fatalf("no token in login response: %s", env.Data)
	}
	return data.Token
}
