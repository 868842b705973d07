//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"service-desk/internal/config"
	"service-desk/internal/database"
	"service-desk/internal/handler"
	"service-desk/internal/middleware"
	"service-desk/internal/model"
	"service-desk/internal/repository"
	"service-desk/internal/router"
	"service-desk/internal/service"
	"service-desk/internal/token"
)

// envelope mirrors the response wrapper every endpoint emits.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testEnv struct {
	t      *testing.T
	server *httptest.Server
}

// newTestEnv wires the full stack against the Postgres instance named by
// TEST_DATABASE_URL, truncating all tables so every test starts clean.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration tests")
	}

	ctx := context.Background()
	db, err := database.New(ctx, dsn, 5, 1)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.EnsureSchema(ctx))
	_, err = db.Pool.Exec(ctx, "TRUNCATE ticket_comments, tickets, machines, locations, users")
	require.NoError(t, err)

	cfg := &config.Config{
		ServerPort:         "8080",
		ServerReadTimeout:  15 * time.Second,
		ServerWriteTimeout: 30 * time.Second,
		ServerIdleTimeout:  120 * time.Second,
		RequestTimeout:     30 * time.Second,
		DatabaseURL:        dsn,
		DBMaxConns:         5,
		DBMinConns:         1,
		JWTSecret:          "integration-test-secret",
		SessionTTL:         168 * time.Hour,
		CORSOrigins:        []string{"*"},
		RateLimitRPM:       10000,
		AuthRateLimitRPM:   10000,
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	locationRepo := repository.NewLocationRepository(pool)
	machineRepo := repository.NewMachineRepository(pool)

	tokenService := token.New(cfg.JWTSecret, cfg.SessionTTL)
	authService := service.NewAuthService(tokenService, userRepo)
	authMiddleware := middleware.NewAuthMiddleware(authService)
	authHandler := handler.NewAuthHandler(authService)

	ticketService := service.NewTicketService(ticketRepo, userRepo, locationRepo, machineRepo)
	commentService := service.NewCommentService(commentRepo, ticketRepo)
	ticketHandler := handler.NewTicketHandler(ticketService, commentService)

	catalogService := service.NewCatalogService(locationRepo, machineRepo)
	catalogHandler := handler.NewCatalogHandler(catalogService)

	// The session cookie carries the Secure flag, which the cookie jar
	// honors, so requests have to travel over TLS.
	server := httptest.NewTLSServer(router.New(cfg, authMiddleware, authHandler, ticketHandler, catalogHandler))
	t.Cleanup(server.Close)

	return &testEnv{t: t, server: server}
}

// client is one browser-like session: its cookie jar carries the auth
// cookie between requests.
type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func (e *testEnv) newClient() *client {
	e.t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(e.t, err)

	httpClient := &http.Client{
		Jar:       jar,
		Transport: e.server.Client().Transport,
	}
	return &client{t: e.t, base: e.server.URL, http: httpClient}
}

func (c *client) do(method string, path string, payload any) (*http.Response, envelope) {
	c.t.Helper()

	var body *bytes.Reader
	if payload == nil {
		body = bytes.NewReader(nil)
	} else {
		raw, err := json.Marshal(payload)
		require.NoError(c.t, err)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.base+path, body)
	require.NoError(c.t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var parsed envelope
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

var userSeq int

// registerUser creates an account through the public endpoint and leaves
// the client logged in via the session cookie the server set.
func registerUser(t *testing.T, c *client, role string, name string) model.PublicUser {
	t.Helper()

	userSeq++
	email := fmt.Sprintf("%s%d@example.test", role, userSeq)
	resp, env := c.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":     email,
		"password":  "sup3rsecret",
		"full_name": name,
		"role":      role,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, env.Success)

	return decodeData[model.PublicUser](t, env)
}

// seedCatalog registers an admin and creates one location with one
// machine, returning their ids for ticket creation.
func seedCatalog(t *testing.T, e *testEnv) (locationID string, machineID string) {
	t.Helper()

	admin := e.newClient()
	registerUser(t, admin, "admin", "Catalog Admin")

	resp, env := admin.do(http.MethodPost, "/api/v1/locations", map[string]string{
		"name":    "Downtown Branch",
		"address": "Main St 1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	location := decodeData[model.Location](t, env)

	resp, env = admin.do(http.MethodPost, "/api/v1/machines", map[string]string{
		"code":        "REG-001",
		"location_id": location.ID,
		"model":       "FP-700",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	machine := decodeData[model.Machine](t, env)

	return location.ID, machine.ID
}

func createTicket(t *testing.T, c *client, locationID string, machineID string, title string) model.Ticket {
	t.Helper()

	resp, env := c.do(http.MethodPost, "/api/v1/tickets", map[string]string{
		"location_id": locationID,
		"machine_id":  machineID,
		"title":       title,
		"description": "The receipt printer jams on every second print.",
		"urgency":     "high",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, env.Success)

	return decodeData[model.Ticket](t, env)
}
