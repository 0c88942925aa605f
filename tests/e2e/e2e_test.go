//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/config"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/infra"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func doUpload(t *testing.T, srv *httptest.Server, path, csv, token string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "sales.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest("POST", srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Suite setup ──────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("vault_test"),
		tcPostgres.WithUsername("vault"),
		tcPostgres.WithPassword("vault"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		ReceiptStoragePath: t.TempDir(),
		StoreName:          "Vault E2E",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed the admin user
	hash, err := bcrypt.GenerateFromPassword([]byte("vault-e2e-password"), 12)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`INSERT INTO users (id, username, name, email, password_hash, role, active, created_at)
		VALUES (gen_random_uuid(), 'admin', 'Admin E2E', 'admin@e2e.test', ?, 'admin', true, NOW())
		ON CONFLICT DO NOTHING`, string(hash)).Error)

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "vault-e2e-password"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func (env *testEnv) createClient(t *testing.T, email string) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/clients",
		jsonBody(t, map[string]any{
			"first_name": "Anna",
			"last_name":  "Novak",
			"email":      email,
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var body struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &body)
	return body.ID
}

func (env *testEnv) createItem(t *testing.T, serial string) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/inventory",
		jsonBody(t, map[string]any{
			"serial_number": serial,
			"brand":         "Rolex",
			"model":         "Submariner",
			"cost_price":    "5000",
			"retail_price":  "9000",
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var body struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &body)
	return body.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_ImportCycleWithReplay(t *testing.T) {
	env := setupTestEnv(t)

	clientID := env.createClient(t, "anna@e2e.test")
	env.createItem(t, "SN-E2E-1")
	env.createItem(t, "SN-E2E-2")

	csv := "client_email,serial_number,sale_date,selling_price\n" +
		"anna@e2e.test,SN-E2E-1,2026-08-01,\"$12,500.00\"\n" +
		"anna@e2e.test,SN-E2E-2,2026-08-01,9000\n"

	// First upload commits both rows.
	resp := doUpload(t, env.server, "/v1/transactions/import", csv, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result struct {
		SuccessfulCount int `json:"successful_count"`
		Errors          []any
		Duplicates      []any
	}
	decodeJSON(t, resp, &result)
	assert.Equal(t, 2, result.SuccessfulCount)
	assert.Empty(t, result.Errors)

	// Replaying the same file commits nothing.
	resp = doUpload(t, env.server, "/v1/transactions/import", csv, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &result)
	assert.Equal(t, 0, result.SuccessfulCount)
	assert.Len(t, result.Duplicates, 2)

	// Client stats reflect exactly one copy of each sale.
	clientResp := do(t, env.server, "GET", "/v1/clients/"+clientID, nil, env.token)
	require.Equal(t, http.StatusOK, clientResp.StatusCode)
	var client struct {
		TotalSpend    string `json:"total_spend"`
		PurchaseCount int    `json:"purchase_count"`
		VIPTier       string `json:"vip_tier"`
	}
	decodeJSON(t, clientResp, &client)
	assert.Equal(t, 2, client.PurchaseCount)
	assert.Equal(t, "vip", client.VIPTier) // 21500 total
}

func TestE2E_ManualDuplicateConfirmFlow(t *testing.T) {
	env := setupTestEnv(t)

	clientID := env.createClient(t, "ben@e2e.test")
	itemID := env.createItem(t, "SN-E2E-3")

	saleReq := map[string]any{
		"client_id":         clientID,
		"inventory_item_id": itemID,
		"sale_date":         "2026-08-01",
		"selling_price":     "9000",
	}
	resp := do(t, env.server, "POST", "/v1/transactions", jsonBody(t, saleReq), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Same client, same item, same day → conflict with the existing record attached.
	resp = do(t, env.server, "POST", "/v1/transactions", jsonBody(t, saleReq), env.token)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var conflict struct {
		Existing struct {
			ID string `json:"id"`
		} `json:"existing"`
	}
	decodeJSON(t, resp, &conflict)
	assert.NotEmpty(t, conflict.Existing.ID)

	// Explicit confirmation overrides the duplicate check.
	saleReq["confirmed_duplicate"] = true
	resp = do(t, env.server, "POST", "/v1/transactions", jsonBody(t, saleReq), env.token)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_CreditRestoresInventory(t *testing.T) {
	env := setupTestEnv(t)

	clientID := env.createClient(t, "carla@e2e.test")
	itemID := env.createItem(t, "SN-E2E-4")

	resp := do(t, env.server, "POST", "/v1/transactions",
		jsonBody(t, map[string]any{
			"client_id":         clientID,
			"inventory_item_id": itemID,
			"sale_date":         "2026-08-01",
			"selling_price":     "15000",
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sale struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &sale)

	// Item is sold.
	itemResp := do(t, env.server, "GET", "/v1/inventory/"+itemID, nil, env.token)
	require.Equal(t, http.StatusOK, itemResp.StatusCode)
	var item struct {
		Status string `json:"status"`
	}
	decodeJSON(t, itemResp, &item)
	require.Equal(t, "sold", item.Status)

	// Credit the sale.
	resp = do(t, env.server, "POST", "/v1/transactions/"+sale.ID+"/credit",
		jsonBody(t, map[string]any{"reason": "returned in warranty window"}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Item is back in stock and the spend is reversed.
	itemResp = do(t, env.server, "GET", "/v1/inventory/"+itemID, nil, env.token)
	require.Equal(t, http.StatusOK, itemResp.StatusCode)
	decodeJSON(t, itemResp, &item)
	assert.Equal(t, "in_stock", item.Status)

	clientResp := do(t, env.server, "GET", "/v1/clients/"+clientID, nil, env.token)
	require.Equal(t, http.StatusOK, clientResp.StatusCode)
	var client struct {
		TotalSpend    string `json:"total_spend"`
		PurchaseCount int    `json:"purchase_count"`
	}
	decodeJSON(t, clientResp, &client)
	assert.Equal(t, "0", client.TotalSpend)
	assert.Equal(t, 1, client.PurchaseCount)
}
