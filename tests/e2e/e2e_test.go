//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tillpos/internal/config"
	"tillpos/internal/infra"
	"tillpos/internal/router"

	"github.com/shopspring/decimal"
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

func timeNowDate() string { return time.Now().Format("2006-01-02") }

// assertAmount compares money values numerically, so "560" and "560.00" both
// pass against a NUMERIC(12,2) read-back.
func assertAmount(t *testing.T, want, got string) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(decimal.RequireFromString(got)),
		"want %s, got %s", want, got)
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
	userID string // admin user id, needed to open shifts
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("tillpos_test"),
		tcPostgres.WithUsername("tillpos"),
		tcPostgres.WithPassword("tillpos"),
		tcPostgres.BasicWaitStrategies(),
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
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		TaxRate:            "0.12",
		WorkerPoolSize:     1,
		StoreName:          "Tillpos E2E",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed admin user
	hash, err := bcrypt.GenerateFromPassword([]byte("tillpos2026!"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`INSERT INTO users (username, name, password_hash, role, is_active)
		VALUES ('admin', 'Admin E2E', ?, 'admin', true)
		ON CONFLICT (username) DO NOTHING`, string(hash)).Error)

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/api/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "tillpos2026!"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{
		server: srv,
		token:  loginBody.AccessToken,
		userID: loginBody.User.ID,
	}
}

func (env *testEnv) createProduct(t *testing.T, sku string, price float64, stock int) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/api/products",
		jsonBody(t, map[string]any{
			"sku":   sku,
			"name":  "Product " + sku,
			"price": price,
			"stock": stock,
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)
	return prod.ID
}

func (env *testEnv) openShift(t *testing.T, startingCash float64) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/api/shifts",
		jsonBody(t, map[string]any{
			"user_id":       env.userID,
			"starting_cash": startingCash,
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var shift struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &shift)
	return shift.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_FullSaleCycle(t *testing.T) {
	env := setupTestEnv(t)

	productID := env.createProduct(t, "EM-500", 500.0, 5)
	shiftID := env.openShift(t, 2000.0)

	// Cash sale: 500 + 12% tax = 560 due, 600 received, 40 change.
	saleResp := do(t, env.server, "POST", "/api/transactions",
		jsonBody(t, map[string]any{
			"shift_id":        shiftID,
			"items":           []map[string]any{{"product_id": productID, "quantity": 1}},
			"payment_method":  "cash",
			"received_amount": 600.0,
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID            string `json:"id"`
		ReceiptNumber string `json:"receipt_number"`
		Total         string `json:"total"`
		ChangeAmount  string `json:"change_amount"`
		Status        string `json:"status"`
	}
	decodeJSON(t, saleResp, &sale)
	assert.Equal(t, "completed", sale.Status)
	assertAmount(t, "560", sale.Total)
	assertAmount(t, "40", sale.ChangeAmount)
	assert.Regexp(t, `^RCP-\d+-\d{3}$`, sale.ReceiptNumber)

	// Stock decremented.
	prodResp := do(t, env.server, "GET", "/api/products/"+productID, nil, env.token)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var prod struct {
		Stock int `json:"stock"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 4, prod.Stock)

	// Receipt lookup round-trips.
	byReceipt := do(t, env.server, "GET", "/api/transactions/receipt/"+sale.ReceiptNumber, nil, env.token)
	require.Equal(t, http.StatusOK, byReceipt.StatusCode)
	var fetched struct {
		ID string `json:"id"`
	}
	decodeJSON(t, byReceipt, &fetched)
	assert.Equal(t, sale.ID, fetched.ID)

	// Shift summary reflects the cash sale.
	sumResp := do(t, env.server, "GET", "/api/shifts/"+shiftID+"/summary", nil, env.token)
	require.Equal(t, http.StatusOK, sumResp.StatusCode)
	var summary struct {
		CashSales    string `json:"cash_sales"`
		ExpectedCash string `json:"expected_cash"`
	}
	decodeJSON(t, sumResp, &summary)
	assertAmount(t, "560", summary.CashSales)
	assertAmount(t, "2560", summary.ExpectedCash)
}

func TestE2E_InsufficientCashRejected(t *testing.T) {
	env := setupTestEnv(t)

	productID := env.createProduct(t, "EM-501", 500.0, 5)
	shiftID := env.openShift(t, 1000.0)

	saleResp := do(t, env.server, "POST", "/api/transactions",
		jsonBody(t, map[string]any{
			"shift_id":        shiftID,
			"items":           []map[string]any{{"product_id": productID, "quantity": 1}},
			"payment_method":  "cash",
			"received_amount": 559.99,
		}),
		env.token,
	)
	defer saleResp.Body.Close()
	require.Equal(t, http.StatusBadRequest, saleResp.StatusCode)

	// Stock untouched after the rejection.
	prodResp := do(t, env.server, "GET", "/api/products/"+productID, nil, env.token)
	var prod struct {
		Stock int `json:"stock"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 5, prod.Stock)
}

func TestE2E_SecondOpenShiftConflicts(t *testing.T) {
	env := setupTestEnv(t)
	env.openShift(t, 500.0)

	resp := do(t, env.server, "POST", "/api/shifts",
		jsonBody(t, map[string]any{"user_id": env.userID, "starting_cash": 100.0}),
		env.token,
	)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestE2E_ReturnRestoresStockAndRefunds(t *testing.T) {
	env := setupTestEnv(t)

	productID := env.createProduct(t, "KT-100", 100.0, 10)
	shiftID := env.openShift(t, 500.0)

	saleResp := do(t, env.server, "POST", "/api/transactions",
		jsonBody(t, map[string]any{
			"shift_id":       shiftID,
			"items":          []map[string]any{{"product_id": productID, "quantity": 3}},
			"payment_method": "card",
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID string `json:"id"`
	}
	decodeJSON(t, saleResp, &sale)

	retResp := do(t, env.server, "POST", "/api/returns",
		jsonBody(t, map[string]any{
			"original_transaction_id": sale.ID,
			"reason":                  "damaged packaging",
			"refund_method":           "card",
			"items":                   []map[string]any{{"product_id": productID, "quantity": 3}},
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, retResp.StatusCode)
	var ret struct {
		RefundAmount string `json:"refund_amount"`
	}
	decodeJSON(t, retResp, &ret)
	assertAmount(t, "300", ret.RefundAmount)

	// Stock restored and original flipped to refunded.
	prodResp := do(t, env.server, "GET", "/api/products/"+productID, nil, env.token)
	var prod struct {
		Stock int `json:"stock"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 10, prod.Stock)

	txnResp := do(t, env.server, "GET", "/api/transactions/"+sale.ID, nil, env.token)
	var txn struct {
		Status string `json:"status"`
	}
	decodeJSON(t, txnResp, &txn)
	assert.Equal(t, "refunded", txn.Status)

	// A second return of the same sale is rejected.
	retry := do(t, env.server, "POST", "/api/returns",
		jsonBody(t, map[string]any{
			"original_transaction_id": sale.ID,
			"reason":                  "second attempt",
			"refund_method":           "card",
			"items":                   []map[string]any{{"product_id": productID, "quantity": 1}},
		}),
		env.token,
	)
	defer retry.Body.Close()
	assert.Equal(t, http.StatusBadRequest, retry.StatusCode)
}

func TestE2E_VoidRestoresStock(t *testing.T) {
	env := setupTestEnv(t)

	productID := env.createProduct(t, "DR-200", 20.0, 10)
	shiftID := env.openShift(t, 500.0)

	saleResp := do(t, env.server, "POST", "/api/transactions",
		jsonBody(t, map[string]any{
			"shift_id":       shiftID,
			"items":          []map[string]any{{"product_id": productID, "quantity": 4}},
			"payment_method": "card",
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID string `json:"id"`
	}
	decodeJSON(t, saleResp, &sale)

	voidResp := do(t, env.server, "DELETE", "/api/transactions/"+sale.ID,
		jsonBody(t, map[string]any{"reason": "entry error at the till"}),
		env.token,
	)
	defer voidResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, voidResp.StatusCode)

	prodResp := do(t, env.server, "GET", "/api/products/"+productID, nil, env.token)
	var prod struct {
		Stock int `json:"stock"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 10, prod.Stock)
}

func TestE2E_DailySalesAnalytics(t *testing.T) {
	env := setupTestEnv(t)

	productID := env.createProduct(t, "FP-300", 250.0, 20)
	shiftID := env.openShift(t, 1000.0)

	for i := 0; i < 2; i++ {
		resp := do(t, env.server, "POST", "/api/transactions",
			jsonBody(t, map[string]any{
				"shift_id":       shiftID,
				"items":          []map[string]any{{"product_id": productID, "quantity": 1}},
				"payment_method": "card",
			}),
			env.token,
		)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	today := timeNowDate()
	resp := do(t, env.server, "GET", "/api/analytics/daily/"+today, nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var daily struct {
		Revenue      string `json:"revenue"`
		Transactions int64  `json:"transactions"`
		AverageCheck string `json:"average_check"`
	}
	decodeJSON(t, resp, &daily)
	assert.Equal(t, int64(2), daily.Transactions)
	assertAmount(t, "560", daily.Revenue) // 2 x (250 + 12% tax)
	assertAmount(t, "280", daily.AverageCheck)
}
