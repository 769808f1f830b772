package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"salesnexus/internal/testutil"
	"salesnexus/internal/ws"
	"salesnexus/pkg/config"
	"salesnexus/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{
		Server: config.ServerConfig{AppName: "test", CORSOrigins: "*"},
		Sales:  config.SalesConfig{LowStockThreshold: 10, InvoiceDueDays: 30, StockRestorePolicy: config.RestorePolicyRestore},
	}
	log := zap.NewNop()
	app := New(Options{
		Config:  cfg,
		DB:      db,
		Logger:  log,
		Hub:     ws.NewHub(log),
		Metrics: metrics.New("test"),
		Clock:   func() time.Time { return time.Now().UTC() },
	})
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
	}
	return resp.StatusCode, env
}

func decode(t *testing.T, raw json.RawMessage, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode data %s: %v", raw, err)
	}
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if resp.StatusCode != 200 || body["status"] != "ok" || body["message"] != "API is running" {
		t.Fatalf("health = %d %v", resp.StatusCode, body)
	}
}

func TestInvoiceFlowOverHTTP(t *testing.T) {
	app, db := newTestApp(t)
	customer := testutil.SeedCustomer(t, db, "Ada")
	supplier := testutil.SeedSupplier(t, db, "Acme")
	widget := testutil.SeedProduct(t, db, supplier.ID, "Widget", "10.00", 5)
	gadget := testutil.SeedProduct(t, db, supplier.ID, "Gadget", "15.50", 5)

	status, env := doJSON(t, app, http.MethodPost, "/api/invoices",
		fmt.Sprintf(`{"customer_id":%q,"items":[{"product_id":%q,"quantity":3}]}`, customer.ID, widget.ID))
	if status != http.StatusCreated || !env.Success {
		t.Fatalf("create = %d %+v", status, env.Error)
	}
	var invoice struct {
		ID            string `json:"id"`
		InvoiceNumber string `json:"invoice_number"`
		Total         string `json:"total"`
		Items         []struct {
			Subtotal string `json:"subtotal"`
		} `json:"items"`
	}
	decode(t, env.Data, &invoice)
	if invoice.Total != "30" || len(invoice.Items) != 1 || invoice.Items[0].Subtotal != "30" {
		t.Fatalf("unexpected invoice %+v", invoice)
	}
	if !strings.HasPrefix(invoice.InvoiceNumber, "INV-") {
		t.Fatalf("invoice number = %s", invoice.InvoiceNumber)
	}

	status, env = doJSON(t, app, http.MethodPost, "/api/invoices/"+invoice.ID+"/items",
		fmt.Sprintf(`{"product_id":%q,"quantity":1}`, gadget.ID))
	if status != http.StatusCreated {
		t.Fatalf("add item = %d %+v", status, env.Error)
	}

	status, env = doJSON(t, app, http.MethodGet, "/api/invoices/"+invoice.ID, "")
	if status != http.StatusOK {
		t.Fatalf("get = %d", status)
	}
	decode(t, env.Data, &invoice)
	if invoice.Total != "45.5" {
		t.Fatalf("total = %s, want 45.5", invoice.Total)
	}

	status, env = doJSON(t, app, http.MethodPost, "/api/invoices/"+invoice.ID+"/items",
		fmt.Sprintf(`{"product_id":%q,"quantity":5}`, widget.ID))
	if status != http.StatusBadRequest || env.Error == nil || env.Error.Code != "INSUFFICIENT_STOCK" {
		t.Fatalf("oversell = %d %+v", status, env.Error)
	}
	if stock := testutil.Stock(t, db, widget.ID); stock != 2 {
		t.Fatalf("stock = %d, want 2", stock)
	}

	status, env = doJSON(t, app, http.MethodPut, "/api/invoices/"+invoice.ID, `{"total":"1.00"}`)
	if status != http.StatusBadRequest || env.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("total update = %d %+v", status, env.Error)
	}

	status, env = doJSON(t, app, http.MethodGet, "/api/customers/"+customer.ID.String()+"/invoices", "")
	var list []json.RawMessage
	decode(t, env.Data, &list)
	if status != http.StatusOK || len(list) != 1 {
		t.Fatalf("customer invoices = %d %d", status, len(list))
	}

	status, _ = doJSON(t, app, http.MethodDelete, "/api/invoices/"+invoice.ID, "")
	if status != http.StatusOK {
		t.Fatalf("delete = %d", status)
	}
	status, env = doJSON(t, app, http.MethodGet, "/api/invoices/"+invoice.ID, "")
	if status != http.StatusNotFound || env.Error.Code != "NOT_FOUND" {
		t.Fatalf("get deleted = %d %+v", status, env.Error)
	}
	if stock := testutil.Stock(t, db, widget.ID); stock != 5 {
		t.Fatalf("stock after delete = %d, want 5", stock)
	}
}

func TestErrorEnvelope(t *testing.T) {
	app, _ := newTestApp(t)

	cases := []struct {
		method, path, body string
		status             int
		code               string
	}{
		{http.MethodGet, "/api/customers/not-a-uuid", "", 400, "VALIDATION_ERROR"},
		{http.MethodGet, "/api/customers/6f1c2a9e-1111-4c3e-9a55-000000000000", "", 404, "NOT_FOUND"},
		{http.MethodPost, "/api/customers", `{"name":`, 400, "VALIDATION_ERROR"},
		{http.MethodPost, "/api/customers", `{"name":"Ada"}`, 400, "VALIDATION_ERROR"},
		{http.MethodGet, "/api/nope", "", 404, "NOT_FOUND"},
	}
	for _, tc := range cases {
		status, env := doJSON(t, app, tc.method, tc.path, tc.body)
		if status != tc.status || env.Success || env.Error == nil || env.Error.Code != tc.code {
			t.Errorf("%s %s = %d %+v", tc.method, tc.path, status, env.Error)
		}
	}
}

func TestCatalogOverHTTP(t *testing.T) {
	app, _ := newTestApp(t)

	status, env := doJSON(t, app, http.MethodPost, "/api/suppliers", `{"name":"Acme","email":"sales@acme.test"}`)
	if status != http.StatusCreated {
		t.Fatalf("create supplier = %d %+v", status, env.Error)
	}
	var supplier struct {
		ID string `json:"id"`
	}
	decode(t, env.Data, &supplier)

	status, env = doJSON(t, app, http.MethodPost, "/api/products",
		fmt.Sprintf(`{"name":"Widget","price":"9.99","stock":3,"supplier_id":%q}`, supplier.ID))
	if status != http.StatusCreated {
		t.Fatalf("create product = %d %+v", status, env.Error)
	}

	status, env = doJSON(t, app, http.MethodGet, "/api/products/low-stock", "")
	var low []json.RawMessage
	decode(t, env.Data, &low)
	if status != http.StatusOK || len(low) != 1 {
		t.Fatalf("low stock = %d %d", status, len(low))
	}

	status, env = doJSON(t, app, http.MethodDelete, "/api/suppliers/"+supplier.ID, "")
	if status != http.StatusBadRequest {
		t.Fatalf("supplier delete with products = %d", status)
	}

	status, env = doJSON(t, app, http.MethodPost, "/api/customers", `{"name":"Ada","email":"ada@example.com"}`)
	if status != http.StatusCreated {
		t.Fatalf("create customer = %d %+v", status, env.Error)
	}
	status, env = doJSON(t, app, http.MethodPost, "/api/customers", `{"name":"Ada 2","email":"ada@example.com"}`)
	if status != http.StatusBadRequest || env.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("duplicate email = %d %+v", status, env.Error)
	}

	status, env = doJSON(t, app, http.MethodGet, "/api/dashboard/stats", "")
	var stats struct {
		TotalCustomers int64 `json:"total_customers"`
		TotalProducts  int64 `json:"total_products"`
	}
	decode(t, env.Data, &stats)
	if status != http.StatusOK || stats.TotalCustomers != 1 || stats.TotalProducts != 1 {
		t.Fatalf("stats = %d %+v", status, stats)
	}

	status, env = doJSON(t, app, http.MethodGet, "/api/dashboard/sales-by-period?period=decade", "")
	var buckets []json.RawMessage
	decode(t, env.Data, &buckets)
	if status != http.StatusOK || len(buckets) != 7 {
		t.Fatalf("unknown period should fall back to 7 daily buckets: %d %d", status, len(buckets))
	}

	status, env = doJSON(t, app, http.MethodGet, "/api/dashboard/activities", "")
	var activities []json.RawMessage
	decode(t, env.Data, &activities)
	if status != http.StatusOK || len(activities) != 1 {
		t.Fatalf("activities = %d %d", status, len(activities))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	app, _ := newTestApp(t)
	doJSON(t, app, http.MethodGet, "/api/customers", "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `test_http_requests_total{method="GET",path="/api/customers`) {
		t.Fatalf("request counter missing:\n%s", body)
	}
}
