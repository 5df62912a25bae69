package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/salescope/engine"
	"github.com/spektr-org/salescope/helpers"
)

const ordersCSV = `order_id,date,sku,qty,unit_price
1001,2024-01-01,A,2,10
1002,2024-01-02,B,3,20
1003,2024-01-02,A,1,10
1004,2024-01-08,C,5,7.5
1005,2024-01-09,B,2,20
`

func newTestServer(maxBytes int64) *Server {
	return New(engine.New(engine.WithCache(engine.NoopCache{})), Options{MaxUploadBytes: maxBytes}, nil)
}

func rawRequest(target, filename, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set("X-Filename", filename)
	return req
}

func multipartRequest(t *testing.T, target, filename, body string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "ignored"))
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	rec := serve(newTestServer(0), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(0)
	serve(s, rawRequest("/v1/detect", "orders.csv", ordersCSV))

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "salescope_role_detections_total")
}

func TestDetect_RawBody(t *testing.T) {
	rec := serve(newTestServer(0), rawRequest("/v1/detect", "orders.csv", ordersCSV))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	mapping := body["mapping"].(map[string]any)
	assert.Equal(t, "order_id", mapping["order"])
	assert.Equal(t, "date", mapping["date"])
	assert.Equal(t, "sku", mapping["product"])
	assert.Equal(t, "qty", mapping["quantity"])
	assert.Equal(t, "_computed_revenue", mapping["revenue"])
	assert.Nil(t, mapping["store"])
	assert.Nil(t, mapping["customer"])

	upload := body["upload"].(map[string]any)
	assert.Equal(t, "orders.csv", upload["name"])
	assert.NotEmpty(t, upload["id"])
}

func TestAnalyze_Multipart(t *testing.T) {
	req := multipartRequest(t, "/v1/analyze?top_n=3&granularity=W&currency=GNF", "orders.csv", ordersCSV)
	rec := serve(newTestServer(0), req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	report := body["report"].(map[string]any)
	kpis := report["kpis"].(map[string]any)
	assert.InDelta(t, 167.5, kpis["totalRevenue"].(float64), 1e-9)
	assert.Equal(t, 13.0, kpis["totalUnits"])
	assert.Nil(t, kpis["uniqueCustomers"])

	params := report["params"].(map[string]any)
	assert.Equal(t, "week", params["granularity"])
	assert.Equal(t, "GNF", params["currency"])
	assert.Len(t, report["series"], 2)

	charts := body["charts"].(map[string]any)
	assert.NotNil(t, charts["series"])
	assert.NotNil(t, charts["topProducts"])
	assert.Nil(t, charts["topStores"])
}

func TestAnalyze_InvalidParams(t *testing.T) {
	s := newTestServer(0)
	for _, q := range []string{"top_n=2", "top_n=abc", "top_n=51", "granularity=year"} {
		rec := serve(s, rawRequest("/v1/analyze?"+q, "orders.csv", ordersCSV))
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestUpload_Errors(t *testing.T) {
	tests := []struct {
		name   string
		server *Server
		req    *http.Request
		status int
	}{
		{"unsupported extension", newTestServer(0), rawRequest("/v1/detect", "orders.json", "{}"), http.StatusUnsupportedMediaType},
		{"missing filename", newTestServer(0), rawRequest("/v1/detect", "", ordersCSV), http.StatusUnsupportedMediaType},
		{"too large", newTestServer(16), rawRequest("/v1/detect", "orders.csv", ordersCSV), http.StatusRequestEntityTooLarge},
		{"empty csv", newTestServer(0), rawRequest("/v1/detect", "orders.csv", ""), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(tt.server, tt.req)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.EqualValues(t, tt.status, decode(t, rec)["status"])
		})
	}
}

func TestExport_CSV(t *testing.T) {
	rec := serve(newTestServer(0), rawRequest("/v1/export", "orders.csv", ordersCSV))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "sales_extract.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "date,sku,order_id,_computed_revenue,qty", lines[0])
	assert.Equal(t, "2024-01-01,A,1001,20,2", lines[1])
}

func TestExport_XLSX(t *testing.T) {
	rec := serve(newTestServer(0), rawRequest("/v1/export?format=xlsx", "orders.csv", ordersCSV))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	up, err := helpers.Load("extract.xlsx", rec.Body, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "sku", "order_id", "_computed_revenue", "qty"}, up.Table.Names())
	assert.Equal(t, 5, up.Table.NumRows())
}

func TestExport_NoKeyColumns(t *testing.T) {
	rec := serve(newTestServer(0), rawRequest("/v1/export", "misc.csv", "foo,bar\n1,2\n"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = serve(newTestServer(0), rawRequest("/v1/export?format=pdf", "orders.csv", ordersCSV))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
