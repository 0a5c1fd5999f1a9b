package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/roominglist-verifier/internal/auth"
	"github.com/nekogravitycat/roominglist-verifier/internal/dashboard"
	"github.com/nekogravitycat/roominglist-verifier/internal/metrics"
	"github.com/nekogravitycat/roominglist-verifier/internal/store/storetest"
)

func newTestRouter(t *testing.T, jwt *auth.JWTManager) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := dashboard.NewService(storetest.MustLoad(t, storetest.SampleSet()))
	return NewRouter(Config{
		DashboardService: svc,
		JWTManager:       jwt,
		Metrics:          metrics.New(),
	})
}

func get(r http.Handler, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(t, nil)

	w := get(r, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = get(r, "/v1/rooming-lists", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = get(r, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `roominglist_verifier_http_requests_total{code="200",method="GET",route="/v1/rooming-lists"} 1`)
}

func TestAuthGuardsV1Only(t *testing.T) {
	m := auth.NewJWTManager("secret", time.Minute)
	r := newTestRouter(t, m)

	assert.Equal(t, http.StatusOK, get(r, "/healthz", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/v1/events", nil).Code)

	token, err := m.GenerateAccessToken("ci")
	require.NoError(t, err)
	w := get(r, "/v1/events", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestLogNamesClient(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	m := auth.NewJWTManager("secret", time.Minute)
	r := newTestRouter(t, m)
	token, err := m.GenerateAccessToken("ci")
	require.NoError(t, err)

	w := get(r, "/v1/events", map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, buf.String(), `"client":"ci"`)
	assert.Contains(t, buf.String(), `"path":"/v1/events"`)
}

func TestCORS(t *testing.T) {
	r := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/v1/rooming-lists", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, splitOrigins(" https://a.example, ,https://b.example "))
	assert.Nil(t, splitOrigins(""))
}

func TestProductionWithoutOrigins(t *testing.T) {
	assert.NotPanics(t, func() { corsMiddleware(true, "") })
}
