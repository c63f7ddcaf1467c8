package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavitra93/salon-platform-analytics/shared/config"
	"github.com/pavitra93/salon-platform-analytics/shared/middleware"
)

func newGateway(t *testing.T, backendURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	clients := &ServiceClients{AnalyticsService: NewServiceClient(backendURL)}
	cfg := &config.AnalyticsConfig{AllowedOrigins: []string{"http://localhost:3000"}}
	return setupRouter(clients, middleware.NewAuthMiddleware(nil, nil, logger), cfg, logger)
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":         "sub-" + role,
		"token_use":   "id",
		"custom:role": role,
	})
	signed, err := token.SignedString([]byte("gateway-test"))
	require.NoError(t, err)
	return "Bearer " + signed
}

func TestProxyRequest_ForwardsAdminRequests(t *testing.T) {
	var gotPath, gotQuery, gotRole, gotAuth string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotRole = r.Header.Get("X-User-Role")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=platform-analytics.csv")
		_, _ = io.WriteString(w, "account_number,id\n")
	}))
	defer backend.Close()

	router := newGateway(t, backend.URL)
	req := httptest.NewRequest(http.MethodGet, "/analytics/platform/export?format=csv", nil)
	req.Header.Set("Authorization", bearer(t, "admin"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/analytics/platform/export", gotPath)
	assert.Equal(t, "format=csv", gotQuery)
	assert.Equal(t, "admin", gotRole)
	assert.NotEmpty(t, gotAuth)
	assert.Equal(t, "account_number,id\n", rec.Body.String())
	assert.Equal(t, "attachment; filename=platform-analytics.csv", rec.Header().Get("Content-Disposition"))
}

func TestProxyRequest_IdentityHeadersComeFromToken(t *testing.T) {
	tenantID := uuid.New()
	var got http.Header
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer backend.Close()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":              "ops-1",
		"email":            "ops@platform.test",
		"token_use":        "id",
		"custom:role":      "admin",
		"custom:tenant_id": tenantID.String(),
	})
	signed, err := token.SignedString([]byte("gateway-test"))
	require.NoError(t, err)

	router := newGateway(t, backend.URL)
	req := httptest.NewRequest(http.MethodGet, "/analytics/platform", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	req.Header.Set("X-User-ID", "someone-else")
	req.Header.Set("X-User-Role", "admin, user")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"ops-1"}, got.Values("X-User-ID"))
	assert.Equal(t, "ops@platform.test", got.Get("X-User-Email"))
	assert.Equal(t, []string{"admin"}, got.Values("X-User-Role"))
	assert.Equal(t, tenantID.String(), got.Get("X-Tenant-ID"))
}

func TestProxyRequest_OmitsTenantHeaderWithoutTenant(t *testing.T) {
	var got http.Header
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer backend.Close()

	router := newGateway(t, backend.URL)
	req := httptest.NewRequest(http.MethodGet, "/analytics/platform/tenants", nil)
	req.Header.Set("Authorization", bearer(t, "admin"))
	req.Header.Set("X-Tenant-ID", "spoofed")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, got.Values("X-Tenant-ID"))
	assert.Equal(t, "sub-admin", got.Get("X-User-ID"))
}

func TestProxyRequest_RejectsNonAdminsAtTheEdge(t *testing.T) {
	called := false
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer backend.Close()

	router := newGateway(t, backend.URL)
	req := httptest.NewRequest(http.MethodGet, "/analytics/platform", nil)
	req.Header.Set("Authorization", bearer(t, "tenant_owner"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestProxyRequest_BackendDown(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	backend.Close()

	router := newGateway(t, backend.URL)
	req := httptest.NewRequest(http.MethodGet, "/analytics/platform/tenants", nil)
	req.Header.Set("Authorization", bearer(t, "admin"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetServiceStatus(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer failing.Close()

	ok := (&ServiceClients{AnalyticsService: NewServiceClient(healthy.URL)}).GetServiceStatus()
	assert.Equal(t, map[string]interface{}{"healthy": true}, ok["analytics_service"])

	down := (&ServiceClients{AnalyticsService: NewServiceClient(failing.URL)}).GetServiceStatus()
	entry := down["analytics_service"].(map[string]interface{})
	assert.Equal(t, false, entry["healthy"])
	assert.Contains(t, entry["error"], "503")
}
