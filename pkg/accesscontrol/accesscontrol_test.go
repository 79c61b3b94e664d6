package accesscontrol

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"admissions-backoffice/pkg/config"
	"admissions-backoffice/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
	gin.SetMode(gin.TestMode)
}

func TestDefaultPolicies(t *testing.T) {
	e, err := NewEnforcer(&config.Config{})
	require.NoError(t, err)

	cases := []struct {
		role, path, method string
		allowed            bool
	}{
		{RoleViewer, "/api/v1/vouchers", "GET", true},
		{RoleViewer, "/api/v1/vouchers", "POST", false},
		{RoleAdmissions, "/api/v1/applications/1/status", "POST", true},
		{RoleAdmissions, "/api/v1/vouchers/redeem", "POST", true},
		{RoleAdmissions, "/api/v1/payments/1/verify", "POST", false},
		{RoleFinance, "/api/v1/payments/1/verify", "POST", true},
		{RoleFinance, "/api/v1/vouchers/1", "DELETE", true},
		{RoleFinance, "/api/v1/applications", "POST", false},
		{RoleAdmin, "/api/v1/applications", "POST", true},
		{RoleAdmin, "/api/v1/payments/1/reject", "POST", true},
		{"anonymous", "/api/v1/vouchers", "GET", false},
	}
	for _, tc := range cases {
		ok, err := e.Enforce(tc.role, tc.path, tc.method)
		require.NoError(t, err)
		require.Equal(t, tc.allowed, ok, "%s %s %s", tc.role, tc.method, tc.path)
	}
}

func TestAuthorize(t *testing.T) {
	e, err := NewEnforcer(nil)
	require.NoError(t, err)

	r := gin.New()
	r.Use(middleware.Error(), middleware.ActorMiddleware(), Authorize(e))
	r.POST("/api/v1/payments/:id/verify", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/1/verify", nil)
	req.Header.Set(middleware.HeaderActorRole, RoleViewer)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/payments/1/verify", nil)
	req.Header.Set(middleware.HeaderActorRole, RoleFinance)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
}
