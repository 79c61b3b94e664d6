package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"admissions-backoffice/pkg/errutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
	gin.SetMode(gin.TestMode)
}

func TestErrorRendersBusinessError(t *testing.T) {
	r := gin.New()
	r.Use(Error())
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(errutil.UnprocessableEntity("voucher expired", nil, errutil.WithReason("voucher_expired")))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body struct {
		Error struct {
			Code   string `json:"code"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "voucher_expired", body.Error.Reason)
}

func TestErrorHidesInfrastructureError(t *testing.T) {
	r := gin.New()
	r.Use(Error())
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(errors.New("dial tcp: connection refused"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "connection refused")
}

func TestActorMiddleware(t *testing.T) {
	var got Actor
	r := gin.New()
	r.Use(ActorMiddleware())
	r.GET("/x", func(c *gin.Context) {
		got = ActorFromContext(c.Request.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderActorID, " u-1 ")
	req.Header.Set(HeaderActorRole, "Finance")
	r.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, Actor{ID: "u-1", Role: "finance"}, got)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, "anonymous", got.Role)
}
