package httpapi

import (
	"net/http"

	"admissions-backoffice/pkg/db/pagination"
	"admissions-backoffice/pkg/errutil"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	Data     any                  `json:"data"`
	PageInfo *pagination.PageInfo `json:"page_info,omitempty"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, envelope{Data: data})
}

func Page(c *gin.Context, data any, info pagination.PageInfo) {
	c.JSON(http.StatusOK, envelope{Data: data, PageInfo: &info})
}

// Fail hands err to the error middleware and stops the chain.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// BindFail reports a malformed request body or query.
func BindFail(c *gin.Context, err error) {
	Fail(c, errutil.BadRequest("malformed request", err, errutil.WithReason(errutil.ReasonValidation)))
}
