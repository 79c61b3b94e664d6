package voucher

import (
	"context"

	"admissions-backoffice/pkg/accesscontrol"
	"admissions-backoffice/pkg/db/pagination"
	"admissions-backoffice/pkg/httpapi"
	"admissions-backoffice/pkg/middleware"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/vouchers")
	g.POST("", h.Create)
	g.POST("/batch", h.GenerateBatch)
	g.POST("/validate", h.Validate)
	g.POST("/redeem", h.Redeem)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.POST("/:id/status", h.SetStatus)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/usages", h.ListUsages)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BindFail(c, err)
		return
	}
	req.CreatedBy = middleware.ActorID(c.Request.Context())

	v, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	redactPins(c.Request.Context(), v)
	httpapi.Created(c, v)
}

func (h *Handler) GenerateBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BindFail(c, err)
		return
	}
	req.Template.CreatedBy = middleware.ActorID(c.Request.Context())

	vouchers, err := h.svc.GenerateBatch(c.Request.Context(), req)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	redactPins(c.Request.Context(), vouchers...)
	httpapi.Created(c, vouchers)
}

func (h *Handler) List(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpapi.BindFail(c, err)
		return
	}

	vouchers, info, err := h.svc.List(c.Request.Context(), req)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	for _, v := range vouchers {
		v.Pin = maskPin(v.Pin)
	}
	httpapi.Page(c, vouchers, info)
}

func (h *Handler) Get(c *gin.Context) {
	v, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	redactPins(c.Request.Context(), v)
	httpapi.OK(c, v)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BindFail(c, err)
		return
	}

	v, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	redactPins(c.Request.Context(), v)
	httpapi.OK(c, v)
}

func (h *Handler) SetStatus(c *gin.Context) {
	var req struct {
		Status Status `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BindFail(c, err)
		return
	}

	v, err := h.svc.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	redactPins(c.Request.Context(), v)
	httpapi.OK(c, v)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.OK(c, gin.H{"deleted": true})
}

func (h *Handler) ListUsages(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		httpapi.BindFail(c, err)
		return
	}

	usages, info, err := h.svc.ListUsages(c.Request.Context(), c.Param("id"), page)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Page(c, usages, info)
}

func (h *Handler) Validate(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BindFail(c, err)
		return
	}

	res, err := h.svc.Validate(c.Request.Context(), req)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.OK(c, res)
}

func (h *Handler) Redeem(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BindFail(c, err)
		return
	}
	res, err := h.svc.Redeem(c.Request.Context(), req)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Created(c, res)
}

// canSeePin reports whether the caller may read voucher PINs in clear.
func canSeePin(ctx context.Context) bool {
	switch middleware.ActorFromContext(ctx).Role {
	case accesscontrol.RoleFinance, accesscontrol.RoleAdmin:
		return true
	}
	return false
}

func redactPins(ctx context.Context, vouchers ...*Voucher) {
	if canSeePin(ctx) {
		return
	}
	for _, v := range vouchers {
		v.Pin = maskPin(v.Pin)
	}
}
