package payment

import (
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
	g := rg.Group("/payments")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("/:id/verify", h.Verify)
	g.POST("/:id/reject", h.Reject)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BindFail(c, err)
		return
	}

	p, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Created(c, p)
}

func (h *Handler) List(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpapi.BindFail(c, err)
		return
	}

	payments, info, err := h.svc.List(c.Request.Context(), req)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Page(c, payments, info)
}

func (h *Handler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.OK(c, p)
}

func (h *Handler) Verify(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.svc.Verify(ctx, c.Param("id"), middleware.ActorID(ctx))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.OK(c, p)
}

func (h *Handler) Reject(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BindFail(c, err)
		return
	}

	ctx := c.Request.Context()
	p, err := h.svc.Reject(ctx, c.Param("id"), middleware.ActorID(ctx), req.Reason)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.OK(c, p)
}
