package application

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
	g := rg.Group("/applications")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("/:id/status", h.UpdateStatus)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BindFail(c, err)
		return
	}

	app, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Created(c, app)
}

func (h *Handler) List(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpapi.BindFail(c, err)
		return
	}

	apps, info, err := h.svc.List(c.Request.Context(), req)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Page(c, apps, info)
}

func (h *Handler) Get(c *gin.Context) {
	app, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.OK(c, gin.H{
		"application":   app,
		"next_statuses": NextStatuses(app.Status),
		"terminal":      app.Status.Terminal(),
	})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BindFail(c, err)
		return
	}
	req.ReviewedBy = middleware.ActorID(c.Request.Context())

	change, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.OK(c, change)
}
