package fee

import (
	"admissions-backoffice/pkg/httpapi"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/fees")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/resolve", h.Resolve)
	g.POST("/quote", h.Quote)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.POST("/:id/active", h.SetActive)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BindFail(c, err)
		return
	}

	f, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Created(c, f)
}

func (h *Handler) List(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpapi.BindFail(c, err)
		return
	}

	fees, info, err := h.svc.List(c.Request.Context(), req)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Page(c, fees, info)
}

func (h *Handler) Get(c *gin.Context) {
	f, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.OK(c, f)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BindFail(c, err)
		return
	}

	f, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.OK(c, f)
}

func (h *Handler) SetActive(c *gin.Context) {
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BindFail(c, err)
		return
	}

	f, err := h.svc.SetActive(c.Request.Context(), c.Param("id"), *req.Active)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.OK(c, f)
}

func (h *Handler) Resolve(c *gin.Context) {
	var req struct {
		ProgramID string  `form:"program_id"`
		FeeType   FeeType `form:"fee_type" binding:"required"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		httpapi.BindFail(c, err)
		return
	}

	f, err := h.svc.ResolveFee(c.Request.Context(), req.ProgramID, req.FeeType)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.OK(c, f)
}

func (h *Handler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BindFail(c, err)
		return
	}

	q, err := h.svc.Quote(c.Request.Context(), req)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.OK(c, q)
}
