package donation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"crowdfund/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/donations", h.Create)
	rg.GET("/donations/my", h.ListMine)
	rg.GET("/donations/:id", h.GetByID)
	rg.GET("/donations/campaign/:campaignId", h.ListByCampaign)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/donations", h.List)
	rg.PATCH("/donations/:id/status", h.UpdateStatus)
}

func (h *Handler) Create(c *gin.Context) {
	var req DonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	created, err := h.service.Create(c.Request.Context(), req, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, created)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, d)
}

func (h *Handler) ListMine(c *gin.Context) {
	limit, offset := pageParams(c)
	items, total, err := h.service.ListByUser(c.Request.Context(), c.GetInt64("user_id"), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Paginated(c, http.StatusOK, items, total, limit, offset)
}

func (h *Handler) ListByCampaign(c *gin.Context) {
	campaignID, err := strconv.ParseInt(c.Param("campaignId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid campaign id")
		return
	}

	limit, offset := pageParams(c)
	items, total, err := h.service.ListByCampaign(c.Request.Context(), campaignID, limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Paginated(c, http.StatusOK, items, total, limit, offset)
}

func (h *Handler) List(c *gin.Context) {
	limit, offset := pageParams(c)
	items, total, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Paginated(c, http.StatusOK, items, total, limit, offset)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), id, c.Query("status"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrCampaignNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrInactiveCampaign), errors.Is(err, ErrCampaignEnded),
		errors.Is(err, ErrAmountTooSmall), errors.Is(err, ErrInvalidStatus):
		response.Error(c, http.StatusUnprocessableEntity, "BUSINESS_RULE", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id")
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context) (limit, offset int) {
	limit = 10
	offset = 0
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
