package payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"crowdfund/internal/domain"
	"crowdfund/internal/pkg/response"
	"crowdfund/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/process", h.Process)
	rg.GET("/payments/my", h.ListMine)
	rg.GET("/payments/:id", h.GetByID)
	rg.GET("/payments/donation/:donationId", h.ListByDonation)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/payments", h.List)
	rg.GET("/payments/transaction/:transactionId", h.GetByTransactionID)
	rg.PATCH("/payments/:id/status", h.UpdateStatus)
}

func (h *Handler) Process(c *gin.Context) {
	var req ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if fields := validator.Validate(&req); fields != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid payment request", fields)
		return
	}

	p, err := h.service.Process(c.Request.Context(), req, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, p)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	admin := c.GetString("role") == string(domain.RoleAdmin)
	p, err := h.service.GetByID(c.Request.Context(), id, c.GetInt64("user_id"), admin)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, p)
}

func (h *Handler) GetByTransactionID(c *gin.Context) {
	p, err := h.service.GetByTransactionID(c.Request.Context(), c.Param("transactionId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
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

func (h *Handler) ListByDonation(c *gin.Context) {
	donationID, err := strconv.ParseInt(c.Param("donationId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid donation id")
		return
	}

	limit, offset := pageParams(c)
	items, total, err := h.service.ListByDonation(c.Request.Context(), donationID, limit, offset)
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
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDonationNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrNotYourDonation), errors.Is(err, ErrNotYourPayment):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrAlreadyPaid), errors.Is(err, ErrAmountMismatch), errors.Is(err, ErrInvalidStatus):
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
