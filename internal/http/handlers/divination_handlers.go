package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yingxuHou/MeiHuaXinYi/domain"
	"github.com/yingxuHou/MeiHuaXinYi/internal/http/middleware"
	"github.com/yingxuHou/MeiHuaXinYi/internal/http/response"
)

// DivinationHandlers handles divination HTTP requests
type DivinationHandlers struct {
	divinationSvc domain.DivinationService
}

// NewDivinationHandlers creates new divination handlers
func NewDivinationHandlers(divinationSvc domain.DivinationService) *DivinationHandlers {
	return &DivinationHandlers{divinationSvc: divinationSvc}
}

// SubmitRequest represents a divination submission
type SubmitRequest struct {
	Question string `json:"question" binding:"required"`
	Category string `json:"category,omitempty"`
}

// Submit handles a divination submission
func (h *DivinationHandlers) Submit(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required", nil)
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	result, err := h.divinationSvc.Submit(c.Request.Context(), user, domain.SubmitInput{
		Question:  req.Question,
		Category:  req.Category,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, gin.H{
		"divinationId": result.Record.ID,
		"status":       result.Record.Status,
		"result": gin.H{
			"hexagram":       result.Record.Hexagram,
			"interpretation": result.Record.Interpretation,
		},
		"userBalance": gin.H{
			"freeCount":  result.FreeCount,
			"totalCount": result.TotalCount,
		},
	})
}

// Result returns one record by id, scoped to the caller
func (h *DivinationHandlers) Result(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required", nil)
		return
	}

	rec, err := h.divinationSvc.Result(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, recordJSON(rec))
}

// History pages through the caller's records
func (h *DivinationHandlers) History(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required", nil)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.divinationSvc.History(c.Request.Context(), user.ID, domain.HistoryFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, recordListJSON(result.Records),
		response.NewPagination(result.Page, result.Limit, result.Total))
}

// Delete removes one record by id, scoped to the caller
func (h *DivinationHandlers) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required", nil)
		return
	}

	if err := h.divinationSvc.Delete(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"message": "record deleted",
	})
}

// Stats aggregates the caller's records per category and status
func (h *DivinationHandlers) Stats(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required", nil)
		return
	}

	stats, err := h.divinationSvc.Stats(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"stats": stats,
		"userBalance": gin.H{
			"freeCount":  user.FreeCount,
			"totalCount": user.TotalCount,
		},
	})
}
