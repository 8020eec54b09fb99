package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"nomina/internal/model"
)

// HistoryResponse 生成历史
type HistoryResponse struct {
	Enabled bool                     `json:"enabled"`
	Items   []model.GenerationRecord `json:"items"`
}

// ListHistory 最近的生成记录
// GET /api/history?limit=20
func (h *Handler) ListHistory(c *gin.Context) {
	if h.history == nil {
		success(c, "", HistoryResponse{Enabled: false, Items: []model.GenerationRecord{}})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	items, err := h.history.ListGenerations(limit)
	if err != nil {
		errorResponse(c, CodeUnavailable, err.Error(), nil)
		return
	}
	success(c, "", HistoryResponse{Enabled: true, Items: items})
}
