// Package api 本地网页界面使用的 JSON 接口
package api

import (
	"github.com/gin-gonic/gin"

	"nomina/internal/model"
	"nomina/internal/session"
)

// HistoryStore 生成历史查询
type HistoryStore interface {
	ListGenerations(limit int) ([]model.GenerationRecord, error)
}

// Handler API 处理器
type Handler struct {
	session   *session.Session
	history   HistoryStore
	uploadDir string
	downloads *downloadTickets
}

// NewHandler 创建 API 处理器；history 为 nil 表示未启用生成历史
func NewHandler(s *session.Session, history HistoryStore, uploadDir string) *Handler {
	return &Handler{
		session:   s,
		history:   history,
		uploadDir: uploadDir,
		downloads: newDownloadTickets(ticketTTL, ticketLimit),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 会话状态
	router.GET("/status", h.GetStatus)

	// 输入
	router.POST("/roster", h.SelectRoster)
	router.POST("/dates", h.SetDates)
	router.PATCH("/week", h.OverrideWeek)
	router.POST("/output", h.SelectOutput)

	// 生成
	router.POST("/generate", h.Generate)
	router.POST("/generate/stream", h.GenerateStream)
	router.GET("/download/:token", h.Download)

	// 历史
	router.GET("/history", h.ListHistory)
}
