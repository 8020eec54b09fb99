package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"nomina/internal/render"
	"nomina/internal/week"
)

// GetStatus 当前会话状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	st := h.session.Snapshot()
	success(c, st.Status, st)
}

// SelectRoster 选择花名册：multipart 上传（字段 file）或 JSON {"path": "..."} 指定本机文件
// POST /api/roster
func (h *Handler) SelectRoster(c *gin.Context) {
	path, err := h.rosterPath(c)
	if err != nil {
		errorResponse(c, CodeBadRequest, err.Error(), nil)
		return
	}

	status, err := h.session.SelectRoster(path)
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, status, h.session.Snapshot())
}

func (h *Handler) rosterPath(c *gin.Context) (string, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, err := c.FormFile("file")
		if err != nil {
			return "", fmt.Errorf("missing upload field \"file\"")
		}
		// 每次上传放在独立目录下，保留原文件名用于展示
		dir := filepath.Join(h.uploadDir, uuid.NewString())
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("create upload dir: %w", err)
		}
		path := filepath.Join(dir, filepath.Base(file.Filename))
		if err := c.SaveUploadedFile(file, path); err != nil {
			return "", fmt.Errorf("save upload: %w", err)
		}
		return path, nil
	}

	var req struct {
		Path string `json:"path"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", fmt.Errorf("invalid request body")
	}
	return strings.TrimSpace(req.Path), nil
}

// DatesRequest 日期请求，任一字段可为空
type DatesRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SetDates 设置起止日期；两个日期都存在时重新计算周号
// POST /api/dates
func (h *Handler) SetDates(c *gin.Context) {
	var req DatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, CodeBadRequest, "invalid request body", nil)
		return
	}

	var status string
	if strings.TrimSpace(req.Start) != "" {
		d, err := week.ParseDate(req.Start)
		if err != nil {
			errorResponse(c, CodeBadRequest, err.Error(), nil)
			return
		}
		status = h.session.SetStart(d)
	}
	if strings.TrimSpace(req.End) != "" {
		d, err := week.ParseDate(req.End)
		if err != nil {
			errorResponse(c, CodeBadRequest, err.Error(), nil)
			return
		}
		status = h.session.SetEnd(d)
	}
	if status == "" {
		errorResponse(c, CodeBadRequest, "start or end is required", nil)
		return
	}
	success(c, status, h.session.Snapshot())
}

// OverrideWeek 手动修改周号
// PATCH /api/week
func (h *Handler) OverrideWeek(c *gin.Context) {
	var req struct {
		Label string `json:"label"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, CodeBadRequest, "invalid request body", nil)
		return
	}
	status := h.session.OverrideLabel(req.Label)
	success(c, status, h.session.Snapshot())
}

// SelectOutput 选择目标目录，可同时指定输出格式
// POST /api/output
func (h *Handler) SelectOutput(c *gin.Context) {
	var req struct {
		Dir    string `json:"dir"`
		Format string `json:"format"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, CodeBadRequest, "invalid request body", nil)
		return
	}
	if req.Format != "" {
		if err := h.session.SetFormat(render.Format(req.Format)); err != nil {
			errorResponse(c, CodeBadRequest, err.Error(), nil)
			return
		}
	}
	status := h.session.SelectOutputDir(req.Dir)
	success(c, status, h.session.Snapshot())
}
