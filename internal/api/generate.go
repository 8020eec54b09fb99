package api

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"nomina/internal/render"
	"nomina/internal/session"
)

// GenerateResponse 生成成功的返回数据
type GenerateResponse struct {
	session.Generated
	DownloadURL string `json:"downloadUrl"`
}

type generateRequest struct {
	Format string `json:"format"`
}

// applyFormat 请求体里可选的输出格式
func (h *Handler) applyFormat(c *gin.Context) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return fmt.Errorf("invalid request body")
	}
	if req.Format == "" {
		return nil
	}
	return h.session.SetFormat(render.Format(req.Format))
}

// Generate 生成文档
// POST /api/generate
func (h *Handler) Generate(c *gin.Context) {
	if err := h.applyFormat(c); err != nil {
		errorResponse(c, CodeBadRequest, err.Error(), nil)
		return
	}
	out, err := h.session.Generate(nil)
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, out.Status, h.withDownload(out))
}

func (h *Handler) withDownload(out session.Generated) GenerateResponse {
	id := h.downloads.issue(out.Result)
	return GenerateResponse{
		Generated:   out,
		DownloadURL: "/api/download/" + id,
	}
}

type progressEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

type generateOutcome struct {
	out session.Generated
	err error
}

// GenerateStream 生成文档（SSE 进度 + 完成后提供下载地址）
// POST /api/generate/stream
func (h *Handler) GenerateStream(c *gin.Context) {
	if err := h.applyFormat(c); err != nil {
		errorResponse(c, CodeBadRequest, err.Error(), nil)
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		errorResponse(c, CodeInternal, "streaming not supported", nil)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	send := func(event progressEvent) {
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}

	send(progressEvent{Type: "start", Message: "start", Data: map[string]any{}, Timestamp: time.Now()})

	progressChan := make(chan render.ProgressEvent, 16)
	done := make(chan generateOutcome, 1)
	go func() {
		defer close(progressChan)
		out, err := h.session.Generate(func(p render.ProgressEvent) {
			progressChan <- p
		})
		done <- generateOutcome{out: out, err: err}
	}()

	lastPercent := -1
	for p := range progressChan {
		if p.Percent == lastPercent {
			continue
		}
		lastPercent = p.Percent
		send(progressEvent{
			Type:      "progress",
			Message:   p.Stage,
			Data:      map[string]any{"percent": p.Percent},
			Timestamp: time.Now(),
		})
	}

	res := <-done
	if res.err != nil {
		send(progressEvent{
			Type:      "error",
			Message:   h.session.Status(res.err),
			Data:      map[string]any{"code": codeFor(res.err)},
			Timestamp: time.Now(),
		})
		return
	}
	send(progressEvent{
		Type:      "done",
		Message:   res.out.Status,
		Data:      h.withDownload(res.out),
		Timestamp: time.Now(),
	})
}

// Download 下载生成的文件（一次性链接）
// GET /api/download/:token
func (h *Handler) Download(c *gin.Context) {
	ticket, ok := h.downloads.redeem(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, Response{Code: http.StatusNotFound, Message: "download link expired"})
		return
	}
	if _, err := os.Stat(ticket.path); err != nil {
		c.JSON(http.StatusNotFound, Response{Code: http.StatusNotFound, Message: "file not found"})
		return
	}

	name := filepath.Base(ticket.path)
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	c.Header("Content-Type", contentType(ticket.format))
	c.File(ticket.path)
}

func contentType(f render.Format) string {
	switch f {
	case render.FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/pdf"
	}
}
