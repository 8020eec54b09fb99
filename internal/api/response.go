package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nomina/internal/model"
	"nomina/internal/session"
)

// 业务错误码
const (
	CodeOK           = 0
	CodeBadRequest   = 1001
	CodeRosterSchema = 2001
	CodeInputMissing = 3001
	CodeAssetMissing = 4001
	CodeIO           = 4002
	CodeBusy         = 4090
	CodeInternal     = 5000
	CodeUnavailable  = 5001
)

// Response 通用响应
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func success(c *gin.Context, message string, data interface{}) {
	if message == "" {
		message = "success"
	}
	c.JSON(http.StatusOK, Response{
		Code:    CodeOK,
		Message: message,
		Data:    data,
	})
}

func errorResponse(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// codeFor 错误对应的业务码
func codeFor(err error) int {
	var missing *model.InputMissingError
	var schema *model.SchemaError
	var asset *model.AssetMissingError
	var ioErr *model.IOError
	switch {
	case errors.As(err, &missing):
		return CodeInputMissing
	case errors.As(err, &schema):
		return CodeRosterSchema
	case errors.As(err, &asset):
		return CodeAssetMissing
	case errors.As(err, &ioErr):
		return CodeIO
	case errors.Is(err, session.ErrBusy):
		return CodeBusy
	default:
		return CodeInternal
	}
}

// fail 把错误转换成会话状态文字返回给前端
func (h *Handler) fail(c *gin.Context, err error) {
	status := h.session.Status(err)
	errorResponse(c, codeFor(err), status, h.session.Snapshot())
}
