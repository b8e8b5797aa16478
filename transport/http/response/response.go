package response

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	perrors "github.com/kochabx/passport/errors"
)

const (
	defaultSuccessMessage = "success"
	successCode           = http.StatusOK

	// 未分类错误不向客户端暴露细节
	defaultErrorMessage = "internal server error"
	defaultErrorCode    = http.StatusInternalServerError
)

type Response struct {
	Code     int               `json:"code"`               // 业务码
	Data     any               `json:"data,omitempty"`     // 响应数据
	Message  string            `json:"message,omitempty"`  // 响应消息
	Metadata map[string]string `json:"metadata,omitempty"` // 错误详情，如字段校验原因
}

func (r *Response) reset() {
	r.Code = 0
	r.Data = nil
	r.Message = ""
	r.Metadata = nil
}

var responsePool = sync.Pool{
	New: func() any {
		return &Response{}
	},
}

func acquireResponse() *Response {
	return responsePool.Get().(*Response)
}

func releaseResponse(r *Response) {
	if r != nil {
		r.reset()
		responsePool.Put(r)
	}
}

// GinJSON 写入成功响应
func GinJSON(c *gin.Context, data any) {
	if c == nil {
		return
	}

	resp := acquireResponse()
	defer releaseResponse(resp)

	resp.Code = successCode
	resp.Data = data
	resp.Message = defaultSuccessMessage
	c.JSON(successCode, resp)
}

// Created 写入 201 响应
func Created(c *gin.Context, data any) {
	if c == nil {
		return
	}

	resp := acquireResponse()
	defer releaseResponse(resp)

	resp.Code = http.StatusCreated
	resp.Data = data
	resp.Message = defaultSuccessMessage
	c.JSON(http.StatusCreated, resp)
}

// GinJSONE 写入错误响应并中止后续处理
// 业务码为合法的 4xx/5xx 时同时作为 HTTP 状态码，未分类错误统一返回 500
func GinJSONE(c *gin.Context, err error) {
	if c == nil {
		return
	}

	resp := acquireResponse()
	defer releaseResponse(resp)

	code, message := defaultErrorCode, defaultErrorMessage
	var e *perrors.Error
	if errors.As(err, &e) {
		code, message = e.Code, e.Message
		resp.Metadata = e.GetMetadata()
	}
	if err != nil {
		_ = c.Error(err)
	}

	resp.Code = code
	resp.Message = message
	c.AbortWithStatusJSON(Status(code), resp)
}

// NoContent 写入 204
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Status 将错误业务码映射为 HTTP 状态码，非 4xx/5xx 一律按 500 处理
func Status(code int) int {
	if code >= 400 && code <= 599 {
		return code
	}
	return defaultErrorCode
}
