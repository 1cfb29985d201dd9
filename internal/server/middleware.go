package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

const (
	headerRequestID = "X-Request-Id"
	headerTraceID   = "X-Trace-Id"
	headerSessionID = "X-Session-Id"
)

// AttachRequestID 为每个请求分配 request id，并带上当前 trace id
func AttachRequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set("request_id", reqID)
		c.Writer.Header().Set(headerRequestID, reqID)

		spanCtx := trace.SpanContextFromContext(c.Request.Context())
		if spanCtx.HasTraceID() {
			c.Set("trace_id", spanCtx.TraceID().String())
			c.Writer.Header().Set(headerTraceID, spanCtx.TraceID().String())
		}
		c.Next()
	}
}

// RequestLogger 记录每个请求的结果
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := logrus.Fields{
			"method":      strings.ToUpper(c.Request.Method),
			"path":        path,
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  c.GetString("request_id"),
		}
		if traceID := c.GetString("trace_id"); traceID != "" {
			fields["trace_id"] = traceID
		}
		if sessionID := c.GetString("session_id"); sessionID != "" {
			fields["session_id"] = sessionID
		}

		entry := log.WithFields(fields)
		switch {
		case status >= 500:
			entry.Error("HTTP request")
		case status >= 400:
			entry.Warn("HTTP request")
		default:
			entry.Info("HTTP request")
		}
	}
}

// sessionID 从请求头或查询参数读取会话 id，缺失时生成新的
func sessionID(c *gin.Context) string {
	id := strings.TrimSpace(c.GetHeader(headerSessionID))
	if id == "" {
		id = strings.TrimSpace(c.Query("session_id"))
	}
	if id == "" {
		id = uuid.NewString()
	}
	c.Set("session_id", id)
	c.Writer.Header().Set(headerSessionID, id)
	return id
}
