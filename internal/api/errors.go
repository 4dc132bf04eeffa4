package api

import (
	"github.com/gin-gonic/gin"

	"github.com/matsen/costar/internal/metrics"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeNotFound       = "not_found"
	ErrCodeUnreachable    = "unreachable"
	ErrCodeInternalError  = "internal_error"
	ErrCodeRateLimited    = "rate_limited"
)

// respondError writes a standardized JSON error response and aborts the
// request. extra fields are merged into the body.
func respondError(c *gin.Context, status int, code, message string, extra ...gin.H) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()

	resp := gin.H{
		"code":    code,
		"message": message,
	}
	if rid := c.GetString(RequestIDKey); rid != "" {
		resp["request_id"] = rid
	}
	for _, e := range extra {
		for k, v := range e {
			resp[k] = v
		}
	}

	c.AbortWithStatusJSON(status, resp)
}
