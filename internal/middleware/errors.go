package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/persistorai/listings/internal/httputil"
	"github.com/persistorai/listings/internal/metrics"
)

// errCodeRateLimited is the error code for throttled requests.
const errCodeRateLimited = "rate_limited"

// respondError counts the error and delegates to httputil.RespondError.
func respondError(c *gin.Context, status int, errCode, message string) {
	metrics.ErrorsTotal.WithLabelValues(errCode).Inc()
	httputil.RespondError(c, status, errCode, message)
}
