package middlewares

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// MaxBodyBytes caps request bodies at limit. A declared Content-Length over
// the cap is refused up front with 413; undeclared or lying bodies are cut
// off by the reader, which surfaces as a bind error in the handler.
func MaxBodyBytes(limit int64) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.ContentLength > limit {
			ctx.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": gin.H{
					"code":      "body_too_large",
					"message":   "Request body must not exceed " + strconv.FormatInt(limit, 10) + " bytes",
					"requestId": ctx.GetString(CtxRequestID),
				},
			})
			return
		}

		if ctx.Request.Body != nil {
			ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, limit)
		}

		ctx.Next()
	}
}
