package middlewares

// Keys set on *gin.Context by the middlewares in this package.
const (
	CtxRequestID = "request_id"
	CtxUserID    = "auth.userID"
	CtxEmail     = "auth.email"
	CtxRole      = "auth.role"
	CtxClaims    = "auth.claims"
)
