package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// CtxUserID is the gin context key holding the authenticated user id.
	CtxUserID = "firebase_uid"
)

// UserID extracts the authenticated user id from the Gin context.
// This is set by the auth middleware.
func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserID))
}
