package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AKM-dv/aafa-partner/models"
)

// sessionState is implemented by the session controller.
type sessionState interface {
	State() (models.Step, *models.SessionRecord)
}

// SessionGuard rejects requests that act on the provider when no session
// token is held. The token itself is validated by the remote backend; this
// is only the local precondition.
func SessionGuard(sess sessionState) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, rec := sess.State()
		if rec == nil || rec.Token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
			return
		}
		c.Next()
	}
}
