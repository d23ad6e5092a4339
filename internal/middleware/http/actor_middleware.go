package http

import (
	"strings"

	"gst_billing/internal/models"

	"github.com/gin-gonic/gin"
)

// ActorHeader optionally names the caller for audit logs. It is not an
// authentication mechanism.
const ActorHeader = "X-User-Id"

const actorKey = "actor"

// Actor copies the actor header into the gin context.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor := strings.TrimSpace(c.GetHeader(ActorHeader)); actor != "" {
			c.Set(actorKey, actor)
		}
		c.Next()
	}
}

// ActorFrom returns the caller set by Actor, or the system actor.
func ActorFrom(c *gin.Context) string {
	if actor := c.GetString(actorKey); actor != "" {
		return actor
	}
	return models.SystemActor
}
