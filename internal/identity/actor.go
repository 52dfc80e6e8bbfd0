package identity

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/skillmarket/internal/model"
)

// Actor is the verified identity behind the current request.
type Actor struct {
	ID   uuid.UUID
	Role model.Role
}

const actorKey = "identity.actor"

// SetActor stores the resolved actor on the request context.
func SetActor(c echo.Context, a Actor) {
	c.Set(actorKey, a)
}

// ActorFrom returns the resolved actor, or ok=false when the request is
// unauthenticated (public route or missing middleware).
func ActorFrom(c echo.Context) (Actor, bool) {
	a, ok := c.Get(actorKey).(Actor)
	return a, ok
}
