package api

import (
	"net/http"

	"vamo_backend/internal/service"
	"vamo_backend/pkg/auth"
	"vamo_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type stateRoutes struct {
	snapshots *service.SnapshotService
}

// NewStateRoutes mounts the single aggregated read used on app start, one
// round trip instead of four.
func NewStateRoutes(handler *gin.RouterGroup, snapshots *service.SnapshotService, a *auth.SessionAuth) {
	r := &stateRoutes{snapshots: snapshots}
	h := handler.Group("/state")
	h.Use(a.SessionMiddleware())
	{
		h.GET("/", r.GetState)
	}
}

func (r *stateRoutes) GetState(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	snap, err := r.snapshots.Get(c.Request.Context(), userID)
	if err != nil {
		log.Error("failed to build state snapshot", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	evidence := make([]gin.H, len(snap.Evidence))
	for i, ev := range snap.Evidence {
		evidence[i] = evidenceJSON(ev)
	}
	leads := make([]gin.H, len(snap.Leads))
	for i, l := range snap.Leads {
		leads[i] = leadJSON(l)
	}
	customers := make([]gin.H, len(snap.Customers))
	for i, cust := range snap.Customers {
		customers[i] = customerJSON(cust)
	}

	c.JSON(http.StatusOK, gin.H{
		"challenge": challengeJSON(snap.Challenge),
		"evidence":  evidence,
		"leads":     leads,
		"customers": customers,
	})
}
