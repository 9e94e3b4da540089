package api

import (
	"net/http"

	"vamo_backend/internal/model"
	"vamo_backend/internal/notify"
	"vamo_backend/internal/service"
	"vamo_backend/pkg/auth"
	"vamo_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type evidenceRoutes struct {
	es        *service.EvidenceService
	snapshots *service.SnapshotService
	hub       *notify.Hub
}

func NewEvidenceRoutes(handler *gin.RouterGroup, es *service.EvidenceService, snapshots *service.SnapshotService, hub *notify.Hub, a *auth.SessionAuth) {
	r := &evidenceRoutes{es: es, snapshots: snapshots, hub: hub}
	h := handler.Group("/evidence")
	h.Use(a.SessionMiddleware())
	{
		h.GET("/", r.ListEvidence)
		h.POST("/", r.AddEvidence)
	}
}

func (r *evidenceRoutes) ListEvidence(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	evidence, err := r.es.List(c.Request.Context(), userID)
	if err != nil {
		log.Error("failed to list evidence", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	out := make([]gin.H, len(evidence))
	for i, ev := range evidence {
		out[i] = evidenceJSON(ev)
	}

	c.JSON(http.StatusOK, out)
}

type AddEvidenceRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

func (r *evidenceRoutes) AddEvidence(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req AddEvidenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := r.es.Record(c.Request.Context(), userID, service.EvidenceInput{
		Type:    model.EvidenceType(req.Type),
		Content: req.Content,
		Date:    req.Date,
	})
	if err != nil {
		log.Error("failed to record evidence", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	r.snapshots.Invalidate(userID)
	r.hub.Publish(userID, notify.Event{
		Type: "evidence_recorded",
		Payload: map[string]any{
			"streak":     result.NewStreak,
			"pineapples": result.NewPineappleBalance,
		},
	})

	c.JSON(http.StatusCreated, gin.H{
		"evidence":                evidenceJSON(result.Evidence),
		"new_streak":              result.NewStreak,
		"new_pineapple_balance":   result.NewPineappleBalance,
		"pineapple_reward":        result.Reward,
		"was_already_completed":   result.WasAlreadyCompleted,
		"find_customers_unlocked": result.FindCustomersUnlocked,
	})
}
