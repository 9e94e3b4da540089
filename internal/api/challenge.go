package api

import (
	"net/http"

	"vamo_backend/internal/notify"
	"vamo_backend/internal/service"
	"vamo_backend/pkg/auth"
	"vamo_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type challengeRoutes struct {
	cs        *service.ChallengeService
	snapshots *service.SnapshotService
	hub       *notify.Hub
}

func NewChallengeRoutes(handler *gin.RouterGroup, cs *service.ChallengeService, snapshots *service.SnapshotService, hub *notify.Hub, a *auth.SessionAuth) {
	r := &challengeRoutes{cs: cs, snapshots: snapshots, hub: hub}
	h := handler.Group("/challenge")
	h.Use(a.SessionMiddleware())
	{
		h.GET("/", r.GetChallenge)
		h.POST("/restart", r.RestartChallenge)
		h.POST("/reconcile", r.ReconcileStreak)
		h.POST("/onboarding", r.SetOnboarding)
	}
}

func (r *challengeRoutes) GetChallenge(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ch, err := r.cs.Get(c.Request.Context(), userID)
	if err != nil {
		log.Error("failed to get challenge", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, challengeJSON(ch))
}

func (r *challengeRoutes) RestartChallenge(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ch, err := r.cs.Restart(c.Request.Context(), userID)
	if err != nil {
		log.Error("failed to restart challenge", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	r.snapshots.Invalidate(userID)
	r.hub.Publish(userID, notify.Event{Type: "challenge_restarted"})

	c.JSON(http.StatusOK, challengeJSON(ch))
}

type ReconcileRequest struct {
	// Today is the client's current calendar date, "2006-01-02". The
	// user's local day is authoritative, the server clock is not.
	Today string `json:"today"`
}

func (r *challengeRoutes) ReconcileStreak(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ch, err := r.cs.Reconcile(c.Request.Context(), userID, req.Today)
	if err != nil {
		log.Error("failed to reconcile streak", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	r.snapshots.Invalidate(userID)

	c.JSON(http.StatusOK, challengeJSON(ch))
}

type OnboardingRequest struct {
	Seen bool `json:"seen"`
}

func (r *challengeRoutes) SetOnboarding(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ch, err := r.cs.SetOnboardingSeen(c.Request.Context(), userID, req.Seen)
	if err != nil {
		log.Error("failed to update onboarding flag", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	r.snapshots.Invalidate(userID)

	c.JSON(http.StatusOK, challengeJSON(ch))
}
