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
	"github.com/google/uuid"
)

type leadRoutes struct {
	ls        *service.LeadService
	snapshots *service.SnapshotService
	hub       *notify.Hub
}

func NewLeadRoutes(handler *gin.RouterGroup, ls *service.LeadService, snapshots *service.SnapshotService, hub *notify.Hub, a *auth.SessionAuth) {
	r := &leadRoutes{ls: ls, snapshots: snapshots, hub: hub}
	h := handler.Group("/leads")
	h.Use(a.SessionMiddleware())
	{
		h.GET("/", r.ListLeads)
		h.POST("/", r.AddLead)
		h.PATCH("/:lead_id", r.UpdateLead)
	}
}

func (r *leadRoutes) ListLeads(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	leads, err := r.ls.List(c.Request.Context(), userID)
	if err != nil {
		log.Error("failed to list leads", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	secured, err := r.ls.SecuredCount(c.Request.Context(), userID)
	if err != nil {
		log.Error("failed to count secured leads", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	out := make([]gin.H, len(leads))
	for i, l := range leads {
		out[i] = leadJSON(l)
	}

	c.JSON(http.StatusOK, gin.H{
		"leads":         out,
		"secured_count": secured,
	})
}

type AddLeadRequest struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Reason       string `json:"reason"`
	Stage        string `json:"stage"`
}

func (r *leadRoutes) AddLead(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req AddLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	lead, err := r.ls.Create(c.Request.Context(), userID, service.LeadInput{
		Name:         req.Name,
		Relationship: model.Relationship(req.Relationship),
		Reason:       req.Reason,
		Stage:        model.LeadStage(req.Stage),
	})
	if err != nil {
		log.Error("failed to create lead", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	r.snapshots.Invalidate(userID)
	r.hub.Publish(userID, notify.Event{Type: "lead_created"})

	c.JSON(http.StatusCreated, leadJSON(lead))
}

type UpdateLeadRequest struct {
	Name         *string `json:"name"`
	Relationship *string `json:"relationship"`
	Reason       *string `json:"reason"`
	Stage        *string `json:"stage"`
}

func (r *leadRoutes) UpdateLead(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	leadID, err := uuid.Parse(c.Param("lead_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead_id"})
		return
	}

	var req UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	patch := &model.LeadPatch{
		Name:   req.Name,
		Reason: req.Reason,
	}
	if req.Relationship != nil {
		rel := model.Relationship(*req.Relationship)
		patch.Relationship = &rel
	}
	if req.Stage != nil {
		stage := model.LeadStage(*req.Stage)
		patch.Stage = &stage
	}

	lead, err := r.ls.Update(c.Request.Context(), userID, leadID, patch)
	if err != nil {
		log.Error("failed to update lead", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	r.snapshots.Invalidate(userID)
	r.hub.Publish(userID, notify.Event{Type: "lead_updated"})

	c.JSON(http.StatusOK, leadJSON(lead))
}
