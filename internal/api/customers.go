package api

import (
	"net/http"

	"vamo_backend/internal/notify"
	"vamo_backend/internal/service"
	"vamo_backend/pkg/auth"
	"vamo_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type customerRoutes struct {
	cs        *service.CustomerService
	snapshots *service.SnapshotService
	hub       *notify.Hub
}

func NewCustomerRoutes(handler *gin.RouterGroup, cs *service.CustomerService, snapshots *service.SnapshotService, hub *notify.Hub, a *auth.SessionAuth) {
	r := &customerRoutes{cs: cs, snapshots: snapshots, hub: hub}
	h := handler.Group("/customers")
	h.Use(a.SessionMiddleware())
	{
		h.GET("/", r.ListCustomers)
		h.POST("/:customer_id/reveal", r.RevealCustomer)
		h.POST("/:customer_id/convert", r.ConvertCustomer)
	}
}

func (r *customerRoutes) ListCustomers(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	customers, err := r.cs.List(c.Request.Context(), userID)
	if err != nil {
		log.Error("failed to list customers", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	out := make([]gin.H, len(customers))
	for i, cust := range customers {
		out[i] = customerJSON(cust)
	}

	c.JSON(http.StatusOK, out)
}

func (r *customerRoutes) RevealCustomer(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	customerID, err := uuid.Parse(c.Param("customer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer_id"})
		return
	}

	result, err := r.cs.Reveal(c.Request.Context(), userID, customerID)
	if err != nil {
		log.Error("failed to reveal customer", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	r.snapshots.Invalidate(userID)
	r.hub.Publish(userID, notify.Event{
		Type: "customer_revealed",
		Payload: map[string]any{
			"customer_id": customerID,
			"pineapples":  result.NewPineappleBalance,
		},
	})

	c.JSON(http.StatusOK, gin.H{
		"customer":              customerJSON(result.Customer),
		"new_pineapple_balance": result.NewPineappleBalance,
	})
}

func (r *customerRoutes) ConvertCustomer(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	customerID, err := uuid.Parse(c.Param("customer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer_id"})
		return
	}

	lead, err := r.cs.ConvertToLead(c.Request.Context(), userID, customerID)
	if err != nil {
		log.Error("failed to convert customer", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	r.snapshots.Invalidate(userID)
	r.hub.Publish(userID, notify.Event{
		Type:    "customer_converted",
		Payload: map[string]any{"customer_id": customerID},
	})

	c.JSON(http.StatusCreated, leadJSON(lead))
}
