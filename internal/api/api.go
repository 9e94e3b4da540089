package api

import (
	"errors"
	"net/http"

	"vamo_backend/internal/model"
	"vamo_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Business outcomes (insufficient funds, invalid state) are distinguishable
// from infrastructure faults, which always render as a generic 500.
func respondServiceError(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "violations": verr.Violations})
		return
	}

	switch {
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInsufficientFunds):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "reason": "insufficient_funds"})
	case errors.Is(err, service.ErrCustomersLocked),
		errors.Is(err, service.ErrNotRevealed),
		errors.Is(err, service.ErrAlreadyConverted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "reason": "invalid_state"})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrBadCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrTokenExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func challengeJSON(ch *model.Challenge) gin.H {
	return gin.H{
		"user_id":                 ch.UserID,
		"start_date":              ch.StartDate.UnixMilli(),
		"streak":                  ch.Streak,
		"last_commit_date":        ch.LastCommitDate,
		"pineapples":              ch.Pineapples,
		"daily_task_completed":    ch.DailyTaskCompleted,
		"find_customers_unlocked": ch.FindCustomersUnlocked,
		"has_seen_onboarding":     ch.HasSeenOnboarding,
	}
}

func evidenceJSON(ev *model.Evidence) gin.H {
	return gin.H{
		"id":        ev.ID,
		"type":      ev.Type,
		"content":   ev.Content,
		"date":      ev.Date,
		"timestamp": ev.Timestamp.UnixMilli(),
	}
}

func leadJSON(l *model.Lead) gin.H {
	return gin.H{
		"id":           l.ID,
		"name":         l.Name,
		"relationship": l.Relationship,
		"reason":       l.Reason,
		"stage":        l.Stage,
		"conversion":   service.ConversionScore(l.Stage, l.Relationship),
		"created_at":   l.CreatedAt,
	}
}

// customerJSON keeps unrevealed prospects masked on the wire, the client
// never sees who is behind a tile it has not paid for.
func customerJSON(c *model.PotentialCustomer) gin.H {
	out := gin.H{
		"id":             c.ID,
		"revealed":       c.Revealed,
		"added_to_leads": c.AddedToLeads,
	}
	if c.Revealed {
		out["name"] = c.Name
		out["background"] = c.Background
		out["reason"] = c.Reason
	}
	return out
}
