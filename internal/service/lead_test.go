package service

import (
	"context"
	"strings"
	"testing"

	"vamo_backend/internal/model"
	"vamo_backend/internal/repository"
	"vamo_backend/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestLeadService_Create(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name               string
		input              LeadInput
		expectedViolations int
		check              func(*testing.T, *model.Lead)
	}{
		{
			name: "Valid lead",
			input: LeadInput{
				Name:         "Dana Whitfield",
				Relationship: model.RelationshipTalkedOnce,
				Reason:       "runs a small agency, mentioned reporting pain",
				Stage:        model.StageSetupCall,
			},
			check: func(t *testing.T, l *model.Lead) {
				assert.NotEqual(t, uuid.Nil, l.ID)
				assert.Equal(t, userID, l.UserID)
				assert.False(t, l.CreatedAt.IsZero())
			},
		},
		{
			name: "Empty reason is allowed",
			input: LeadInput{
				Name:         "Dana Whitfield",
				Relationship: model.RelationshipKnowWell,
				Stage:        model.StageDiscovery,
			},
			check: func(t *testing.T, l *model.Lead) {
				assert.Equal(t, "", l.Reason)
			},
		},
		{
			name: "Reason cap counts characters, not bytes",
			input: LeadInput{
				Name:         "Dana Whitfield",
				Relationship: model.RelationshipKnowWell,
				Reason:       strings.Repeat("ü", maxReasonLen),
				Stage:        model.StageDiscovery,
			},
			check: func(t *testing.T, l *model.Lead) {
				assert.Greater(t, len(l.Reason), maxReasonLen)
			},
		},
		{
			name: "Every violated constraint reported",
			input: LeadInput{
				Name:         "",
				Relationship: "best-friends",
				Reason:       strings.Repeat("x", maxReasonLen+1),
				Stage:        "negotiation",
			},
			expectedViolations: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockLeadRepository{}
			service := NewLeadService(mockRepo)

			if tt.expectedViolations == 0 {
				mockRepo.On("CreateLead", mock.Anything, mock.MatchedBy(func(l *model.Lead) bool {
					return l.UserID == userID && l.Name == tt.input.Name
				})).Return(nil)
			}

			lead, err := service.Create(context.Background(), userID, tt.input)

			if tt.expectedViolations > 0 {
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
				assert.Len(t, verr.Violations, tt.expectedViolations)
				mockRepo.AssertNotCalled(t, "CreateLead", mock.Anything, mock.Anything)
				return
			}

			assert.NoError(t, err)
			if tt.check != nil {
				tt.check(t, lead)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestLeadService_Update(t *testing.T) {
	userID := uuid.New()
	leadID := uuid.New()

	t.Run("Stage move", func(t *testing.T) {
		mockRepo := &mocks.MockLeadRepository{}
		service := NewLeadService(mockRepo)

		stage := model.StageSecured
		mockRepo.On("UpdateLead", mock.Anything, userID, leadID, mock.MatchedBy(func(patch *model.LeadPatch) bool {
			return patch.Stage != nil && *patch.Stage == model.StageSecured && patch.Name == nil
		})).Return(&model.Lead{
			ID:           leadID,
			UserID:       userID,
			Name:         "Dana Whitfield",
			Relationship: model.RelationshipKnowWell,
			Stage:        model.StageSecured,
		}, nil)

		lead, err := service.Update(context.Background(), userID, leadID, &model.LeadPatch{Stage: &stage})

		assert.NoError(t, err)
		assert.Equal(t, model.StageSecured, lead.Stage)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Invalid stage in patch", func(t *testing.T) {
		mockRepo := &mocks.MockLeadRepository{}
		service := NewLeadService(mockRepo)

		bad := model.LeadStage("won")
		_, err := service.Update(context.Background(), userID, leadID, &model.LeadPatch{Stage: &bad})

		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
		mockRepo.AssertNotCalled(t, "UpdateLead", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Lead owned by someone else", func(t *testing.T) {
		mockRepo := &mocks.MockLeadRepository{}
		service := NewLeadService(mockRepo)

		name := "Dana"
		mockRepo.On("UpdateLead", mock.Anything, userID, leadID, mock.Anything).
			Return(nil, repository.ErrNotFound)

		_, err := service.Update(context.Background(), userID, leadID, &model.LeadPatch{Name: &name})

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestLeadService_SecuredCount(t *testing.T) {
	userID := uuid.New()
	mockRepo := &mocks.MockLeadRepository{}
	service := NewLeadService(mockRepo)

	mockRepo.On("CountSecuredLeads", mock.Anything, userID).Return(3, nil)

	count, err := service.SecuredCount(context.Background(), userID)

	assert.NoError(t, err)
	assert.Equal(t, 3, count)
	mockRepo.AssertExpectations(t)
}
