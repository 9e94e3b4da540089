package service

import (
	"testing"

	"vamo_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestConversionScore(t *testing.T) {
	tests := []struct {
		name         string
		stage        model.LeadStage
		relationship model.Relationship
		expected     int
	}{
		{"Secured is always 100", model.StageSecured, model.RelationshipDontKnow, 100},
		{"Did not close is always 0", model.StageDidNotClose, model.RelationshipKnowWell, 0},
		{"Setup call with a stranger", model.StageSetupCall, model.RelationshipDontKnow, 16},
		{"Setup call with a close contact", model.StageSetupCall, model.RelationshipKnowWell, 24},
		{"Discovery baseline", model.StageDiscovery, model.RelationshipTalkedOnce, 40},
		{"Discovery with a close contact", model.StageDiscovery, model.RelationshipKnowWell, 48},
		{"Demo baseline", model.StageDemo, model.RelationshipTalkedOnce, 60},
		{"Demo with a stranger", model.StageDemo, model.RelationshipDontKnow, 48},
		{"Pricing with a close contact", model.StagePricing, model.RelationshipKnowWell, 96},
		{"Pricing baseline", model.StagePricing, model.RelationshipTalkedOnce, 80},
		{"Pricing with a stranger", model.StagePricing, model.RelationshipDontKnow, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ConversionScore(tt.stage, tt.relationship))
		})
	}
}
