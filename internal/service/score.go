package service

import (
	"math"

	"vamo_backend/internal/model"
)

var stageBaseValue = map[model.LeadStage]float64{
	model.StageSetupCall: 20,
	model.StageDiscovery: 40,
	model.StageDemo:      60,
	model.StagePricing:   80,
}

var relationshipMultiplier = map[model.Relationship]float64{
	model.RelationshipKnowWell:   1.2,
	model.RelationshipTalkedOnce: 1.0,
	model.RelationshipDontKnow:   0.8,
}

// ConversionScore maps a lead's pipeline position to a conversion
// probability percentage. Terminal stages are fixed; everything else is
// the stage base value scaled by how well the founder knows the lead,
// capped at 100.
func ConversionScore(stage model.LeadStage, relationship model.Relationship) int {
	switch stage {
	case model.StageSecured:
		return 100
	case model.StageDidNotClose:
		return 0
	}

	result := math.Round(stageBaseValue[stage] * relationshipMultiplier[relationship])
	return int(math.Min(result, 100))
}
