package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"vamo_backend/internal/model"
	"vamo_backend/internal/repository"

	"github.com/google/uuid"
)

const maxReasonLen = 1000

type LeadService struct {
	repo LeadRepository
}

func NewLeadService(repo LeadRepository) *LeadService {
	return &LeadService{
		repo: repo,
	}
}

func (s *LeadService) List(ctx context.Context, userID uuid.UUID) ([]*model.Lead, error) {
	leads, err := s.repo.GetLeads(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

type LeadInput struct {
	Name         string
	Relationship model.Relationship
	Reason       string
	Stage        model.LeadStage
}

func validateLeadInput(input LeadInput) *ValidationError {
	var violations []string

	if input.Name == "" {
		violations = append(violations, "name must not be empty")
	}
	if !input.Relationship.Valid() {
		violations = append(violations, fmt.Sprintf("unknown relationship %q", input.Relationship))
	}
	if !input.Stage.Valid() {
		violations = append(violations, fmt.Sprintf("unknown stage %q", input.Stage))
	}
	if utf8.RuneCountInString(input.Reason) > maxReasonLen {
		violations = append(violations, fmt.Sprintf("reason exceeds %d characters", maxReasonLen))
	}

	if violations != nil {
		return &ValidationError{Violations: violations}
	}
	return nil
}

func (s *LeadService) Create(ctx context.Context, userID uuid.UUID, input LeadInput) (*model.Lead, error) {
	if verr := validateLeadInput(input); verr != nil {
		return nil, verr
	}

	l := &model.Lead{
		ID:           uuid.New(),
		UserID:       userID,
		Name:         input.Name,
		Relationship: input.Relationship,
		Reason:       input.Reason,
		Stage:        input.Stage,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateLead(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	return l, nil
}

func validateLeadPatch(patch *model.LeadPatch) *ValidationError {
	var violations []string

	if patch.Name != nil && *patch.Name == "" {
		violations = append(violations, "name must not be empty")
	}
	if patch.Relationship != nil && !patch.Relationship.Valid() {
		violations = append(violations, fmt.Sprintf("unknown relationship %q", *patch.Relationship))
	}
	if patch.Stage != nil && !patch.Stage.Valid() {
		violations = append(violations, fmt.Sprintf("unknown stage %q", *patch.Stage))
	}
	if patch.Reason != nil && utf8.RuneCountInString(*patch.Reason) > maxReasonLen {
		violations = append(violations, fmt.Sprintf("reason exceeds %d characters", maxReasonLen))
	}

	if violations != nil {
		return &ValidationError{Violations: violations}
	}
	return nil
}

func (s *LeadService) Update(ctx context.Context, userID, leadID uuid.UUID, patch *model.LeadPatch) (*model.Lead, error) {
	if verr := validateLeadPatch(patch); verr != nil {
		return nil, verr
	}

	l, err := s.repo.UpdateLead(ctx, userID, leadID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return l, nil
}

// SecuredCount reports how many of the 10 target customers are closed.
func (s *LeadService) SecuredCount(ctx context.Context, userID uuid.UUID) (int, error) {
	count, err := s.repo.CountSecuredLeads(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count secured leads: %w", err)
	}
	return count, nil
}
