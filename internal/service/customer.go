package service

import (
	"context"
	"errors"
	"fmt"

	"vamo_backend/internal/model"
	"vamo_backend/internal/repository"

	"github.com/google/uuid"
)

// RevealCost is the pineapple price of unmasking one potential customer.
const RevealCost = 15

type CustomerService struct {
	repo CustomerRepository
}

func NewCustomerService(repo CustomerRepository) *CustomerService {
	return &CustomerService{
		repo: repo,
	}
}

func (s *CustomerService) List(ctx context.Context, userID uuid.UUID) ([]*model.PotentialCustomer, error) {
	customers, err := s.repo.GetOrSeedCustomers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

type RevealResult struct {
	Customer            *model.PotentialCustomer
	NewPineappleBalance int
}

// Reveal charges RevealCost and unmasks the customer. Requires the streak
// unlock. Revealing an already revealed customer is free and idempotent.
func (s *CustomerService) Reveal(ctx context.Context, userID, customerID uuid.UUID) (*RevealResult, error) {
	ch, err := s.repo.GetOrCreateChallenge(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if !ch.FindCustomersUnlocked {
		return nil, ErrCustomersLocked
	}

	customer, balance, err := s.repo.RevealCustomer(ctx, userID, customerID, RevealCost)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientBalance):
			return nil, ErrInsufficientFunds
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &RevealResult{
		Customer:            customer,
		NewPineappleBalance: balance,
	}, nil
}

// ConvertToLead turns a revealed customer into a pipeline lead exactly once.
func (s *CustomerService) ConvertToLead(ctx context.Context, userID, customerID uuid.UUID) (*model.Lead, error) {
	lead, err := s.repo.ConvertCustomerToLead(ctx, userID, customerID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCustomerNotRevealed):
			return nil, ErrNotRevealed
		case errors.Is(err, repository.ErrCustomerAlreadyConverted):
			return nil, ErrAlreadyConverted
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		}
		return nil, err
	}
	return lead, nil
}
