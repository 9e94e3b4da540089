package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vamo_backend/internal/model"
	"vamo_backend/internal/repository"

	"github.com/google/uuid"
)

type ChallengeService struct {
	repo ChallengeRepository
}

func NewChallengeService(repo ChallengeRepository) *ChallengeService {
	return &ChallengeService{
		repo: repo,
	}
}

func (s *ChallengeService) Get(ctx context.Context, userID uuid.UUID) (*model.Challenge, error) {
	ch, err := s.repo.GetOrCreateChallenge(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	return ch, nil
}

// Restart wipes streak, balance and unlocks and stamps a fresh start date.
func (s *ChallengeService) Restart(ctx context.Context, userID uuid.UUID) (*model.Challenge, error) {
	ch, err := s.repo.ResetChallenge(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return ch, nil
}

// reconcilePatch decides what a reconciliation against the client's local
// date has to correct. Returns nil when the stored state is already right.
//
// This deliberately trusts the cached lastCommitDate/streak pair instead of
// recomputing the streak from the full evidence history: the stored state is
// advanced under a row lock on every submission, so it only drifts when no
// reconcile ran across a missed day, and the next call resets it to 0.
func reconcilePatch(ch *model.Challenge, localToday string) (*model.ChallengePatch, error) {
	today, err := time.Parse(localDayLayout, localToday)
	if err != nil {
		return nil, &ValidationError{Violations: []string{"reference date must be formatted as 2006-01-02"}}
	}
	yesterday := today.AddDate(0, 0, -1).Format(localDayLayout)

	patch := &model.ChallengePatch{}
	changed := false

	if ch.LastCommitDate == nil || (*ch.LastCommitDate != localToday && *ch.LastCommitDate != yesterday) {
		if ch.Streak != 0 {
			zero := 0
			patch.Streak = &zero
			changed = true
		}
	}

	if (ch.LastCommitDate == nil || *ch.LastCommitDate != localToday) && ch.DailyTaskCompleted {
		f := false
		patch.DailyTaskCompleted = &f
		changed = true
	}

	if !changed {
		return nil, nil
	}
	return patch, nil
}

// Reconcile corrects the streak for time passed without submissions. The
// reference date comes from the client, the user's calendar day is
// authoritative and must not drift with the server timezone.
func (s *ChallengeService) Reconcile(ctx context.Context, userID uuid.UUID, localToday string) (*model.Challenge, error) {
	ch, err := s.repo.GetOrCreateChallenge(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	patch, err := reconcilePatch(ch, localToday)
	if err != nil {
		return nil, err
	}
	if patch == nil {
		return ch, nil
	}

	updated, err := s.repo.UpdateChallenge(ctx, userID, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile challenge: %w", err)
	}
	return updated, nil
}

func (s *ChallengeService) SetOnboardingSeen(ctx context.Context, userID uuid.UUID, seen bool) (*model.Challenge, error) {
	updated, err := s.repo.UpdateChallenge(ctx, userID, &model.ChallengePatch{
		HasSeenOnboarding: &seen,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return updated, nil
}
