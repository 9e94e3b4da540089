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

const (
	// DailyTaskReward plus StreakTickReward is granted for the first
	// submission of a local calendar day; repeats earn the tick only.
	DailyTaskReward  = 10
	StreakTickReward = 2

	// UnlockStreak is the streak at which find-customers opens up.
	UnlockStreak = 10

	maxTextContentLen  = 50_000
	maxImageContentLen = 15_000_000

	localDayLayout = "2006-01-02"
)

type EvidenceService struct {
	repo EvidenceRepository
}

func NewEvidenceService(repo EvidenceRepository) *EvidenceService {
	return &EvidenceService{
		repo: repo,
	}
}

type EvidenceInput struct {
	Type    model.EvidenceType
	Content string
	Date    string
}

type RecordResult struct {
	Evidence              *model.Evidence
	NewStreak             int
	NewPineappleBalance   int
	Reward                int
	WasAlreadyCompleted   bool
	FindCustomersUnlocked bool
}

func maxContentLen(t model.EvidenceType) int {
	if t == model.EvidenceImage || t == model.EvidenceScreenshot {
		return maxImageContentLen
	}
	return maxTextContentLen
}

// validate collects every violated constraint so the caller sees them all.
func validate(input EvidenceInput) (time.Time, *ValidationError) {
	var violations []string

	if !input.Type.Valid() {
		violations = append(violations, fmt.Sprintf("unknown evidence type %q", input.Type))
	}
	if input.Content == "" {
		violations = append(violations, "content must not be empty")
	}
	// Caps are in characters, not bytes; multibyte text counts by rune.
	if limit := maxContentLen(input.Type); utf8.RuneCountInString(input.Content) > limit {
		violations = append(violations, fmt.Sprintf("content exceeds %d characters", limit))
	}

	submittedAt, err := time.Parse(time.RFC3339, input.Date)
	if err != nil {
		violations = append(violations, "date must be an RFC3339 instant")
	}

	if violations != nil {
		return time.Time{}, &ValidationError{Violations: violations}
	}
	return submittedAt, nil
}

// advanceProgress derives the streak transition for one submission. The day
// boundary comes from the submission instant's own UTC offset, never from
// the server clock, so the user's calendar day stays authoritative.
func advanceProgress(ch *model.Challenge, localDay string) model.ChallengeProgress {
	if ch.LastCommitDate != nil && *ch.LastCommitDate == localDay {
		return model.ChallengeProgress{
			Streak:                ch.Streak,
			LastCommitDate:        localDay,
			PineappleDelta:        StreakTickReward,
			DailyTaskCompleted:    true,
			FindCustomersUnlocked: ch.FindCustomersUnlocked,
			AlreadyCompleted:      true,
		}
	}

	newStreak := ch.Streak + 1
	return model.ChallengeProgress{
		Streak:                newStreak,
		LastCommitDate:        localDay,
		PineappleDelta:        DailyTaskReward + StreakTickReward,
		DailyTaskCompleted:    true,
		FindCustomersUnlocked: ch.FindCustomersUnlocked || newStreak >= UnlockStreak,
	}
}

// Record validates and stores one evidence submission and advances the
// owner's streak and pineapple balance.
func (s *EvidenceService) Record(ctx context.Context, userID uuid.UUID, input EvidenceInput) (*RecordResult, error) {
	submittedAt, verr := validate(input)
	if verr != nil {
		return nil, verr
	}
	localDay := submittedAt.Format(localDayLayout)

	// Make sure the challenge row exists before the locked advance.
	if _, err := s.repo.GetOrCreateChallenge(ctx, userID); err != nil {
		return nil, err
	}

	ev := &model.Evidence{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      input.Type,
		Content:   input.Content,
		Date:      input.Date,
		Timestamp: time.Now().UTC(),
	}

	var progress model.ChallengeProgress
	updated, err := s.repo.AppendEvidence(ctx, ev, func(current *model.Challenge) model.ChallengeProgress {
		progress = advanceProgress(current, localDay)
		return progress
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &RecordResult{
		Evidence:              ev,
		NewStreak:             updated.Streak,
		NewPineappleBalance:   updated.Pineapples,
		Reward:                progress.PineappleDelta,
		WasAlreadyCompleted:   progress.AlreadyCompleted,
		FindCustomersUnlocked: updated.FindCustomersUnlocked,
	}, nil
}

func (s *EvidenceService) List(ctx context.Context, userID uuid.UUID) ([]*model.Evidence, error) {
	evidence, err := s.repo.GetEvidence(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evidence: %w", err)
	}
	return evidence, nil
}
