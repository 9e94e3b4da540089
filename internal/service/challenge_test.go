package service

import (
	"context"
	"testing"

	"vamo_backend/internal/model"
	"vamo_backend/internal/repository"
	"vamo_backend/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func intPtr(i int) *int {
	return &i
}

func TestChallengeService_Reconcile(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		localToday string
		mockSetup  func(mockRepo *mocks.MockChallengeRepository)
		check      func(*testing.T, *model.Challenge, error)
	}{
		{
			name:       "Committed today, nothing to correct",
			localToday: "2026-03-05",
			mockSetup: func(mockRepo *mocks.MockChallengeRepository) {
				mockRepo.On("GetOrCreateChallenge", mock.Anything, userID).
					Return(&model.Challenge{
						UserID:             userID,
						Streak:             5,
						LastCommitDate:     strPtr("2026-03-05"),
						DailyTaskCompleted: true,
					}, nil)
			},
			check: func(t *testing.T, ch *model.Challenge, err error) {
				assert.NoError(t, err)
				assert.Equal(t, 5, ch.Streak)
				assert.True(t, ch.DailyTaskCompleted)
			},
		},
		{
			name:       "Committed yesterday keeps the streak, resets the daily flag",
			localToday: "2026-03-06",
			mockSetup: func(mockRepo *mocks.MockChallengeRepository) {
				mockRepo.On("GetOrCreateChallenge", mock.Anything, userID).
					Return(&model.Challenge{
						UserID:             userID,
						Streak:             5,
						LastCommitDate:     strPtr("2026-03-05"),
						DailyTaskCompleted: true,
					}, nil)
				mockRepo.On("UpdateChallenge", mock.Anything, userID, mock.MatchedBy(func(patch *model.ChallengePatch) bool {
					return patch.Streak == nil &&
						patch.DailyTaskCompleted != nil && !*patch.DailyTaskCompleted
				})).Return(&model.Challenge{
					UserID:         userID,
					Streak:         5,
					LastCommitDate: strPtr("2026-03-05"),
				}, nil)
			},
			check: func(t *testing.T, ch *model.Challenge, err error) {
				assert.NoError(t, err)
				assert.Equal(t, 5, ch.Streak)
				assert.False(t, ch.DailyTaskCompleted)
			},
		},
		{
			name:       "Missed a day resets the streak to zero",
			localToday: "2026-03-08",
			mockSetup: func(mockRepo *mocks.MockChallengeRepository) {
				mockRepo.On("GetOrCreateChallenge", mock.Anything, userID).
					Return(&model.Challenge{
						UserID:             userID,
						Streak:             5,
						LastCommitDate:     strPtr("2026-03-05"),
						DailyTaskCompleted: true,
					}, nil)
				mockRepo.On("UpdateChallenge", mock.Anything, userID, mock.MatchedBy(func(patch *model.ChallengePatch) bool {
					return patch.Streak != nil && *patch.Streak == 0 &&
						patch.DailyTaskCompleted != nil && !*patch.DailyTaskCompleted
				})).Return(&model.Challenge{
					UserID:         userID,
					Streak:         0,
					LastCommitDate: strPtr("2026-03-05"),
				}, nil)
			},
			check: func(t *testing.T, ch *model.Challenge, err error) {
				assert.NoError(t, err)
				assert.Equal(t, 0, ch.Streak)
			},
		},
		{
			name:       "Fresh challenge needs no correction",
			localToday: "2026-03-05",
			mockSetup: func(mockRepo *mocks.MockChallengeRepository) {
				mockRepo.On("GetOrCreateChallenge", mock.Anything, userID).
					Return(&model.Challenge{UserID: userID}, nil)
			},
			check: func(t *testing.T, ch *model.Challenge, err error) {
				assert.NoError(t, err)
				assert.Equal(t, 0, ch.Streak)
			},
		},
		{
			name:       "Malformed reference date",
			localToday: "03/05/2026",
			mockSetup: func(mockRepo *mocks.MockChallengeRepository) {
				mockRepo.On("GetOrCreateChallenge", mock.Anything, userID).
					Return(&model.Challenge{UserID: userID, Streak: 5}, nil)
			},
			check: func(t *testing.T, ch *model.Challenge, err error) {
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
				assert.Nil(t, ch)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockChallengeRepository{}
			tt.mockSetup(mockRepo)
			service := NewChallengeService(mockRepo)

			ch, err := service.Reconcile(context.Background(), userID, tt.localToday)

			tt.check(t, ch, err)
			mockRepo.AssertExpectations(t)
			if tt.name == "Committed today, nothing to correct" || tt.name == "Fresh challenge needs no correction" {
				mockRepo.AssertNotCalled(t, "UpdateChallenge", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestReconcilePatch_UnlockSurvivesReset(t *testing.T) {
	// Reconciliation only touches streak and the daily flag. The unlock and
	// the pineapple balance stay as they are even when the streak dies.
	patch, err := reconcilePatch(&model.Challenge{
		Streak:                12,
		LastCommitDate:        strPtr("2026-03-01"),
		FindCustomersUnlocked: true,
		Pineapples:            140,
	}, "2026-03-09")

	assert.NoError(t, err)
	assert.NotNil(t, patch)
	assert.Equal(t, intPtr(0), patch.Streak)
	assert.Nil(t, patch.HasSeenOnboarding)
}

func TestChallengeService_Restart(t *testing.T) {
	userID := uuid.New()

	t.Run("Successful restart", func(t *testing.T) {
		mockRepo := &mocks.MockChallengeRepository{}
		service := NewChallengeService(mockRepo)

		mockRepo.On("ResetChallenge", mock.Anything, userID).
			Return(&model.Challenge{UserID: userID, HasSeenOnboarding: true}, nil)

		ch, err := service.Restart(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, 0, ch.Streak)
		assert.Equal(t, 0, ch.Pineapples)
		assert.False(t, ch.FindCustomersUnlocked)
		assert.True(t, ch.HasSeenOnboarding)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Unknown user", func(t *testing.T) {
		mockRepo := &mocks.MockChallengeRepository{}
		service := NewChallengeService(mockRepo)

		mockRepo.On("ResetChallenge", mock.Anything, userID).
			Return(nil, repository.ErrNotFound)

		_, err := service.Restart(context.Background(), userID)

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestChallengeService_SetOnboardingSeen(t *testing.T) {
	userID := uuid.New()
	mockRepo := &mocks.MockChallengeRepository{}
	service := NewChallengeService(mockRepo)

	mockRepo.On("UpdateChallenge", mock.Anything, userID, mock.MatchedBy(func(patch *model.ChallengePatch) bool {
		return patch.HasSeenOnboarding != nil && *patch.HasSeenOnboarding &&
			patch.Streak == nil && patch.DailyTaskCompleted == nil
	})).Return(&model.Challenge{UserID: userID, HasSeenOnboarding: true}, nil)

	ch, err := service.SetOnboardingSeen(context.Background(), userID, true)

	assert.NoError(t, err)
	assert.True(t, ch.HasSeenOnboarding)
	mockRepo.AssertExpectations(t)
}
