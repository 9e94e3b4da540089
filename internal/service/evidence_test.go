package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"vamo_backend/internal/model"
	"vamo_backend/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func strPtr(s string) *string {
	return &s
}

func TestEvidenceService_Record(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name          string
		input         EvidenceInput
		mockSetup     func(mockRepo *mocks.MockEvidenceRepository)
		expectedError error
		check         func(*testing.T, *RecordResult)
	}{
		{
			name: "First submission of the day",
			input: EvidenceInput{
				Type:    model.EvidenceText,
				Content: "cold emailed 5 prospects",
				Date:    "2026-03-01T09:30:00-05:00",
			},
			mockSetup: func(mockRepo *mocks.MockEvidenceRepository) {
				current := &model.Challenge{UserID: userID, Streak: 0, Pineapples: 0}
				mockRepo.On("GetOrCreateChallenge", mock.Anything, userID).
					Return(current, nil)
				mockRepo.On("AppendEvidence", mock.Anything, mock.Anything, mock.Anything).
					Run(func(args mock.Arguments) {
						advance := args.Get(2).(func(*model.Challenge) model.ChallengeProgress)
						advance(current)
					}).
					Return(&model.Challenge{
						UserID:             userID,
						Streak:             1,
						LastCommitDate:     strPtr("2026-03-01"),
						Pineapples:         12,
						DailyTaskCompleted: true,
					}, nil)
			},
			check: func(t *testing.T, result *RecordResult) {
				assert.Equal(t, 1, result.NewStreak)
				assert.Equal(t, 12, result.NewPineappleBalance)
				assert.Equal(t, DailyTaskReward+StreakTickReward, result.Reward)
				assert.False(t, result.WasAlreadyCompleted)
				assert.False(t, result.FindCustomersUnlocked)
			},
		},
		{
			name: "Repeat submission on the same day",
			input: EvidenceInput{
				Type:    model.EvidenceLink,
				Content: "https://example.com/demo-recording",
				Date:    "2026-03-01T17:00:00-05:00",
			},
			mockSetup: func(mockRepo *mocks.MockEvidenceRepository) {
				current := &model.Challenge{
					UserID:             userID,
					Streak:             4,
					LastCommitDate:     strPtr("2026-03-01"),
					Pineapples:         48,
					DailyTaskCompleted: true,
				}
				mockRepo.On("GetOrCreateChallenge", mock.Anything, userID).
					Return(current, nil)
				mockRepo.On("AppendEvidence", mock.Anything, mock.Anything, mock.Anything).
					Run(func(args mock.Arguments) {
						advance := args.Get(2).(func(*model.Challenge) model.ChallengeProgress)
						advance(current)
					}).
					Return(&model.Challenge{
						UserID:             userID,
						Streak:             4,
						LastCommitDate:     strPtr("2026-03-01"),
						Pineapples:         50,
						DailyTaskCompleted: true,
					}, nil)
			},
			check: func(t *testing.T, result *RecordResult) {
				assert.Equal(t, 4, result.NewStreak)
				assert.Equal(t, 50, result.NewPineappleBalance)
				assert.Equal(t, StreakTickReward, result.Reward)
				assert.True(t, result.WasAlreadyCompleted)
			},
		},
		{
			name: "Tenth consecutive day unlocks find customers",
			input: EvidenceInput{
				Type:    model.EvidenceNote,
				Content: "followed up with the pricing-stage lead",
				Date:    "2026-03-10T08:00:00-05:00",
			},
			mockSetup: func(mockRepo *mocks.MockEvidenceRepository) {
				current := &model.Challenge{
					UserID:         userID,
					Streak:         9,
					LastCommitDate: strPtr("2026-03-09"),
					Pineapples:     108,
				}
				mockRepo.On("GetOrCreateChallenge", mock.Anything, userID).
					Return(current, nil)
				mockRepo.On("AppendEvidence", mock.Anything, mock.Anything, mock.Anything).
					Run(func(args mock.Arguments) {
						advance := args.Get(2).(func(*model.Challenge) model.ChallengeProgress)
						progress := advance(current)
						assert.True(t, progress.FindCustomersUnlocked)
					}).
					Return(&model.Challenge{
						UserID:                userID,
						Streak:                10,
						LastCommitDate:        strPtr("2026-03-10"),
						Pineapples:            120,
						DailyTaskCompleted:    true,
						FindCustomersUnlocked: true,
					}, nil)
			},
			check: func(t *testing.T, result *RecordResult) {
				assert.Equal(t, 10, result.NewStreak)
				assert.True(t, result.FindCustomersUnlocked)
			},
		},
		{
			name: "Content at the text limit is accepted",
			input: EvidenceInput{
				Type:    model.EvidenceText,
				Content: strings.Repeat("a", maxTextContentLen),
				Date:    "2026-03-01T09:30:00Z",
			},
			mockSetup: func(mockRepo *mocks.MockEvidenceRepository) {
				current := &model.Challenge{UserID: userID}
				mockRepo.On("GetOrCreateChallenge", mock.Anything, userID).
					Return(current, nil)
				mockRepo.On("AppendEvidence", mock.Anything, mock.Anything, mock.Anything).
					Run(func(args mock.Arguments) {
						advance := args.Get(2).(func(*model.Challenge) model.ChallengeProgress)
						advance(current)
					}).
					Return(&model.Challenge{
						UserID:             userID,
						Streak:             1,
						LastCommitDate:     strPtr("2026-03-01"),
						Pineapples:         12,
						DailyTaskCompleted: true,
					}, nil)
			},
			check: func(t *testing.T, result *RecordResult) {
				assert.Equal(t, 1, result.NewStreak)
			},
		},
		{
			// More bytes than the limit but exactly maxTextContentLen runes.
			name: "Text limit counts characters, not bytes",
			input: EvidenceInput{
				Type:    model.EvidenceText,
				Content: strings.Repeat("ü", maxTextContentLen),
				Date:    "2026-03-01T09:30:00Z",
			},
			mockSetup: func(mockRepo *mocks.MockEvidenceRepository) {
				current := &model.Challenge{UserID: userID}
				mockRepo.On("GetOrCreateChallenge", mock.Anything, userID).
					Return(current, nil)
				mockRepo.On("AppendEvidence", mock.Anything, mock.Anything, mock.Anything).
					Run(func(args mock.Arguments) {
						advance := args.Get(2).(func(*model.Challenge) model.ChallengeProgress)
						advance(current)
					}).
					Return(&model.Challenge{
						UserID:             userID,
						Streak:             1,
						LastCommitDate:     strPtr("2026-03-01"),
						Pineapples:         12,
						DailyTaskCompleted: true,
					}, nil)
			},
			check: func(t *testing.T, result *RecordResult) {
				assert.Greater(t, len(result.Evidence.Content), maxTextContentLen)
			},
		},
		{
			name: "Content over the text limit is rejected",
			input: EvidenceInput{
				Type:    model.EvidenceText,
				Content: strings.Repeat("a", maxTextContentLen+1),
				Date:    "2026-03-01T09:30:00Z",
			},
			mockSetup:     func(mockRepo *mocks.MockEvidenceRepository) {},
			expectedError: &ValidationError{},
		},
		{
			name: "Unknown type, empty content and bad date reported together",
			input: EvidenceInput{
				Type:    "video",
				Content: "",
				Date:    "yesterday",
			},
			mockSetup:     func(mockRepo *mocks.MockEvidenceRepository) {},
			expectedError: &ValidationError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockEvidenceRepository{}
			tt.mockSetup(mockRepo)
			service := NewEvidenceService(mockRepo)

			result, err := service.Record(context.Background(), userID, tt.input)

			if tt.expectedError != nil {
				assert.Error(t, err)
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
				assert.NotEmpty(t, verr.Violations)
				mockRepo.AssertNotCalled(t, "AppendEvidence", mock.Anything, mock.Anything, mock.Anything)
				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, result)
			assert.NotNil(t, result.Evidence)
			assert.Equal(t, userID, result.Evidence.UserID)

			if tt.check != nil {
				tt.check(t, result)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestEvidenceService_Record_ViolationCount(t *testing.T) {
	mockRepo := &mocks.MockEvidenceRepository{}
	service := NewEvidenceService(mockRepo)

	_, err := service.Record(context.Background(), uuid.New(), EvidenceInput{
		Type:    "video",
		Content: "",
		Date:    "not-a-date",
	})

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Violations, 3)
}

func TestAdvanceProgress(t *testing.T) {
	tests := []struct {
		name     string
		ch       *model.Challenge
		localDay string
		expected model.ChallengeProgress
	}{
		{
			name:     "First ever submission",
			ch:       &model.Challenge{},
			localDay: "2026-03-01",
			expected: model.ChallengeProgress{
				Streak:             1,
				LastCommitDate:     "2026-03-01",
				PineappleDelta:     12,
				DailyTaskCompleted: true,
			},
		},
		{
			name: "Consecutive day",
			ch: &model.Challenge{
				Streak:         3,
				LastCommitDate: strPtr("2026-03-03"),
			},
			localDay: "2026-03-04",
			expected: model.ChallengeProgress{
				Streak:             4,
				LastCommitDate:     "2026-03-04",
				PineappleDelta:     12,
				DailyTaskCompleted: true,
			},
		},
		{
			name: "Same day repeat earns the tick only",
			ch: &model.Challenge{
				Streak:         3,
				LastCommitDate: strPtr("2026-03-03"),
			},
			localDay: "2026-03-03",
			expected: model.ChallengeProgress{
				Streak:             3,
				LastCommitDate:     "2026-03-03",
				PineappleDelta:     2,
				DailyTaskCompleted: true,
				AlreadyCompleted:   true,
			},
		},
		{
			name: "Unlock stays on once earned",
			ch: &model.Challenge{
				Streak:                15,
				LastCommitDate:        strPtr("2026-03-15"),
				FindCustomersUnlocked: true,
			},
			localDay: "2026-03-16",
			expected: model.ChallengeProgress{
				Streak:                16,
				LastCommitDate:        "2026-03-16",
				PineappleDelta:        12,
				DailyTaskCompleted:    true,
				FindCustomersUnlocked: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, advanceProgress(tt.ch, tt.localDay))
		})
	}
}

func TestEvidenceService_Record_LocalDayFromOffset(t *testing.T) {
	userID := uuid.New()
	mockRepo := &mocks.MockEvidenceRepository{}
	service := NewEvidenceService(mockRepo)

	current := &model.Challenge{UserID: userID}
	mockRepo.On("GetOrCreateChallenge", mock.Anything, userID).Return(current, nil)

	var sawDay string
	mockRepo.On("AppendEvidence", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			advance := args.Get(2).(func(*model.Challenge) model.ChallengeProgress)
			sawDay = advance(current).LastCommitDate
		}).
		Return(&model.Challenge{
			UserID:             userID,
			Streak:             1,
			LastCommitDate:     strPtr("2026-03-01"),
			Pineapples:         12,
			DailyTaskCompleted: true,
		}, nil)

	// 23:30 on March 1st in UTC-5 is already March 2nd in UTC. The user's
	// offset decides the day, so this must still count as March 1st.
	_, err := service.Record(context.Background(), userID, EvidenceInput{
		Type:    model.EvidenceText,
		Content: "late night outreach",
		Date:    "2026-03-01T23:30:00-05:00",
	})

	assert.NoError(t, err)
	assert.Equal(t, "2026-03-01", sawDay)
}

func TestEvidenceService_List(t *testing.T) {
	userID := uuid.New()
	mockRepo := &mocks.MockEvidenceRepository{}
	service := NewEvidenceService(mockRepo)

	stored := []*model.Evidence{
		{ID: uuid.New(), UserID: userID, Type: model.EvidenceText, Content: "b", Timestamp: time.Now()},
		{ID: uuid.New(), UserID: userID, Type: model.EvidenceNote, Content: "a", Timestamp: time.Now().Add(-time.Hour)},
	}
	mockRepo.On("GetEvidence", mock.Anything, userID).Return(stored, nil)

	evidence, err := service.List(context.Background(), userID)

	assert.NoError(t, err)
	assert.Equal(t, stored, evidence)
	mockRepo.AssertExpectations(t)
}
