package services

import (
	"context"
	"testing"
	"time"

	"github.com/minwoojang/husband-er/internal/lib/jwt"
	"github.com/minwoojang/husband-er/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UsersMock) SetExamPassed(ctx context.Context, userUID string) error {
	return m.Called(ctx, userUID).Error(0)
}

func TestGrade(t *testing.T) {
	tests := []struct {
		name    string
		answers map[int]string
		want    int
		wantErr error
	}{
		{
			name:    "perfect run",
			answers: map[int]string{1: "C", 2: "B", 3: "C"},
			want:    300,
		},
		{
			name:    "borderline pass",
			answers: map[int]string{1: "C", 2: "A", 3: "C"},
			want:    220,
		},
		{
			name:    "negative total",
			answers: map[int]string{1: "D", 2: "C", 3: "B"},
			want:    -350,
		},
		{
			name:    "missing answer",
			answers: map[int]string{1: "C", 2: "B"},
			wantErr: ErrIncompleteAnswers,
		},
		{
			name:    "unknown option",
			answers: map[int]string{1: "C", 2: "B", 3: "X"},
			wantErr: ErrUnknownOption,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Grade(tt.answers)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRankFor(t *testing.T) {
	rank, _ := RankFor(300)
	assert.Contains(t, rank, "생존 고수")

	rank, _ = RankFor(200)
	assert.Contains(t, rank, "중급 생존자")

	rank, _ = RankFor(100)
	assert.Contains(t, rank, "응급 환자")

	rank, _ = RankFor(-350)
	assert.Contains(t, rank, "사망 확정")
}

func TestExamService_Submit(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)

	t.Run("pass sets flag and re-mints token", func(t *testing.T) {
		users := new(UsersMock)
		users.On("SetExamPassed", mock.Anything, "uid-1").Return(nil).Once()
		users.On("GetUser", mock.Anything, "uid-1").Return(&models.User{
			UID:      "uid-1",
			Username: "수험생",
			Role:     models.RoleUser,
		}, nil).Once()

		svc := NewExamService(users, maker)
		result, err := svc.Submit(context.Background(), "uid-1", map[int]string{1: "C", 2: "B", 3: "C"})
		require.NoError(t, err)
		assert.Equal(t, 300, result.Score)
		assert.True(t, result.Passed)
		require.NotEmpty(t, result.Token)

		claims, err := maker.ParseToken(result.Token)
		require.NoError(t, err)
		assert.True(t, claims.ExamPassed)

		users.AssertExpectations(t)
	})

	t.Run("fail returns rank without touching profile", func(t *testing.T) {
		users := new(UsersMock)

		svc := NewExamService(users, maker)
		result, err := svc.Submit(context.Background(), "uid-1", map[int]string{1: "A", 2: "A", 3: "A"})
		require.NoError(t, err)
		assert.Equal(t, 30, result.Score)
		assert.False(t, result.Passed)
		assert.Empty(t, result.Token)

		users.AssertNotCalled(t, "SetExamPassed", mock.Anything, mock.Anything)
	})
}
