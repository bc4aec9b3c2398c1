package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/minwoojang/husband-er/internal/config"
	"github.com/minwoojang/husband-er/internal/lib/jwt"
	"github.com/minwoojang/husband-er/internal/lib/password"
	"github.com/minwoojang/husband-er/internal/models"
	"github.com/minwoojang/husband-er/internal/naverprovider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) CreateUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *UsersMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UsersMock) GetUserByNaverID(ctx context.Context, naverID string) (*models.User, error) {
	args := m.Called(ctx, naverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UsersMock) RefreshLoginMetadata(ctx context.Context, userUID, avatarURL string) error {
	return m.Called(ctx, userUID, avatarURL).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newTestService(users *UsersMock) *AuthService {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	demo := []config.DemoAccount{
		{Username: "kakao_user", DisplayName: "카카오 사용자", Role: models.RoleUser},
		{Username: "exam_passed_user", DisplayName: "시험 통과자", Role: models.RoleUser, ExamPassed: true},
	}
	return NewAuthService(users, maker, demo, newNoopLogger())
}

func TestAuthService_Login(t *testing.T) {
	adminHash, err := password.GetHash("admin")
	require.NoError(t, err)

	tests := []struct {
		name       string
		setupMocks func(u *UsersMock)
		username   string
		password   string
		wantErr    error
		wantRole   string
		wantName   string
	}{
		{
			name: "admin with password hash",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByUsername", mock.Anything, "admin").Return(&models.User{
					UID:          "uid-admin",
					Username:     "admin",
					DisplayName:  "관리자",
					PasswordHash: adminHash,
					Role:         models.RoleAdmin,
					Status:       models.StatusActive,
				}, nil).Once()
			},
			username: "admin",
			password: "admin",
			wantRole: models.RoleAdmin,
			wantName: "관리자",
		},
		{
			name: "wrong password against hash",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByUsername", mock.Anything, "admin").Return(&models.User{
					UID:          "uid-admin",
					PasswordHash: adminHash,
					Role:         models.RoleAdmin,
					Status:       models.StatusActive,
				}, nil).Once()
			},
			username: "admin",
			password: "nope",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name: "demo account first login creates user",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByUsername", mock.Anything, "kakao_user").
					Return(nil, sql.ErrNoRows).Once()
				u.On("CreateUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Username == "kakao_user" &&
						user.DisplayName == "카카오 사용자" &&
						user.Role == models.RoleUser &&
						user.Status == models.StatusActive
				})).Return("uid-kakao", nil).Once()
			},
			username: "kakao_user",
			password: "kakao_user",
			wantRole: models.RoleUser,
			wantName: "카카오 사용자",
		},
		{
			name: "demo account password must equal username",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByUsername", mock.Anything, "kakao_user").
					Return(nil, sql.ErrNoRows).Once()
			},
			username: "kakao_user",
			password: "secret",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name: "unknown account",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByUsername", mock.Anything, "stranger").
					Return(nil, sql.ErrNoRows).Once()
			},
			username: "stranger",
			password: "stranger",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name: "banned user is vetoed",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByUsername", mock.Anything, "admin").Return(&models.User{
					UID:          "uid-admin",
					PasswordHash: adminHash,
					Role:         models.RoleAdmin,
					Status:       models.StatusBanned,
				}, nil).Once()
			},
			username: "admin",
			password: "admin",
			wantErr:  ErrBannedUser,
		},
		{
			name: "materialized demo account can be banned",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByUsername", mock.Anything, "kakao_user").Return(&models.User{
					UID:      "uid-kakao",
					Username: "kakao_user",
					Role:     models.RoleUser,
					Status:   models.StatusBanned,
				}, nil).Once()
			},
			username: "kakao_user",
			password: "kakao_user",
			wantErr:  ErrBannedUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			svc := newTestService(users)
			tt.setupMocks(users)

			token, user, err := svc.Login(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, tt.wantRole, user.Role)

				claims, err := svc.ValidateToken(context.Background(), token)
				require.NoError(t, err)
				assert.Equal(t, user.UID, claims.UserUID)
				assert.Equal(t, user.Role, claims.Role)
				if tt.wantName != "" {
					assert.Equal(t, tt.wantName, claims.Username)
				}
			}

			users.AssertExpectations(t)
		})
	}
}

func TestAuthService_LoginSocial(t *testing.T) {
	maleProfile := &naverprovider.Profile{
		ID:           "naver-123",
		Name:         "홍길동",
		Email:        "hong@example.com",
		Gender:       "M",
		ProfileImage: "https://img.example.com/p.png",
	}

	tests := []struct {
		name       string
		setupMocks func(u *UsersMock)
		profile    *naverprovider.Profile
		wantErr    error
	}{
		{
			name:       "female profile rejected before any store access",
			setupMocks: func(_ *UsersMock) {},
			profile:    &naverprovider.Profile{ID: "naver-f", Gender: "F"},
			wantErr:    ErrGenderRejected,
		},
		{
			name:       "unknown gender rejected",
			setupMocks: func(_ *UsersMock) {},
			profile:    &naverprovider.Profile{ID: "naver-u", Gender: "U"},
			wantErr:    ErrGenderRejected,
		},
		{
			name: "first login creates profile with generated nickname",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByNaverID", mock.Anything, "naver-123").
					Return(nil, sql.ErrNoRows).Once()
				u.On("CreateUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.NaverID == "naver-123" &&
						user.Username != "" &&
						user.Role == models.RoleUser &&
						user.Status == models.StatusActive
				})).Return("uid-new", nil).Once()
			},
			profile: maleProfile,
		},
		{
			name: "returning user refreshes metadata",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByNaverID", mock.Anything, "naver-123").Return(&models.User{
					UID:     "uid-old",
					NaverID: "naver-123",
					Role:    models.RoleUser,
					Status:  models.StatusActive,
				}, nil).Once()
				u.On("RefreshLoginMetadata", mock.Anything, "uid-old", maleProfile.ProfileImage).
					Return(nil).Once()
			},
			profile: maleProfile,
		},
		{
			name: "metadata refresh failure does not block login",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByNaverID", mock.Anything, "naver-123").Return(&models.User{
					UID:    "uid-old",
					Role:   models.RoleUser,
					Status: models.StatusActive,
				}, nil).Once()
				u.On("RefreshLoginMetadata", mock.Anything, "uid-old", maleProfile.ProfileImage).
					Return(errors.New("db down")).Once()
			},
			profile: maleProfile,
		},
		{
			name: "store unreachable falls back to ephemeral identity",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByNaverID", mock.Anything, "naver-123").
					Return(nil, errors.New("connection refused")).Once()
			},
			profile: maleProfile,
		},
		{
			name: "banned returning user is vetoed",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByNaverID", mock.Anything, "naver-123").Return(&models.User{
					UID:    "uid-old",
					Role:   models.RoleUser,
					Status: models.StatusBanned,
				}, nil).Once()
				u.On("RefreshLoginMetadata", mock.Anything, "uid-old", maleProfile.ProfileImage).
					Return(nil).Once()
			},
			profile: maleProfile,
			wantErr: ErrBannedUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			svc := newTestService(users)
			tt.setupMocks(users)

			token, _, err := svc.LoginSocial(context.Background(), tt.profile)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, token)
			}

			users.AssertExpectations(t)
		})
	}
}

func TestAuthService_EnsureAdminAccount(t *testing.T) {
	seed := config.AdminSeed{Username: "admin", Password: "admin", DisplayName: "관리자"}

	t.Run("creates account when missing", func(t *testing.T) {
		users := new(UsersMock)
		users.On("GetUserByUsername", mock.Anything, "admin").
			Return(nil, sql.ErrNoRows).Once()
		users.On("CreateUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
			return user.Role == models.RoleAdmin &&
				user.DisplayName == "관리자" &&
				user.Status == models.StatusActive &&
				user.PasswordHash != "" &&
				user.PasswordHash != seed.Password
		})).Return("uid-admin", nil).Once()

		svc := newTestService(users)
		require.NoError(t, svc.EnsureAdminAccount(context.Background(), seed))
		users.AssertExpectations(t)
	})

	t.Run("idempotent when account exists", func(t *testing.T) {
		users := new(UsersMock)
		users.On("GetUserByUsername", mock.Anything, "admin").
			Return(&models.User{UID: "uid-admin"}, nil).Once()

		svc := newTestService(users)
		require.NoError(t, svc.EnsureAdminAccount(context.Background(), seed))
		users.AssertExpectations(t)
	})
}

func TestProjectToSession(t *testing.T) {
	t.Run("nil claims", func(t *testing.T) {
		session := ProjectToSession(nil)
		assert.Equal(t, models.SessionUnauthenticated, session.Status)
		assert.Nil(t, session.User)
	})

	t.Run("authenticated claims", func(t *testing.T) {
		users := new(UsersMock)
		svc := newTestService(users)

		token, err := svc.jwtMaker.GenerateToken(&models.User{
			UID:        "uid-1",
			Username:   "든든한 남편 7호",
			Role:       models.RoleUser,
			ExamPassed: true,
		})
		require.NoError(t, err)

		claims, err := svc.ValidateToken(context.Background(), token)
		require.NoError(t, err)

		session := ProjectToSession(claims)
		assert.Equal(t, models.SessionAuthenticated, session.Status)
		require.NotNil(t, session.User)
		assert.Equal(t, "uid-1", session.User.ID)
		assert.Equal(t, "든든한 남편 7호", session.User.Name)
		assert.Equal(t, models.RoleUser, session.User.Role)
		assert.True(t, session.ExamPassed)
		assert.NotEmpty(t, session.TokenID)
	})
}
