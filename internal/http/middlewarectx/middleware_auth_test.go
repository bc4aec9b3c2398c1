package middlewarectx_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/minwoojang/husband-er/internal/config"
	"github.com/minwoojang/husband-er/internal/http/middlewarectx"
	"github.com/minwoojang/husband-er/internal/lib/jwt"
	"github.com/minwoojang/husband-er/internal/models"
)

type DenylistMock struct {
	mock.Mock
}

func (m *DenylistMock) TokenDenied(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

type StatusMock struct {
	mock.Mock
}

func (m *StatusMock) GetUserStatus(ctx context.Context, userUID string) (string, error) {
	args := m.Called(ctx, userUID)
	return args.String(0), args.Error(1)
}

type authStub struct {
	maker jwt.Maker
}

func (a *authStub) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return a.maker.ParseToken(token)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	auth := &authStub{maker: maker}
	logger := newNoopLogger()

	validToken, err := maker.GenerateToken(&models.User{
		UID:      "uid-1",
		Username: "든든한 남편 7호",
		Role:     models.RoleUser,
	})
	require.NoError(t, err)

	tests := []struct {
		name           string
		authHeader     string
		setupDenylist  func(d *DenylistMock)
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			authHeader:     "",
			setupDenylist:  func(_ *DenylistMock) {},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			setupDenylist:  func(_ *DenylistMock) {},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "garbage token",
			authHeader:     "Bearer not-a-jwt",
			setupDenylist:  func(_ *DenylistMock) {},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "revoked token",
			authHeader: "Bearer " + validToken,
			setupDenylist: func(d *DenylistMock) {
				d.On("TokenDenied", mock.Anything, mock.Anything).Return(true, nil).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "denylist unavailable",
			authHeader: "Bearer " + validToken,
			setupDenylist: func(d *DenylistMock) {
				d.On("TokenDenied", mock.Anything, mock.Anything).
					Return(false, errors.New("redis down")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
		},
		{
			name:       "valid token puts session into context",
			authHeader: "Bearer " + validToken,
			setupDenylist: func(d *DenylistMock) {
				d.On("TokenDenied", mock.Anything, mock.Anything).Return(false, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			denylist := new(DenylistMock)
			tt.setupDenylist(denylist)

			handlerCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				session, ok := middlewarectx.SessionFromContext(r.Context())
				require.True(t, ok)
				assert.Equal(t, models.SessionAuthenticated, session.Status)
				assert.Equal(t, "uid-1", session.User.ID)
				assert.Equal(t, "든든한 남편 7호", session.User.Name)
				w.WriteHeader(http.StatusOK)
			})

			mw := middlewarectx.JWTMiddleware(auth, denylist, logger, "/login")(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/posts", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			mw.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			if rec.Code == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), `"login":"/login"`)
			}
			denylist.AssertExpectations(t)
		})
	}
}

func TestRequireRole(t *testing.T) {
	logger := newNoopLogger()

	withSession := func(req *http.Request, session models.Session) *http.Request {
		ctx := context.WithValue(req.Context(), middlewarectx.SessionKey, session)
		return req.WithContext(ctx)
	}

	adminSession := models.Session{
		Status: models.SessionAuthenticated,
		User:   &models.SessionUser{ID: "uid-admin", Role: models.RoleAdmin},
	}
	userSession := models.Session{
		Status: models.SessionAuthenticated,
		User:   &models.SessionUser{ID: "uid-1", Role: models.RoleUser},
	}

	t.Run("allowed role passes", func(t *testing.T) {
		called := false
		mw := middlewarectx.RequireRole(logger, "/admin/login", models.RoleAdmin)(
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

		req := withSession(httptest.NewRequest(http.MethodGet, "/admin", nil), adminSession)
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)

		assert.True(t, called)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong role gets 403 with login target", func(t *testing.T) {
		mw := middlewarectx.RequireRole(logger, "/admin/login", models.RoleAdmin)(
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

		req := withSession(httptest.NewRequest(http.MethodGet, "/admin", nil), userSession)
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "/admin/login")
	})

	t.Run("missing session gets 401", func(t *testing.T) {
		mw := middlewarectx.RequireRole(logger, "/login", models.RoleUser)(
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestBanGuardMiddleware(t *testing.T) {
	logger := newNoopLogger()
	pages := config.Pages{LoginPage: "/login", AdminLoginPage: "/admin/login"}

	const userUID = "8a1f2b3c-4d5e-4f6a-8b7c-9d0e1f2a3b4c"

	newRequest := func(user *models.SessionUser) *http.Request {
		session := models.Session{Status: models.SessionAuthenticated, User: user}
		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		ctx := context.WithValue(req.Context(), middlewarectx.SessionKey, session)
		return req.WithContext(ctx)
	}

	t.Run("active user passes", func(t *testing.T) {
		users := new(StatusMock)
		users.On("GetUserStatus", mock.Anything, userUID).Return(models.StatusActive, nil).Once()

		called := false
		mw := middlewarectx.BanGuardMiddleware(logger, users, pages)(
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, newRequest(&models.SessionUser{ID: userUID, Role: models.RoleUser}))

		assert.True(t, called)
		users.AssertExpectations(t)
	})

	t.Run("banned user is cut off immediately", func(t *testing.T) {
		users := new(StatusMock)
		users.On("GetUserStatus", mock.Anything, userUID).Return(models.StatusBanned, nil).Once()

		mw := middlewarectx.BanGuardMiddleware(logger, users, pages)(
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, newRequest(&models.SessionUser{ID: userUID, Role: models.RoleUser}))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "BannedUser")
		assert.Contains(t, rec.Body.String(), `"login":"/login"`)
	})

	t.Run("ephemeral session skips the status check", func(t *testing.T) {
		users := new(StatusMock)

		called := false
		mw := middlewarectx.BanGuardMiddleware(logger, users, pages)(
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, newRequest(&models.SessionUser{ID: "naver-subject-1", Role: models.RoleUser}))

		assert.True(t, called)
		assert.Equal(t, http.StatusOK, rec.Code)
		users.AssertNotCalled(t, "GetUserStatus", mock.Anything, mock.Anything)
	})

	t.Run("deleted user gets 401, not 500", func(t *testing.T) {
		users := new(StatusMock)
		users.On("GetUserStatus", mock.Anything, userUID).
			Return("", fmt.Errorf("repository.GetUserStatus: %w", sql.ErrNoRows)).Once()

		mw := middlewarectx.BanGuardMiddleware(logger, users, pages)(
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, newRequest(&models.SessionUser{ID: userUID, Role: models.RoleUser}))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), `"login":"/login"`)
	})

	t.Run("deleted admin is pointed at the admin login", func(t *testing.T) {
		users := new(StatusMock)
		users.On("GetUserStatus", mock.Anything, userUID).
			Return("", fmt.Errorf("repository.GetUserStatus: %w", sql.ErrNoRows)).Once()

		mw := middlewarectx.BanGuardMiddleware(logger, users, pages)(
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, newRequest(&models.SessionUser{ID: userUID, Role: models.RoleAdmin}))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), `"login":"/admin/login"`)
	})

	t.Run("storage failure is still a server error", func(t *testing.T) {
		users := new(StatusMock)
		users.On("GetUserStatus", mock.Anything, userUID).
			Return("", errors.New("connection refused")).Once()

		mw := middlewarectx.BanGuardMiddleware(logger, users, pages)(
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, newRequest(&models.SessionUser{ID: userUID, Role: models.RoleUser}))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
