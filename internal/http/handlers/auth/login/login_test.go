package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/minwoojang/husband-er/internal/models"
	authservice "github.com/minwoojang/husband-er/internal/services/auth"
)

// MockService реализует интерфейс login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	args := m.Called(ctx, username, password)
	var user *models.User
	if res := args.Get(1); res != nil {
		user = res.(*models.User)
	}
	return args.String(0), user, args.Error(2)
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешный вход администратора",
			body: `{"username":"admin","password":"admin"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "admin", "admin").
					Return("jwt-token", &models.User{
						Username:    "admin",
						DisplayName: "관리자",
						Role:        models.RoleAdmin,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"username":"관리자"`,
		},
		{
			name: "неверные учетные данные",
			body: `{"username":"stranger","password":"guess"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "stranger", "guess").
					Return("", nil, authservice.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "아이디 또는 비밀번호가 올바르지 않습니다",
		},
		{
			name: "заблокированный пользователь",
			body: `{"username":"kakao_user","password":"kakao_user"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "kakao_user", "kakao_user").
					Return("", nil, authservice.ErrBannedUser)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"code":"BannedUser"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"username":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid request body",
		},
		{
			name:           "пустой пароль не проходит валидацию",
			body:           `{"username":"admin","password":""}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "required field",
		},
		{
			name: "внутренняя ошибка сервиса",
			body: `{"username":"admin","password":"admin"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "admin", "admin").
					Return("", nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "internal service error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
