// Package services содержит логику бизнес-уровня для аутентификации:
// проверку учетных данных, гендерный фильтр, синхронизацию профиля
// и проекцию пользователя в токен сессии.
package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/minwoojang/husband-er/internal/config"
	"github.com/minwoojang/husband-er/internal/lib/jwt"
	"github.com/minwoojang/husband-er/internal/lib/nickname"
	"github.com/minwoojang/husband-er/internal/lib/password"
	"github.com/minwoojang/husband-er/internal/lib/sl"
	"github.com/minwoojang/husband-er/internal/models"
	"github.com/minwoojang/husband-er/internal/naverprovider"
)

// Ошибки разбора входа. Обработчики переводят их либо в текст формы,
// либо в код ошибки в query-параметре редиректа.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrGenderRejected     = errors.New("gender access denied")
	ErrBannedUser         = errors.New("banned user")
	ErrSyncUnavailable    = errors.New("profile sync unavailable")
)

// Коды ошибок, передаваемые в query-параметре редиректа на страницу входа.
const (
	CodeGenderAccessDenied = "GenderAccessDenied"
	CodeBannedUser         = "BannedUser"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByNaverID возвращает пользователя по идентификатору субъекта Naver.
	GetUserByNaverID(ctx context.Context, naverID string) (*models.User, error)

	// RefreshLoginMetadata обновляет дату последнего входа и аватар.
	RefreshLoginMetadata(ctx context.Context, userUID, avatarURL string) error
}

// AuthService отвечает за вход по паролю, вход через Naver и выпуск JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	demo     map[string]config.DemoAccount
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, demoAccounts []config.DemoAccount, log *slog.Logger) *AuthService {
	demo := make(map[string]config.DemoAccount, len(demoAccounts))
	for _, acc := range demoAccounts {
		demo[acc.Username] = acc
	}
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		demo:     demo,
		log:      log,
	}
}

// Login проверяет учетные данные и возвращает токен сессии.
// Конвейер: resolveCredentials -> vetoByPolicy -> projectToToken.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, *models.User, error) {
	user, err := s.resolveCredentials(ctx, username, rawPassword)
	if err != nil {
		return "", nil, err
	}
	if err := vetoByPolicy(user); err != nil {
		return "", nil, err
	}
	token, err := s.jwtMaker.GenerateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// LoginSocial обрабатывает профиль внешнего провайдера:
// гендерный фильтр, синхронизация профиля, вето по статусу, выпуск токена.
func (s *AuthService) LoginSocial(ctx context.Context, profile *naverprovider.Profile) (string, *models.User, error) {
	if profile.Gender != "M" {
		return "", nil, ErrGenderRejected
	}

	user, err := s.syncProfile(ctx, profile)
	if err != nil {
		return "", nil, err
	}
	if err := vetoByPolicy(user); err != nil {
		return "", nil, err
	}
	token, err := s.jwtMaker.GenerateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// resolveCredentials сопоставляет пару username/password с учетной записью.
//
// Учетные записи с парольным входом (сид администратора) проверяются по
// bcrypt-хэшу из базы. Тестовые аккаунты из allow-list принимаются только
// если пароль совпадает с username; при первом входе такой аккаунт
// материализуется в базе, чтобы на него распространялись блокировки.
func (s *AuthService) resolveCredentials(ctx context.Context, username, rawPassword string) (*models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err == nil && user.PasswordHash != "" {
		if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
			return nil, ErrInvalidCredentials
		}
		return user, nil
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	acc, ok := s.demo[username]
	if !ok || rawPassword != username {
		return nil, ErrInvalidCredentials
	}
	if user != nil {
		return user, nil
	}

	created := models.User{
		Username:    acc.Username,
		DisplayName: acc.DisplayName,
		Role:        acc.Role,
		Status:      models.StatusActive,
		ExamPassed:  acc.ExamPassed,
	}
	if created.Role == "" {
		created.Role = models.RoleUser
	}
	uid, err := s.users.CreateUser(ctx, created)
	if err != nil {
		return nil, err
	}
	created.UID = uid
	return &created, nil
}

// vetoByPolicy запрещает выпуск токена заблокированным пользователям.
// Инвариант: banned-пользователь никогда не получает валидную сессию.
func vetoByPolicy(user *models.User) error {
	if user.Banned() {
		return ErrBannedUser
	}
	return nil
}

// syncProfile сверяет аутентифицированный профиль Naver с базой.
//
// Нет записи — создается новая с ролью user, статусом active и
// сгенерированным псевдонимом. Запись есть — обновляются дата входа
// и аватар. Если база недоступна, вход пропускается с эфемерной
// записью: доступность здесь ставится выше согласованности,
// ошибка попадает в лог как SyncUnavailable.
func (s *AuthService) syncProfile(ctx context.Context, profile *naverprovider.Profile) (*models.User, error) {
	user, err := s.users.GetUserByNaverID(ctx, profile.ID)
	if err == nil {
		if syncErr := s.users.RefreshLoginMetadata(ctx, user.UID, profile.ProfileImage); syncErr != nil {
			s.log.Error("failed to refresh login metadata",
				sl.Err(errors.Join(ErrSyncUnavailable, syncErr)), sl.Subject(profile.ID))
		}
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		s.log.Error("profile sync skipped, store unreachable",
			sl.Err(errors.Join(ErrSyncUnavailable, err)), sl.Subject(profile.ID))
		// Эфемерная запись несет naver id вместо uid,
		// проверка статуса пропускает такую сессию.
		return &models.User{
			UID:      profile.ID,
			NaverID:  profile.ID,
			Username: profile.Name,
			Gender:   profile.Gender,
			Role:     models.RoleUser,
			Status:   models.StatusActive,
		}, nil
	}

	created := models.User{
		NaverID:   profile.ID,
		Username:  nickname.Generate(),
		Email:     profile.Email,
		AvatarURL: profile.ProfileImage,
		Gender:    profile.Gender,
		Role:      models.RoleUser,
		Status:    models.StatusActive,
	}
	uid, err := s.users.CreateUser(ctx, created)
	if err != nil {
		return nil, err
	}
	created.UID = uid
	return &created, nil
}

// EnsureAdminAccount создает учетную запись администратора из конфига,
// если её ещё нет. Пароль сохраняется только как bcrypt-хэш.
func (s *AuthService) EnsureAdminAccount(ctx context.Context, seed config.AdminSeed) error {
	_, err := s.users.GetUserByUsername(ctx, seed.Username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	hash, err := password.GetHash(seed.Password)
	if err != nil {
		return err
	}
	_, err = s.users.CreateUser(ctx, models.User{
		Username:     seed.Username,
		DisplayName:  seed.DisplayName,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Status:       models.StatusActive,
		ExamPassed:   true,
	})
	return err
}

// ValidateToken проверяет JWT и возвращает claims, если токен валиден.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}

// ProjectToSession проецирует claims токена в типизированную сессию.
// Чистая функция, пересчитывается на каждом чтении сессии.
func ProjectToSession(claims *jwt.CustomClaims) models.Session {
	if claims == nil {
		return models.Unauthenticated()
	}
	return models.Session{
		Status: models.SessionAuthenticated,
		User: &models.SessionUser{
			ID:   claims.UserUID,
			Name: claims.Username,
			Role: claims.Role,
		},
		ExamPassed: claims.ExamPassed,
		TokenID:    claims.ID,
	}
}
