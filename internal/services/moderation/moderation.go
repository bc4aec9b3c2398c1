// Package services содержит логику модерации: жалобы, блокировки
// пользователей и сводку для административной панели.
package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/minwoojang/husband-er/internal/lib/rabbitmq"
	"github.com/minwoojang/husband-er/internal/lib/sl"
	"github.com/minwoojang/husband-er/internal/models"
)

var (
	ErrTargetNotFound  = errors.New("report target not found")
	ErrReportNotFound  = errors.New("report not found")
	ErrAlreadyResolved = errors.New("report already resolved")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidStatus   = errors.New("invalid status value")
	ErrInvalidRole     = errors.New("invalid role value")
)

const dashboardCacheTTL = time.Minute

// Repository описывает контракт хранилища для операций модерации.
type Repository interface {
	CreateReport(ctx context.Context, report models.Report) (int, error)
	ReadReport(ctx context.Context, id int) (*models.Report, error)
	ListReports(ctx context.Context, status string, limit, offset int) ([]*models.Report, error)
	ResolveReport(ctx context.Context, id int, status string) (int, error)
	CountPendingReports(ctx context.Context) (int, error)

	ReadPost(ctx context.Context, id int) (*models.Post, error)
	ReadComment(ctx context.Context, id int) (*models.Comment, error)

	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	UpdateUserStatus(ctx context.Context, userUID, status string) (int, error)
	UpdateUserRole(ctx context.Context, userUID, role string) (int, error)
	CountUsers(ctx context.Context) (int, error)
	CountPosts(ctx context.Context) (int, error)
}

// CacheInterface описывает контракт кэша для сводки панели.
type CacheInterface interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// Dashboard - сводка для главной страницы административной панели.
type Dashboard struct {
	Users          int `json:"users"`
	Posts          int `json:"posts"`
	PendingReports int `json:"pending_reports"`
}

// Publisher описывает контракт публикации событий модерации.
type Publisher interface {
	Publish(exchange, routingKey string, message any) error
}

// ModerationService реализует обработку жалоб и административные операции.
type ModerationService struct {
	repo      Repository
	cache     CacheInterface
	publisher Publisher
	log       *slog.Logger
}

// NewModerationService создает новый экземпляр ModerationService.
func NewModerationService(repo Repository, cache CacheInterface, publisher Publisher, log *slog.Logger) *ModerationService {
	return &ModerationService{repo: repo, cache: cache, publisher: publisher, log: log}
}

// CreateReport сохраняет жалобу на существующий пост или комментарий
// и публикует событие для воркера модерации. Ошибка публикации не
// откатывает жалобу, только логируется.
func (s *ModerationService) CreateReport(ctx context.Context, reporterUID, targetType string, targetID int, reason string) (int, error) {
	if err := s.checkTarget(ctx, targetType, targetID); err != nil {
		return 0, err
	}

	report := models.Report{
		ReporterUID: reporterUID,
		TargetType:  targetType,
		TargetID:    targetID,
		Reason:      reason,
	}
	id, err := s.repo.CreateReport(ctx, report)
	if err != nil {
		return 0, err
	}

	event := models.ReportEvent{
		ReportID:    id,
		ReporterUID: reporterUID,
		TargetType:  targetType,
		TargetID:    targetID,
		Reason:      reason,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.publisher.Publish(rabbitmq.ModerationExchange, rabbitmq.ReportCreatedKey, event); err != nil {
		s.log.Error("failed to publish report event", sl.Err(err), slog.Int("report_id", id))
	}
	return id, nil
}

// ListReports возвращает страницу жалоб, отфильтрованную по статусу.
// Пустой статус означает все жалобы.
func (s *ModerationService) ListReports(ctx context.Context, status string, limit, offset int) ([]*models.Report, error) {
	if status != "" && !validReportStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.repo.ListReports(ctx, status, limit, offset)
}

// ResolveReport переводит жалобу из pending в resolved или dismissed.
// Жалоба обрабатывается ровно один раз: повторная попытка возвращает
// ErrAlreadyResolved, проигравший гонку администратор видит конфликт.
// Несуществующий идентификатор возвращает ErrReportNotFound.
func (s *ModerationService) ResolveReport(ctx context.Context, id int, status string) error {
	if status != models.ReportResolved && status != models.ReportDismissed {
		return ErrInvalidStatus
	}

	rows, err := s.repo.ResolveReport(ctx, id, status)
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, err := s.repo.ReadReport(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrReportNotFound
			}
			return err
		}
		return ErrAlreadyResolved
	}
	return nil
}

// ListUsers возвращает страницу пользователей для панели.
func (s *ModerationService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.repo.ListUsers(ctx, limit, offset)
}

// SetUserStatus блокирует или разблокирует пользователя.
func (s *ModerationService) SetUserStatus(ctx context.Context, userUID, status string) error {
	if status != models.StatusActive && status != models.StatusBanned {
		return ErrInvalidStatus
	}

	rows, err := s.repo.UpdateUserStatus(ctx, userUID, status)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetUserRole изменяет роль пользователя.
func (s *ModerationService) SetUserRole(ctx context.Context, userUID, role string) error {
	if role != models.RoleUser && role != models.RoleVIP && role != models.RoleAdmin {
		return ErrInvalidRole
	}

	rows, err := s.repo.UpdateUserRole(ctx, userUID, role)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GetDashboard возвращает сводку панели. Счетчики кэшируются на минуту.
func (s *ModerationService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	const cacheKey = "admin:dashboard"

	dashboard := &Dashboard{}
	found, err := s.cache.Get(cacheKey, dashboard)
	if err != nil {
		s.log.Warn("failed to get dashboard from cache", sl.Err(err))
	}
	if found {
		return dashboard, nil
	}

	users, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := s.repo.CountPosts(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.repo.CountPendingReports(ctx)
	if err != nil {
		return nil, err
	}

	dashboard = &Dashboard{Users: users, Posts: posts, PendingReports: pending}
	if err := s.cache.Set(cacheKey, dashboard, dashboardCacheTTL); err != nil {
		s.log.Warn("failed to cache dashboard", sl.Err(err))
	}
	return dashboard, nil
}

func (s *ModerationService) checkTarget(ctx context.Context, targetType string, targetID int) error {
	var err error
	switch targetType {
	case models.TargetPost:
		_, err = s.repo.ReadPost(ctx, targetID)
	case models.TargetComment:
		_, err = s.repo.ReadComment(ctx, targetID)
	default:
		return ErrTargetNotFound
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTargetNotFound
	}
	return err
}

func validReportStatus(status string) bool {
	switch status {
	case models.ReportPending, models.ReportResolved, models.ReportDismissed:
		return true
	}
	return false
}
