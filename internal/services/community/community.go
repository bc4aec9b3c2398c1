// Package services содержит бизнес-логику сообщества: посты, комментарии,
// лайки и счетчик просмотров с дедупликацией.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/minwoojang/husband-er/internal/lib/profanity"
	"github.com/minwoojang/husband-er/internal/lib/sl"
	"github.com/minwoojang/husband-er/internal/models"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidCategory = errors.New("invalid category")
)

// ProfanityError возвращается, когда текст содержит запрещенное слово.
type ProfanityError struct {
	Word string
}

func (e *ProfanityError) Error() string {
	return fmt.Sprintf("profanity detected: %s", e.Word)
}

const (
	postCacheTTL = time.Hour
	viewDedupTTL = 12 * time.Hour
)

// Repository описывает контракт для работы с постами и комментариями в базе данных.
type Repository interface {
	CreatePost(ctx context.Context, post models.Post) (int, error)
	ReadPost(ctx context.Context, id int) (*models.Post, error)
	ListPosts(ctx context.Context, category string, limit, offset int) ([]*models.Post, error)
	UpdatePost(ctx context.Context, id int, req models.DummyPost) (int, error)
	RemovePost(ctx context.Context, id int) (int, error)
	IncrementViews(ctx context.Context, id int) error
	AddLike(ctx context.Context, postID int, userUID string) (bool, error)
	RemoveLike(ctx context.Context, postID int, userUID string) (bool, error)

	CreateComment(ctx context.Context, comment models.Comment) (int, error)
	ReadComment(ctx context.Context, id int) (*models.Comment, error)
	ListComments(ctx context.Context, postID, limit, offset int) ([]*models.Comment, error)
	RemoveComment(ctx context.Context, id int) (int, error)
}

// CacheInterface описывает контракт кэша и дедупликации просмотров.
type CacheInterface interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
	MarkViewed(ctx context.Context, userUID string, postID int, ttl time.Duration) (bool, error)
}

// CommunityService реализует операции сообщества поверх репозитория и кэша.
type CommunityService struct {
	repo  Repository
	cache CacheInterface
	log   *slog.Logger
}

// NewCommunityService создает новый экземпляр CommunityService.
func NewCommunityService(repo Repository, cache CacheInterface, log *slog.Logger) *CommunityService {
	return &CommunityService{repo: repo, cache: cache, log: log}
}

// CreatePost проверяет категорию и текст, затем сохраняет пост.
func (s *CommunityService) CreatePost(ctx context.Context, authorUID, authorName string, req models.DummyPost) (int, error) {
	if !models.ValidCategory(req.Category) {
		return 0, ErrInvalidCategory
	}
	if err := checkProfanity(req.Title, req.Content); err != nil {
		return 0, err
	}

	id, err := s.repo.CreatePost(ctx, models.Post{
		AuthorUID:  authorUID,
		AuthorName: authorName,
		Title:      req.Title,
		Content:    req.Content,
		Category:   req.Category,
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetPost возвращает пост и учитывает просмотр.
//
// Просмотр засчитывается не чаще одного раза на пользователя за период
// дедупликации. Ошибки кэша не блокируют чтение, только логируются.
func (s *CommunityService) GetPost(ctx context.Context, id int, viewerUID string) (*models.Post, error) {
	post := &models.Post{}
	cacheKey := fmt.Sprintf("post:%d", id)
	found, err := s.cache.Get(cacheKey, post)
	if err != nil {
		s.log.Warn("failed to get post from cache", sl.Err(err))
	}
	if !found {
		post, err = s.repo.ReadPost(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		if err != nil {
			return nil, err
		}
	}

	if viewerUID != "" {
		first, err := s.cache.MarkViewed(ctx, viewerUID, id, viewDedupTTL)
		if err != nil {
			s.log.Warn("failed to mark post as viewed", sl.Err(err))
		} else if first {
			if err := s.repo.IncrementViews(ctx, id); err != nil {
				s.log.Warn("failed to increment post views", sl.Err(err))
			} else {
				post.Views++
			}
		}
	}

	if err := s.cache.Set(cacheKey, post, postCacheTTL); err != nil {
		s.log.Warn("failed to cache post", sl.Err(err))
	}
	return post, nil
}

// ListPosts возвращает страницу постов, отфильтрованную по категории.
// Пустая категория означает все категории.
func (s *CommunityService) ListPosts(ctx context.Context, category string, limit, offset int) ([]*models.Post, error) {
	if category != "" && !models.ValidCategory(category) {
		return nil, ErrInvalidCategory
	}
	return s.repo.ListPosts(ctx, category, limit, offset)
}

// UpdatePost изменяет пост. Разрешено автору и администратору.
func (s *CommunityService) UpdatePost(ctx context.Context, id int, actorUID, actorRole string, req models.DummyPost) error {
	if !models.ValidCategory(req.Category) {
		return ErrInvalidCategory
	}
	if err := checkProfanity(req.Title, req.Content); err != nil {
		return err
	}
	if err := s.authorizePostAction(ctx, id, actorUID, actorRole); err != nil {
		return err
	}

	rows, err := s.repo.UpdatePost(ctx, id, req)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPostNotFound
	}
	s.invalidatePost(id)
	return nil
}

// RemovePost удаляет пост вместе с комментариями и лайками.
// Разрешено автору и администратору.
func (s *CommunityService) RemovePost(ctx context.Context, id int, actorUID, actorRole string) error {
	if err := s.authorizePostAction(ctx, id, actorUID, actorRole); err != nil {
		return err
	}

	rows, err := s.repo.RemovePost(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPostNotFound
	}
	s.invalidatePost(id)
	return nil
}

// ToggleLike ставит или снимает лайк. Возвращает false, если состояние
// уже соответствовало запрошенному.
func (s *CommunityService) ToggleLike(ctx context.Context, postID int, userUID string, like bool) (bool, error) {
	if _, err := s.repo.ReadPost(ctx, postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrPostNotFound
		}
		return false, err
	}

	var changed bool
	var err error
	if like {
		changed, err = s.repo.AddLike(ctx, postID, userUID)
	} else {
		changed, err = s.repo.RemoveLike(ctx, postID, userUID)
	}
	if err != nil {
		return false, err
	}
	if changed {
		s.invalidatePost(postID)
	}
	return changed, nil
}

// CreateComment сохраняет комментарий к существующему посту.
func (s *CommunityService) CreateComment(ctx context.Context, postID int, authorUID, authorName, content string) (int, error) {
	if err := checkProfanity(content); err != nil {
		return 0, err
	}
	if _, err := s.repo.ReadPost(ctx, postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrPostNotFound
		}
		return 0, err
	}

	return s.repo.CreateComment(ctx, models.Comment{
		PostID:     postID,
		AuthorUID:  authorUID,
		AuthorName: authorName,
		Content:    content,
	})
}

// ListComments возвращает страницу комментариев поста.
func (s *CommunityService) ListComments(ctx context.Context, postID, limit, offset int) ([]*models.Comment, error) {
	return s.repo.ListComments(ctx, postID, limit, offset)
}

// RemoveComment удаляет комментарий. Разрешено автору и администратору.
func (s *CommunityService) RemoveComment(ctx context.Context, id int, actorUID, actorRole string) error {
	comment, err := s.repo.ReadComment(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCommentNotFound
	}
	if err != nil {
		return err
	}
	if comment.AuthorUID != actorUID && actorRole != models.RoleAdmin {
		return ErrForbidden
	}

	rows, err := s.repo.RemoveComment(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func (s *CommunityService) authorizePostAction(ctx context.Context, id int, actorUID, actorRole string) error {
	post, err := s.repo.ReadPost(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPostNotFound
	}
	if err != nil {
		return err
	}
	if post.AuthorUID != actorUID && actorRole != models.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

func (s *CommunityService) invalidatePost(id int) {
	if err := s.cache.Invalidate(fmt.Sprintf("post:%d", id)); err != nil {
		s.log.Warn("failed to invalidate post cache", sl.Err(err))
	}
}

func checkProfanity(texts ...string) error {
	for _, text := range texts {
		if word, hit := profanity.Check(text); hit {
			return &ProfanityError{Word: word}
		}
	}
	return nil
}
