package repository

import (
	"context"
	"fmt"

	"github.com/minwoojang/husband-er/internal/models"
)

// CreatePost вставляет новый пост и возвращает его ID.
func (s *Storage) CreatePost(ctx context.Context, post models.Post) (int, error) {
	const op = "storage.CreatePost"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO posts (author_uid, author_name, title, content, category)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		post.AuthorUID, post.AuthorName, post.Title, post.Content, post.Category).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadPost возвращает пост по его ID.
func (s *Storage) ReadPost(ctx context.Context, id int) (*models.Post, error) {
	const op = "storage.ReadPost"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, author_uid, author_name, title, content, category,
			      views, likes, created_at, updated_at
			  FROM posts WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Post
	if err := row.Scan(&result.ID, &result.AuthorUID, &result.AuthorName, &result.Title,
		&result.Content, &result.Category, &result.Views, &result.Likes,
		&result.CreatedAt, &result.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListPosts возвращает список постов с пагинацией; пустая категория означает все.
func (s *Storage) ListPosts(ctx context.Context, category string, limit, offset int) ([]*models.Post, error) {
	const op = "storage.ListPosts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, author_uid, author_name, title, content, category,
			      views, likes, created_at, updated_at
			  FROM posts
			  WHERE ($1::text = '' OR category = $1)
			  ORDER BY id DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, category, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Post
	for rows.Next() {
		var item models.Post
		if err := rows.Scan(&item.ID, &item.AuthorUID, &item.AuthorName, &item.Title,
			&item.Content, &item.Category, &item.Views, &item.Likes,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdatePost обновляет пост по ID и возвращает количество изменённых строк.
func (s *Storage) UpdatePost(ctx context.Context, id int, req models.DummyPost) (int, error) {
	const op = "storage.UpdatePost"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE posts
			  SET title = $1, content = $2, category = $3, updated_at = now()
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query, req.Title, req.Content, req.Category, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemovePost удаляет пост по ID и возвращает количество удалённых строк.
// Комментарии, лайки и жалобы на пост удаляются каскадно на уровне схемы.
func (s *Storage) RemovePost(ctx context.Context, id int) (int, error) {
	const op = "storage.RemovePost"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM posts WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// IncrementViews атомарно увеличивает счётчик просмотров поста.
func (s *Storage) IncrementViews(ctx context.Context, id int) error {
	const op = "storage.IncrementViews"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE posts SET views = views + 1 WHERE id = $1`
	if _, err := s.DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// AddLike добавляет лайк пользователя посту. Возвращает true, если лайк
// новый, и false, если пользователь уже лайкал этот пост. Счётчик в посте
// обновляется в той же транзакции.
func (s *Storage) AddLike(ctx context.Context, postID int, userUID string) (bool, error) {
	const op = "storage.AddLike"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO post_likes (post_id, user_uid) VALUES ($1, $2)
		 ON CONFLICT (post_id, user_uid) DO NOTHING`, postID, userUID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if inserted == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE posts SET likes = likes + 1 WHERE id = $1`, postID); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// RemoveLike убирает лайк пользователя. Возвращает true, если лайк
// существовал и был убран.
func (s *Storage) RemoveLike(ctx context.Context, postID int, userUID string) (bool, error) {
	const op = "storage.RemoveLike"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_uid = $2`, postID, userUID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if removed == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE posts SET likes = likes - 1 WHERE id = $1 AND likes > 0`, postID); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// CountPosts возвращает общее количество постов.
func (s *Storage) CountPosts(ctx context.Context) (int, error) {
	const op = "storage.CountPosts"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
