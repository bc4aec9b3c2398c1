package repository

import (
	"context"
	"fmt"

	"github.com/minwoojang/husband-er/internal/models"
)

// CreateComment вставляет новый комментарий и возвращает его ID.
func (s *Storage) CreateComment(ctx context.Context, comment models.Comment) (int, error) {
	const op = "storage.CreateComment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO comments (post_id, author_uid, author_name, content)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		comment.PostID, comment.AuthorUID, comment.AuthorName, comment.Content).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadComment возвращает комментарий по его ID.
func (s *Storage) ReadComment(ctx context.Context, id int) (*models.Comment, error) {
	const op = "storage.ReadComment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, post_id, author_uid, author_name, content, created_at
			  FROM comments WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Comment
	if err := row.Scan(&result.ID, &result.PostID, &result.AuthorUID,
		&result.AuthorName, &result.Content, &result.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListComments возвращает комментарии поста в порядке публикации.
func (s *Storage) ListComments(ctx context.Context, postID, limit, offset int) ([]*models.Comment, error) {
	const op = "storage.ListComments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, post_id, author_uid, author_name, content, created_at
			  FROM comments
			  WHERE post_id = $1
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, postID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Comment
	for rows.Next() {
		var item models.Comment
		if err := rows.Scan(&item.ID, &item.PostID, &item.AuthorUID,
			&item.AuthorName, &item.Content, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveComment удаляет комментарий по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveComment(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveComment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM comments WHERE id = $1`
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
