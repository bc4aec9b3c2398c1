package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minwoojang/husband-er/internal/models"
)

const userColumns = `uid, naver_id, username, display_name, email, password_hash, avatar_url,
			      gender, role, status, exam_passed, created_at, last_login_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var naverID, email, avatarURL, gender sql.NullString
	var lastLogin sql.NullTime
	if err := row.Scan(&u.UID, &naverID, &u.Username, &u.DisplayName, &email, &u.PasswordHash,
		&avatarURL, &gender, &u.Role, &u.Status, &u.ExamPassed,
		&u.CreatedAt, &lastLogin); err != nil {
		return nil, err
	}
	u.NaverID = naverID.String
	u.Email = email.String
	u.AvatarURL = avatarURL.String
	u.Gender = gender.String
	if lastLogin.Valid {
		u.LastLoginAt = &lastLogin.Time
	}
	return u, nil
}

// CreateUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (naver_id, username, display_name, email, password_hash, avatar_url,
			      gender, role, status, exam_passed, last_login_at)
			  VALUES (NULLIF($1, ''), $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10, now())
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.NaverID, user.Username, user.DisplayName, user.Email, user.PasswordHash, user.AvatarURL,
		user.Gender, user.Role, user.Status, user.ExamPassed).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByNaverID возвращает пользователя по идентификатору субъекта Naver.
func (s *Storage) GetUserByNaverID(ctx context.Context, naverID string) (*models.User, error) {
	const op = "storage.GetUserByNaverID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE naver_id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, naverID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// RefreshLoginMetadata обновляет дату последнего входа и аватар пользователя.
func (s *Storage) RefreshLoginMetadata(ctx context.Context, userUID, avatarURL string) error {
	const op = "storage.RefreshLoginMetadata"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET last_login_at = now(),
			      avatar_url = COALESCE(NULLIF($1, ''), avatar_url)
			  WHERE uid = $2`
	if _, err := s.DB.ExecContext(ctx, query, avatarURL, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUserStatus возвращает статус пользователя по UID.
func (s *Storage) GetUserStatus(ctx context.Context, userUID string) (string, error) {
	const op = "storage.GetUserStatus"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT status FROM users WHERE uid = $1`
	var status string
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&status); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return status, nil
}

// ListUsers возвращает список пользователей с пагинацией.
func (s *Storage) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateUserStatus обновляет статус пользователя и возвращает количество изменённых строк.
func (s *Storage) UpdateUserStatus(ctx context.Context, userUID, status string) (int, error) {
	const op = "storage.UpdateUserStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET status = $1 WHERE uid = $2`
	result, err := s.DB.ExecContext(ctx, query, status, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateUserRole обновляет роль пользователя и возвращает количество изменённых строк.
func (s *Storage) UpdateUserRole(ctx context.Context, userUID, role string) (int, error) {
	const op = "storage.UpdateUserRole"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET role = $1 WHERE uid = $2`
	result, err := s.DB.ExecContext(ctx, query, role, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SetExamPassed отмечает, что пользователь сдал входной экзамен.
func (s *Storage) SetExamPassed(ctx context.Context, userUID string) error {
	const op = "storage.SetExamPassed"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET exam_passed = true WHERE uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CountUsers возвращает общее количество пользователей.
func (s *Storage) CountUsers(ctx context.Context) (int, error) {
	const op = "storage.CountUsers"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
