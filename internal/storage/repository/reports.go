package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minwoojang/husband-er/internal/models"
)

// CreateReport вставляет новую жалобу со статусом pending и возвращает её ID.
func (s *Storage) CreateReport(ctx context.Context, report models.Report) (int, error) {
	const op = "storage.CreateReport"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO reports (reporter_uid, target_type, target_id, reason, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		report.ReporterUID, report.TargetType, report.TargetID,
		report.Reason, models.ReportPending).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadReport возвращает жалобу по её ID.
func (s *Storage) ReadReport(ctx context.Context, id int) (*models.Report, error) {
	const op = "storage.ReadReport"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, reporter_uid, target_type, target_id, reason, status,
			      created_at, resolved_at
			  FROM reports WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Report
	var resolvedAt sql.NullTime
	if err := row.Scan(&result.ID, &result.ReporterUID, &result.TargetType,
		&result.TargetID, &result.Reason, &result.Status,
		&result.CreatedAt, &resolvedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resolvedAt.Valid {
		result.ResolvedAt = &resolvedAt.Time
	}
	return &result, nil
}

// ListReports возвращает жалобы с пагинацией; пустой статус означает все.
func (s *Storage) ListReports(ctx context.Context, status string, limit, offset int) ([]*models.Report, error) {
	const op = "storage.ListReports"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, reporter_uid, target_type, target_id, reason, status,
			      created_at, resolved_at
			  FROM reports
			  WHERE ($1::text = '' OR status = $1)
			  ORDER BY id DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Report
	for rows.Next() {
		var item models.Report
		var resolvedAt sql.NullTime
		if err := rows.Scan(&item.ID, &item.ReporterUID, &item.TargetType,
			&item.TargetID, &item.Reason, &item.Status,
			&item.CreatedAt, &resolvedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if resolvedAt.Valid {
			item.ResolvedAt = &resolvedAt.Time
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ResolveReport переводит жалобу из pending в конечный статус.
// Переход условный: если жалоба уже обработана другим администратором,
// возвращается ноль изменённых строк, а не перезапись.
func (s *Storage) ResolveReport(ctx context.Context, id int, status string) (int, error) {
	const op = "storage.ResolveReport"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE reports
			  SET status = $1, resolved_at = now()
			  WHERE id = $2 AND status = $3`
	result, err := s.DB.ExecContext(ctx, query, status, id, models.ReportPending)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// CountPendingReports возвращает количество необработанных жалоб.
func (s *Storage) CountPendingReports(ctx context.Context) (int, error) {
	const op = "storage.CountPendingReports"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM reports WHERE status = $1`
	if err := s.DB.QueryRowContext(ctx, query, models.ReportPending).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
