package models

import "time"

// Статусы жалобы.
const (
	ReportPending   = "pending"
	ReportResolved  = "resolved"
	ReportDismissed = "dismissed"
)

// Типы цели жалобы.
const (
	TargetPost    = "post"
	TargetComment = "comment"
)

// Report представляет жалобу на пост или комментарий.
type Report struct {
	ID          int        `json:"id"`                    // Идентификатор, генерируется хранилищем
	ReporterUID string     `json:"reporter_uid"`          // UID пользователя, подавшего жалобу
	TargetType  string     `json:"target_type"`           // Тип цели: post или comment
	TargetID    int        `json:"target_id"`             // Идентификатор цели
	Reason      string     `json:"reason"`                // Причина жалобы
	Status      string     `json:"status"`                // Статус: pending, resolved, dismissed
	CreatedAt   time.Time  `json:"created_at"`            // Дата подачи
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"` // Дата обработки администратором
}

// ReportEvent сообщение о новой жалобе, публикуемое в очередь модерации.
type ReportEvent struct {
	ReportID    int       `json:"report_id"`
	ReporterUID string    `json:"reporter_uid"`
	TargetType  string    `json:"target_type"`
	TargetID    int       `json:"target_id"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"created_at"`
}
