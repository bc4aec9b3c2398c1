// Package models содержит доменные модели сервиса: пользователей,
// посты, комментарии и жалобы. Структуры используются в бизнес‑логике
// и при работе с хранилищем.
package models

import "time"

// Роли пользователей.
const (
	RoleUser  = "user"
	RoleVIP   = "vip"
	RoleAdmin = "admin"
)

// Статусы пользователей.
const (
	StatusActive = "active"
	StatusBanned = "banned"
)

// User представляет зарегистрированного пользователя сервиса.
type User struct {
	UID          string     `json:"uid"`                     // Уникальный идентификатор пользователя
	NaverID      string     `json:"naver_id,omitempty"`      // Идентификатор субъекта у внешнего провайдера (пусто для тестовых аккаунтов)
	Username     string     `json:"username"`                // Имя для входа (псевдоним), уникальное
	DisplayName  string     `json:"display_name,omitempty"`  // Отображаемое имя; пустое значение означает, что показывается Username
	Email        string     `json:"email,omitempty"`         // Электронная почта
	PasswordHash string     `json:"-"`                       // Bcrypt-хэш пароля; заполнен только у учетных записей с парольным входом
	AvatarURL    string     `json:"avatar_url,omitempty"`    // Ссылка на аватар из профиля провайдера
	Gender       string     `json:"gender,omitempty"`        // Пол из профиля провайдера: M, F или U; записывается один раз при создании
	Role         string     `json:"role"`                    // Роль пользователя: user, vip или admin
	Status       string     `json:"status"`                  // Статус: active или banned
	ExamPassed   bool       `json:"exam_passed"`             // Признак сдачи входного экзамена
	CreatedAt    time.Time  `json:"created_at"`              // Дата создания записи
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"` // Дата последнего входа
}

// Banned сообщает, заблокирован ли пользователь.
func (u *User) Banned() bool {
	return u.Status == StatusBanned
}

// Name возвращает имя, которое видят другие пользователи:
// отображаемое имя, если задано, иначе псевдоним входа.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
