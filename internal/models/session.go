package models

// Статусы сессии, которые видит клиент.
const (
	SessionAuthenticated   = "authenticated"
	SessionUnauthenticated = "unauthenticated"
)

// SessionUser данные пользователя внутри сессии.
type SessionUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Session типизированное представление сессии: статус и пользователь.
// Проекция из claims токена, пересобирается на каждый запрос.
type Session struct {
	Status     string       `json:"status"`
	User       *SessionUser `json:"user,omitempty"`
	ExamPassed bool         `json:"exam_passed,omitempty"`
	TokenID    string       `json:"-"`
}

// Unauthenticated возвращает сессию без пользователя.
func Unauthenticated() Session {
	return Session{Status: SessionUnauthenticated}
}
