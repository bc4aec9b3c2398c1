package models

import "time"

// Категории постов.
const (
	CategoryFree     = "free"
	CategoryUrgent   = "urgent"
	CategoryQuestion = "question"
	CategorySecret   = "secret"
)

// ValidCategory проверяет, что категория входит в известный набор.
func ValidCategory(c string) bool {
	switch c {
	case CategoryFree, CategoryUrgent, CategoryQuestion, CategorySecret:
		return true
	}
	return false
}

// Post представляет пост форума.
type Post struct {
	ID         int       `json:"id"`          // Идентификатор, генерируется хранилищем
	AuthorUID  string    `json:"author_uid"`  // UID автора
	AuthorName string    `json:"author_name"` // Псевдоним автора на момент публикации
	Title      string    `json:"title"`       // Заголовок
	Content    string    `json:"content"`     // Текст поста
	Category   string    `json:"category"`    // Категория: free, urgent, question, secret
	Views      int       `json:"views"`       // Счётчик просмотров
	Likes      int       `json:"likes"`       // Счётчик лайков
	CreatedAt  time.Time `json:"created_at"`  // Дата публикации
	UpdatedAt  time.Time `json:"updated_at"`  // Дата последнего изменения
}

// DummyPost используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Post.
type DummyPost struct {
	Title    string `json:"title" validate:"required,min=2,max=200"`
	Content  string `json:"content" validate:"required,min=2,max=20000"`
	Category string `json:"category" validate:"required,oneof=free urgent question secret"`
}
