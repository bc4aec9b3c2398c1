package models

import "time"

// Comment представляет комментарий к посту.
type Comment struct {
	ID         int       `json:"id"`          // Идентификатор, генерируется хранилищем
	PostID     int       `json:"post_id"`     // Пост, к которому относится комментарий
	AuthorUID  string    `json:"author_uid"`  // UID автора
	AuthorName string    `json:"author_name"` // Псевдоним автора на момент публикации
	Content    string    `json:"content"`     // Текст комментария
	CreatedAt  time.Time `json:"created_at"`  // Дата публикации
}
