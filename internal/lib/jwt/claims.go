// Package jwt реализует генерацию и парсинг JWT токенов с пользовательскими claim полями.
//
// CustomClaims расширяет стандартные claims JWT, добавляя идентификатор,
// псевдоним, роль пользователя и признак сдачи входного экзамена.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/minwoojang/husband-er/internal/models"
)

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
type CustomClaims struct {
	UserUID              string `json:"uid"`         // Идентификатор пользователя
	Username             string `json:"username"`    // Псевдоним пользователя
	Role                 string `json:"role"`        // Роль пользователя
	ExamPassed           bool   `json:"exam_passed"` // Признак сдачи входного экзамена
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// GenerateToken создает JWT токен из данных пользователя, подписывая его секретным ключом.
//
// Время жизни токена определяется полем tokenTTL. Каждый токен получает
// собственный идентификатор (jti), по которому его можно отозвать при выходе.
func (j *MakerImpl) GenerateToken(user *models.User) (string, error) {
	claims := CustomClaims{
		UserUID:    user.UID,
		Username:   user.Name(),
		Role:       user.Role,
		ExamPassed: user.ExamPassed,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит JWT токен, проверяет его подпись и валидность,
// возвращает CustomClaims с данными, если токен корректен.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
