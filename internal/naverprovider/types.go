package naverprovider

import "fmt"

// TokenResponse ответ Naver на обмен кода авторизации.
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        string `json:"expires_in"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ProfileResponse ответ Naver на запрос профиля пользователя.
type ProfileResponse struct {
	ResultCode string  `json:"resultcode"`
	Message    string  `json:"message"`
	Response   Profile `json:"response"`
}

// Profile типизированный профиль пользователя у провайдера.
// Gender приходит как "M", "F" или "U" (не указан).
type Profile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Gender       string `json:"gender"`
	ProfileImage string `json:"profile_image"`
}

// Validate проверяет, что внешний документ содержит обязательные поля
// в допустимых значениях, прежде чем профиль попадёт в бизнес-логику.
func (p *Profile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("profile without subject id")
	}
	switch p.Gender {
	case "M", "F", "U", "":
	default:
		return fmt.Errorf("unexpected gender claim %q", p.Gender)
	}
	return nil
}
