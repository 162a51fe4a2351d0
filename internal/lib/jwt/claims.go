// Package jwt реализует генерацию и парсинг JWT токенов платформы.
//
// CustomClaims расширяет стандартные claims идентификатором арендатора
// и ролью. Токены выпускает внешний сервис аутентификации платформы;
// здесь они только проверяются middleware биллингового API, а генерация
// нужна тестам и служебным инструментам.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims пользовательские данные, хранящиеся в JWT.
type CustomClaims struct {
	TenantUID            string `json:"tenant_uid"` // Идентификатор школы-арендатора
	Role                 string `json:"role"`       // Роль: admin или school
	jwt.RegisteredClaims        // Стандартные claims (ExpiresAt, IssuedAt и пр.)
}

// Maker описывает интерфейс генерации и парсинга токенов.
type Maker interface {
	GenerateToken(tenantUID, role string) (string, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует Maker на секретном ключе и времени жизни токена.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker создаёт MakerImpl с заданным ключом и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
