// Package jwt реализует генерацию и парсинг JWT токенов с пользовательскими claim полями.
//
// Maker определяет интерфейс для создания и проверки JWT токенов с username и role.
// MakerImpl — конкретная реализация с использованием симметричного ключа HS256,
// issuer, audience и срока жизни токена.
package jwt

import (
	"errors"
	"time"
)

// ErrInvalidToken возвращается при любой ошибке проверки токена.
//
// Ошибка намеренно не уточняет причину (подпись, issuer, audience или срок),
// чтобы не давать внешнему вызывающему оракул для перебора.
var ErrInvalidToken = errors.New("invalid token")

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken создает токен с указанием username, роли и uid пользователя.
	GenerateToken(username, role, useruid string) (string, error)
	// ParseToken возвращает *CustomClaims, если токен прошел все проверки.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа,
// issuer, audience и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string
	issuer    string
	audience  string
	tokenTTL  time.Duration
}

// NewJWTMaker создаёт новый экземпляр MakerImpl.
//
// Длина секретного ключа валидируется на старте процесса (config.MustLoad),
// а не при каждом вызове.
func NewJWTMaker(secretKey, issuer, audience string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		issuer:    issuer,
		audience:  audience,
		tokenTTL:  ttl,
	}
}
