// Package models содержит доменные структуры системы управления процессом разработки,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Роли пользователей системы.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User представляет зарегистрированного пользователя системы.
//
// PasswordHash хранится только внутри сервиса и никогда не попадает в ответы —
// наружу отдается проекция UserInfo.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Username     string    // Имя пользователя (уникальное, используется для входа)
	Email        string    // Электронная почта
	PasswordHash string    // Хэш пароля пользователя
	Role         string    // Роль пользователя, admin или member
	CreatedAt    time.Time // Дата создания записи
}

// UserInfo проекция пользователя для ответов API, без хэша пароля.
type UserInfo struct {
	UID       string    `json:"uid"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Info возвращает DTO-проекцию пользователя.
func (u *User) Info() *UserInfo {
	return &UserInfo{
		UID:       u.UID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// DummyUser используется для приёма данных из JSON-запроса на создание пользователя.
// Пароль приходит открытым текстом, хэшируется сервисом и сразу отбрасывается.
type DummyUser struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin member"`
}

// DummyUserUpdate используется для частичного обновления пользователя.
// Незаполненные поля остаются без изменений; username не изменяется.
type DummyUserUpdate struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=admin member"`
}
