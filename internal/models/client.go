package models

import "time"

// Client представляет заказчика, для которого ведутся проекты.
type Client struct {
	UID       string    `json:"uid"`        // Уникальный идентификатор клиента
	Name      string    `json:"name"`       // Название компании или имя клиента
	Email     string    `json:"email"`      // Контактная почта
	Phone     string    `json:"phone"`      // Контактный телефон
	Notes     string    `json:"notes"`      // Произвольные заметки
	CreatedAt time.Time `json:"created_at"` // Дата создания записи
}

// DummyClient используется для приёма данных из JSON-запроса на создание клиента.
type DummyClient struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,max=30"`
	Notes string `json:"notes" validate:"omitempty,max=1000"`
}

// DummyClientUpdate используется для частичного обновления клиента.
// Незаполненные поля остаются без изменений.
type DummyClientUpdate struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}
