package models

import "time"

// Статусы проекта.
const (
	ProjectStatusActive    = "active"
	ProjectStatusPaused    = "paused"
	ProjectStatusCompleted = "completed"
)

// Project представляет проект разработки.
// ClientUID может быть nil, если проект не привязан к заказчику.
type Project struct {
	UID         string    `json:"uid"`                  // Уникальный идентификатор проекта
	Name        string    `json:"name"`                 // Название проекта
	Description string    `json:"description"`          // Описание
	Status      string    `json:"status"`               // Статус: active, paused или completed
	ClientUID   *string   `json:"client_uid,omitempty"` // Идентификатор заказчика (опционально)
	CreatedAt   time.Time `json:"created_at"`           // Дата создания записи
}

// DummyProject используется для приёма данных из JSON-запроса на создание проекта.
type DummyProject struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	Status      string  `json:"status" validate:"omitempty,oneof=active paused completed"`
	ClientUID   *string `json:"client_uid,omitempty" validate:"omitempty,uuid"`
}

// DummyProjectUpdate используется для частичного обновления проекта.
// Незаполненные поля остаются без изменений.
type DummyProjectUpdate struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=active paused completed"`
	ClientUID   *string `json:"client_uid,omitempty" validate:"omitempty,uuid"`
}
