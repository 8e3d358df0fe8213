package models

// Значения пагинации по умолчанию.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// PaginatedResult представляет одну страницу выборки.
//
// Инвариант: len(Items) == min(PageSize, max(0, TotalCount-(Page-1)*PageSize)),
// TotalCount одинаков для всех страниц одной выборки.
type PaginatedResult[T any] struct {
	Items      []T   `json:"items"`       // Элементы страницы в стабильном порядке вставки
	Page       int   `json:"page"`        // Номер страницы, начиная с 1
	PageSize   int   `json:"page_size"`   // Размер страницы
	TotalCount int64 `json:"total_count"` // Общее количество записей во всей выборке
}
