package ports

import (
	"context"

	"github.com/BhushanVnit/billgenerator/internal/domain"
)

// RowValidator — валидация одной строки табличного файла и готовых заказов.
type RowValidator interface {
	// ValidateRow — собирает заказ из строки "колонка → значение".
	// Ошибка оборачивает validate.ErrInvalidRow; такая строка не сохраняется.
	ValidateRow(ctx context.Context, row map[string]string) (*domain.Order, error)

	// ValidateOrder — те же числовые правила для заказа, пришедшего как JSON.
	ValidateOrder(ctx context.Context, order *domain.Order) error
}
