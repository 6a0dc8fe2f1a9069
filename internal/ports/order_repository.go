package ports

import (
	"context"

	"github.com/BhushanVnit/billgenerator/internal/domain"
)

// OrderRepository — долговременное хранилище заказов.
// Save присваивает заказу идентификатор хранилища и возвращает его;
// запись должна быть долговременной до возврата из Save.
// Уникальность order_id не требуется: повторная загрузка файла даёт дубликаты.
type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	LastN(ctx context.Context, n int) ([]*domain.Order, error)
}
