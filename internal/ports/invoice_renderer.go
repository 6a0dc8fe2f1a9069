package ports

import "github.com/BhushanVnit/billgenerator/internal/domain"

// InvoiceRenderer — построение документа счёта по одному заказу.
// Без кэширования: каждый вызов рендерит документ заново; для одного и того же
// заказа результат байт-в-байт одинаков.
type InvoiceRenderer interface {
	Render(order *domain.Order) ([]byte, error)
}
