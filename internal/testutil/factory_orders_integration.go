//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/BhushanVnit/billgenerator/internal/domain"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// Мини-генератор валидного заказа
func MakeOrder(opts ...func(*domain.Order)) domain.Order {
	o := domain.Order{
		OrderID:   "ord-" + UniqSuffix(),
		Customer:  "Customer " + UniqSuffix(),
		Date:      "2024-01-01",
		Product:   "Widget",
		Quantity:  3,
		UnitPrice: 2.5,
	}

	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func WithOrderID(id string) func(*domain.Order) {
	return func(o *domain.Order) { o.OrderID = id }
}

func WithCustomer(cust string) func(*domain.Order) {
	return func(o *domain.Order) { o.Customer = cust }
}

func WithQuantity(q int64) func(*domain.Order) {
	return func(o *domain.Order) { o.Quantity = q }
}

func WithUnitPrice(p float64) func(*domain.Order) {
	return func(o *domain.Order) { o.UnitPrice = p }
}
