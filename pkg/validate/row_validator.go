package validate

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/BhushanVnit/billgenerator/internal/domain"
	"github.com/BhushanVnit/billgenerator/internal/ports"
)

// Проверка, что RowValidator удовлетворяет интерфейсу RowValidator.
var _ ports.RowValidator = (*RowValidator)(nil)

// ErrInvalidRow — базовая (sentinel error) ошибка валидации строки.
var ErrInvalidRow = errors.New("row validation failed")

// Имена колонок входного файла. Сопоставление идёт по имени из строки заголовка,
// а не по позиции.
const (
	ColOrderID   = "Order ID"
	ColCustomer  = "Customer"
	ColOrderDate = "Order Date"
	ColItemName  = "Item Name"
	ColQuantity  = "Quantity"
	ColUnitPrice = "Unit Price"
)

// RowValidator — сборка заказа из сырой строки файла с приведением числовых полей.
// Quantity — целое, Unit Price — число с плавающей точкой; пустое или нечисловое
// значение любого из них бракует строку целиком (без подстановки нулей).
// Нижней границы нет: отрицательные значения проходят, как и в остальных проверках
// строки. Строковые поля берутся как есть, включая пустые.
type RowValidator struct{}

// NewRowValidator — конструктор RowValidator.
func NewRowValidator() *RowValidator { return &RowValidator{} }

// ValidateRow — валидация одной строки; при любой проблеме возвращает
// ErrInvalidRow с обёрнутой причиной.
func (v *RowValidator) ValidateRow(_ context.Context, row map[string]string) (*domain.Order, error) {
	if row == nil {
		return nil, fmt.Errorf("%w: строка не может быть nil", ErrInvalidRow)
	}

	quantity, err := parseQuantity(row[ColQuantity])
	if err != nil {
		return nil, err
	}
	unitPrice, err := parseUnitPrice(row[ColUnitPrice])
	if err != nil {
		return nil, err
	}

	return &domain.Order{
		OrderID:   row[ColOrderID],
		Customer:  row[ColCustomer],
		Date:      row[ColOrderDate],
		Product:   row[ColItemName],
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}, nil
}

// ValidateOrder — проверка заказа, пришедшего уже типизированным (JSON из брокера).
// Числовые поля гарантированы декодером; диапазон намеренно не ограничиваем.
func (v *RowValidator) ValidateOrder(_ context.Context, order *domain.Order) error {
	if order == nil {
		return fmt.Errorf("%w: заказ не может быть nil", ErrInvalidRow)
	}
	return nil
}

func parseQuantity(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: %s отсутствует или пуст", ErrInvalidRow, ColQuantity)
	}
	q, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s не является целым числом (%q)", ErrInvalidRow, ColQuantity, raw)
	}
	return q, nil
}

func parseUnitPrice(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: %s отсутствует или пуст", ErrInvalidRow, ColUnitPrice)
	}
	p, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s не является числом (%q)", ErrInvalidRow, ColUnitPrice, raw)
	}
	return p, nil
}
