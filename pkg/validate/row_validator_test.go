package validate_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/BhushanVnit/billgenerator/pkg/validate"
)

func validRow() map[string]string {
	return map[string]string{
		validate.ColOrderID:   "A1",
		validate.ColCustomer:  "Bob",
		validate.ColOrderDate: "2024-01-01",
		validate.ColItemName:  "Widget",
		validate.ColQuantity:  "3",
		validate.ColUnitPrice: "2.50",
	}
}

func TestRowValidator_ValidRow(t *testing.T) {
	v := validate.NewRowValidator()
	ctx := context.Background()

	order, err := v.ValidateRow(ctx, validRow())
	if err != nil {
		t.Fatalf("expected valid row, got: %v", err)
	}

	if order.OrderID != "A1" || order.Customer != "Bob" || order.Date != "2024-01-01" || order.Product != "Widget" {
		t.Fatalf("wrong string fields: %+v", order)
	}
	if order.Quantity != 3 {
		t.Fatalf("Quantity: want 3, got %d", order.Quantity)
	}
	if order.UnitPrice != 2.5 {
		t.Fatalf("UnitPrice: want 2.5, got %v", order.UnitPrice)
	}
	if got := order.TotalAmount(); got != 7.5 {
		t.Fatalf("TotalAmount: want 7.5, got %v", got)
	}
}

func TestRowValidator_RejectedRows(t *testing.T) {
	v := validate.NewRowValidator()
	ctx := context.Background()

	type testCase struct {
		name    string
		makeRow func() map[string]string
		msg     string
	}

	cases := []testCase{
		{
			name:    "nil row",
			makeRow: func() map[string]string { return nil },
			msg:     "строка не может быть nil",
		},
		{
			name: "non-numeric quantity",
			makeRow: func() map[string]string {
				r := validRow()
				r[validate.ColQuantity] = "abc"
				return r
			},
			msg: "Quantity не является целым числом",
		},
		{
			name: "fractional quantity",
			makeRow: func() map[string]string {
				r := validRow()
				r[validate.ColQuantity] = "2.5"
				return r
			},
			msg: "Quantity не является целым числом",
		},
		{
			name: "empty quantity",
			makeRow: func() map[string]string {
				r := validRow()
				r[validate.ColQuantity] = "   "
				return r
			},
			msg: "Quantity отсутствует или пуст",
		},
		{
			name: "missing quantity column",
			makeRow: func() map[string]string {
				r := validRow()
				delete(r, validate.ColQuantity)
				return r
			},
			msg: "Quantity отсутствует или пуст",
		},
		{
			name: "non-numeric unit price",
			makeRow: func() map[string]string {
				r := validRow()
				r[validate.ColUnitPrice] = "free"
				return r
			},
			msg: "Unit Price не является числом",
		},
		{
			name: "empty unit price",
			makeRow: func() map[string]string {
				r := validRow()
				r[validate.ColUnitPrice] = ""
				return r
			},
			msg: "Unit Price отсутствует или пуст",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.ValidateRow(ctx, tc.makeRow())
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, validate.ErrInvalidRow) {
				t.Fatalf("want ErrInvalidRow, got: %v", err)
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Fatalf("want message %q, got: %v", tc.msg, err)
			}
		})
	}
}

// Нижней границы у числовых полей нет: отрицательные значения проходят.
func TestRowValidator_NegativeValuesAccepted(t *testing.T) {
	v := validate.NewRowValidator()

	r := validRow()
	r[validate.ColQuantity] = "-2"
	r[validate.ColUnitPrice] = "-10.5"

	order, err := v.ValidateRow(context.Background(), r)
	if err != nil {
		t.Fatalf("negative values must pass: %v", err)
	}
	if order.Quantity != -2 || order.UnitPrice != -10.5 {
		t.Fatalf("wrong parsed values: %+v", order)
	}
}

// Пустые строковые поля не бракуют строку — проверяются только числовые.
func TestRowValidator_EmptyStringFieldsAccepted(t *testing.T) {
	v := validate.NewRowValidator()

	r := validRow()
	r[validate.ColOrderID] = ""
	r[validate.ColCustomer] = ""

	if _, err := v.ValidateRow(context.Background(), r); err != nil {
		t.Fatalf("empty string fields must pass: %v", err)
	}
}

func TestRowValidator_ValidateOrder(t *testing.T) {
	v := validate.NewRowValidator()
	ctx := context.Background()

	if err := v.ValidateOrder(ctx, nil); !errors.Is(err, validate.ErrInvalidRow) {
		t.Fatalf("nil order: want ErrInvalidRow, got %v", err)
	}

	order, err := v.ValidateRow(ctx, validRow())
	if err != nil {
		t.Fatalf("valid row: %v", err)
	}
	if err := v.ValidateOrder(ctx, order); err != nil {
		t.Fatalf("valid order: %v", err)
	}
}
