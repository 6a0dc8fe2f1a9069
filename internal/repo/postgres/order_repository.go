package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/BhushanVnit/billgenerator/internal/domain"
	"github.com/BhushanVnit/billgenerator/internal/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Проверка, что OrderRepository удовлетворяет интерфейсу OrderRepository.
var _ ports.OrderRepository = (*OrderRepository)(nil)

// OrderRepository — реализация хранилища заказов на Postgres (pgxpool).
// Одна таблица, суррогатный uuid-ключ; уникальности по order_id нет —
// повторная загрузка файла даёт дубликаты записей.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository - конструктор OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository { return &OrderRepository{pool: pool} }

// Save — сохраняет заказ и возвращает присвоенный идентификатор хранилища.
// Каждая строка пишется независимо, транзакций поверх одной записи нет.
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) (string, error) {
	if order == nil {
		return "", errors.New("order is nil")
	}

	id := uuid.NewString()
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO orders (id, order_id, customer, order_date, product, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, order.OrderID, order.Customer, order.Date, order.Product, order.Quantity, order.UnitPrice,
	); err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}

	order.ID = id
	return id, nil
}

// GetByID — получить заказ по идентификатору хранилища.
// Если записи нет (или id синтаксически не uuid), возвращает (nil, nil).
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	var order domain.Order
	err := r.pool.QueryRow(ctx, `
		SELECT id, order_id, customer, order_date, product, quantity, unit_price
		FROM orders WHERE id = $1
	`, id).Scan(&order.ID, &order.OrderID, &order.Customer, &order.Date,
		&order.Product, &order.Quantity, &order.UnitPrice,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select order: %w", err)
	}
	return &order, nil
}

// ListAll — все сохранённые заказы в порядке создания.
func (r *OrderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, customer, order_date, product, quantity, unit_price
		FROM orders ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// LastN — последние n заказов (для прогрева кэша).
func (r *OrderRepository) LastN(ctx context.Context, n int) ([]*domain.Order, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, customer, order_date, product, quantity, unit_price
		FROM orders ORDER BY created_at DESC, id DESC LIMIT $1
	`, n)
	if err != nil {
		return nil, fmt.Errorf("select last orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

func scanOrders(rows pgx.Rows) ([]*domain.Order, error) {
	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.OrderID, &order.Customer, &order.Date,
			&order.Product, &order.Quantity, &order.UnitPrice,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return orders, nil
}
