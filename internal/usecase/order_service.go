package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/BhushanVnit/billgenerator/internal/domain"
	"github.com/BhushanVnit/billgenerator/internal/ingest"
	"github.com/BhushanVnit/billgenerator/internal/ports"
	"github.com/BhushanVnit/billgenerator/pkg/metrics"
	"github.com/BhushanVnit/billgenerator/pkg/validate"
)

// ErrOrderNotFound — счёт запрошен по идентификатору без записи.
var ErrOrderNotFound = errors.New("order not found")

// OrderService — прикладная логика работы с заказами (без знаний о транспорте).
type OrderService struct {
	repo     ports.OrderRepository // прямой доступ к хранилищу
	cache    ports.OrderCache      // прямой доступ к кэшу
	log      ports.Logger          // прямой доступ к логгеру
	valid    ports.RowValidator    // валидация строк и сообщений
	pipeline *ingest.Pipeline      // потоковая загрузка файлов
	renderer ports.InvoiceRenderer // рендер счетов
}

// NewOrderService — DI-конструктор.
func NewOrderService(
	repo ports.OrderRepository,
	cache ports.OrderCache,
	log ports.Logger,
	valid ports.RowValidator,
	pipeline *ingest.Pipeline,
	renderer ports.InvoiceRenderer,
) *OrderService {
	return &OrderService{
		repo:     repo,
		cache:    cache,
		log:      log,
		valid:    valid,
		pipeline: pipeline,
		renderer: renderer,
	}
}

// IngestStream — один прогон загрузки: поток табличного файла до конца,
// отчёт о принятых/забракованных строках. Ошибка — только при обрыве потока.
func (s *OrderService) IngestStream(ctx context.Context, r io.Reader) (ingest.Report, error) {
	start := time.Now()
	report, err := s.pipeline.Run(ctx, r)
	if err != nil {
		s.log.Errorf(ctx, "ingestion failed after %s: %v", time.Since(start), err)
		return report, err
	}
	s.log.Infof(ctx, "ingestion done accepted=%d rejected=%d took=%s",
		report.Accepted, report.Rejected, time.Since(start))
	return report, nil
}

// GetOrder — получить заказ по идентификатору хранилища: сначала из кэша,
// при промахе — из БД с записью в кэш.
// Возвращает (*Order, nil) или (nil, nil), если записи нет.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if order, found := s.cache.Get(ctx, id); found {
		s.log.Infof(ctx, "cache hit for order=%s", id)
		return order, nil
	}
	s.log.Infof(ctx, "cache miss for order=%s", id)

	start := time.Now()
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.log.Errorf(ctx, "repo.GetByID failed id=%s err=%v", id, err)
		return nil, err
	}

	if order != nil {
		// Кэшируем результат
		if setErr := s.cache.Set(ctx, order); setErr != nil {
			s.log.Warnf(ctx, "cache.Set failed id=%s err=%v", id, setErr)
		}
	}

	s.log.Infof(ctx, "db fetch id=%s took=%s", id, time.Since(start))
	return order, nil
}

// ListOrders — все сохранённые заказы (проксирование в репозиторий).
func (s *OrderService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.ListAll(ctx)
}

// LastOrders — n последних заказов (свежие первыми).
func (s *OrderService) LastOrders(ctx context.Context, n int) ([]*domain.Order, error) {
	return s.repo.LastN(ctx, n)
}

// RenderInvoice — счёт по сохранённому заказу; возвращает и сам заказ
// (HTTP-слою нужен OrderID для имени файла).
// Нет записи — ErrOrderNotFound, документ не строится даже частично.
func (s *OrderService) RenderInvoice(ctx context.Context, id string) (*domain.Order, []byte, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, fmt.Errorf("%w: id=%s", ErrOrderNotFound, id)
	}

	doc, err := s.renderer.Render(order)
	if err != nil {
		s.log.Errorf(ctx, "render failed id=%s err=%v", id, err)
		return nil, nil, fmt.Errorf("render invoice: %w", err)
	}

	metrics.InvoicesRendered.Inc()
	s.log.Infof(ctx, "invoice rendered id=%s order_id=%s bytes=%d", id, order.OrderID, len(doc))
	return order, doc, nil
}

// SaveFromMessage — сохранить заказ, пришедший из Kafka (raw JSON).
// Шаги:
//  1. строгий парсинг JSON (DisallowUnknownFields) —> отлавливаем незадокументированные поля;
//  2. доменная валидация (вернёт validate.ErrInvalidRow при проблемах);
//  3. сохранение в БД;
//  4. положить запись в кэш.
func (s *OrderService) SaveFromMessage(ctx context.Context, raw []byte) error {
	// Строгое декодирование: запрещаем неизвестные поля.
	var order domain.Order
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&order); err != nil {
		s.log.Warnf(ctx, "invalid json err=%v", err)
		return fmt.Errorf("%w: invalid json: %v", validate.ErrInvalidRow, err)
	}

	// Убеждаемся, что после объекта нет лишних данных.
	if err := dec.Decode(new(struct{})); err != io.EOF {
		s.log.Warnf(ctx, "invalid json: trailing data")
		return fmt.Errorf("%w: invalid json: trailing data", validate.ErrInvalidRow)
	}

	// Идентификатор присваивает хранилище, из сообщения не принимаем.
	order.ID = ""

	if err := s.valid.ValidateOrder(ctx, &order); err != nil {
		s.log.Warnf(ctx, "validation failed order_id=%s err=%v", order.OrderID, err)
		return fmt.Errorf("validation failed: %w", err)
	}

	id, err := s.repo.Save(ctx, &order)
	if err != nil {
		s.log.Errorf(ctx, "repo.Save failed order_id=%s err=%v", order.OrderID, err)
		return fmt.Errorf("failed to save order: %w", err)
	}

	// Обновление кэша.
	if err := s.cache.Set(ctx, &order); err != nil {
		s.log.Warnf(ctx, "cache.Set failed id=%s err=%v", id, err)
	}

	s.log.Infof(ctx, "order saved id=%s order_id=%s", id, order.OrderID)
	return nil
}

// WarmUpCache — прогрев кэша последними N заказами из БД.
// Если n <= 0, прогрев не выполняется (но это не ошибка).
func (s *OrderService) WarmUpCache(ctx context.Context, n int) error {
	if n <= 0 {
		s.log.Warnf(ctx, "cache warm-up skipped: n <= 0 (n=%d)", n)
		return nil
	}

	start := time.Now()
	list, err := s.repo.LastN(ctx, n)
	if err != nil {
		s.log.Errorf(ctx, "repo.LastN failed n=%d err=%v", n, err)
		return err
	}
	if warmUpErr := s.cache.WarmUp(ctx, list); warmUpErr != nil {
		s.log.Warnf(ctx, "cache.WarmUp failed err=%v", warmUpErr)
	}
	s.log.Infof(ctx, "cache warmed with %d orders in %s", len(list), time.Since(start))
	return nil
}
