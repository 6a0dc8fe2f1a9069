package ingest_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/BhushanVnit/billgenerator/internal/domain"
	"github.com/BhushanVnit/billgenerator/internal/ingest"
	"github.com/BhushanVnit/billgenerator/internal/ports/mocks"
	"github.com/BhushanVnit/billgenerator/pkg/validate"
	"github.com/golang/mock/gomock"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

const header = "Order ID,Customer,Order Date,Item Name,Quantity,Unit Price\n"

func newPipeline(t *testing.T, repo *mocks.MockOrderRepository) *ingest.Pipeline {
	t.Helper()
	return ingest.NewPipeline(repo, validate.NewRowValidator(), noopLogger{})
}

func TestRun_AcceptsValidRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrderRepository(ctrl)

	var saved []*domain.Order
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o *domain.Order) (string, error) {
			saved = append(saved, o)
			return "id-1", nil
		}).Times(2)

	in := header +
		"A1,Bob,2024-01-01,Widget,3,2.50\n" +
		"A2,Alice,2024-01-02,Gadget,1,10\n"

	report, err := newPipeline(t, repo).Run(context.Background(), strings.NewReader(in))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Accepted != 2 || report.Rejected != 0 {
		t.Fatalf("report: want 2/0, got %d/%d", report.Accepted, report.Rejected)
	}

	// Конкретный сценарий: A1/Bob/Widget, сумма 7.5.
	first := saved[0]
	if first.OrderID != "A1" || first.Customer != "Bob" || first.Date != "2024-01-01" ||
		first.Product != "Widget" || first.Quantity != 3 || first.UnitPrice != 2.5 {
		t.Fatalf("wrong saved order: %+v", first)
	}
	if first.TotalAmount() != 7.5 {
		t.Fatalf("TotalAmount: want 7.5, got %v", first.TotalAmount())
	}
}

func TestRun_RejectsNonNumericQuantity(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrderRepository(ctrl)
	// Save для забракованной строки вызываться не должен.

	in := header + "A1,Bob,2024-01-01,Widget,abc,2.50\n"

	report, err := newPipeline(t, repo).Run(context.Background(), strings.NewReader(in))
	if err != nil {
		t.Fatalf("bad row must not fail the run: %v", err)
	}
	if report.Accepted != 0 || report.Rejected != 1 {
		t.Fatalf("report: want 0/1, got %d/%d", report.Accepted, report.Rejected)
	}
	if len(report.Rejections) != 1 || report.Rejections[0].Line != 2 {
		t.Fatalf("wrong rejection details: %+v", report.Rejections)
	}
}

func TestRun_BadRowDoesNotStopTheRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrderRepository(ctrl)

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return("id-1", nil).Times(2)

	in := header +
		"A1,Bob,2024-01-01,Widget,3,2.50\n" +
		"A2,Eve,2024-01-02,Thing,,1.00\n" + // пустое Quantity
		"A3,Kim,2024-01-03,Stuff,2,5.00\n"

	report, err := newPipeline(t, repo).Run(context.Background(), strings.NewReader(in))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Accepted != 2 || report.Rejected != 1 {
		t.Fatalf("report: want 2/1, got %d/%d", report.Accepted, report.Rejected)
	}
}

func TestRun_HeaderOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrderRepository(ctrl)

	report, err := newPipeline(t, repo).Run(context.Background(), strings.NewReader(header))
	if err != nil {
		t.Fatalf("header-only must succeed: %v", err)
	}
	if report.Accepted != 0 || report.Rejected != 0 {
		t.Fatalf("report: want 0/0, got %d/%d", report.Accepted, report.Rejected)
	}
}

func TestRun_EmptyStream(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrderRepository(ctrl)

	report, err := newPipeline(t, repo).Run(context.Background(), strings.NewReader(""))
	if err != nil {
		t.Fatalf("empty stream must succeed: %v", err)
	}
	if report.Accepted != 0 || report.Rejected != 0 {
		t.Fatalf("report: want 0/0, got %+v", report)
	}
}

// Ошибка сохранения одной строки — брак строки, а не прогона.
func TestRun_SaveFailureIsRowLevel(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrderRepository(ctrl)

	gomock.InOrder(
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return("", errors.New("db down")),
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return("id-2", nil),
	)

	in := header +
		"A1,Bob,2024-01-01,Widget,3,2.50\n" +
		"A2,Alice,2024-01-02,Gadget,1,10\n"

	report, err := newPipeline(t, repo).Run(context.Background(), strings.NewReader(in))
	if err != nil {
		t.Fatalf("save failure must not fail the run: %v", err)
	}
	if report.Accepted != 1 || report.Rejected != 1 {
		t.Fatalf("report: want 1/1, got %d/%d", report.Accepted, report.Rejected)
	}
	if !strings.Contains(report.Rejections[0].Reason, "save failed") {
		t.Fatalf("wrong rejection reason: %+v", report.Rejections)
	}
}

// Ошибка чтения потока прерывает прогон; уже сохранённые строки остаются.
func TestRun_StreamReadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrderRepository(ctrl)

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return("id-1", nil)

	streamErr := errors.New("connection reset")
	in := io.MultiReader(
		strings.NewReader(header+"A1,Bob,2024-01-01,Widget,3,2.50\n"),
		iotest.ErrReader(streamErr),
	)

	report, err := newPipeline(t, repo).Run(context.Background(), in)
	if err == nil {
		t.Fatal("expected stream failure")
	}
	if !errors.Is(err, streamErr) {
		t.Fatalf("want wrapped stream error, got: %v", err)
	}
	if report.Accepted != 1 {
		t.Fatalf("partial report must keep accepted rows: %+v", report)
	}
}

// Короткая строка: недостающие колонки пусты и бракуются числовой проверкой.
func TestRun_ShortRowRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrderRepository(ctrl)

	in := header + "A1,Bob\n"

	report, err := newPipeline(t, repo).Run(context.Background(), strings.NewReader(in))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Rejected != 1 {
		t.Fatalf("short row must be rejected: %+v", report)
	}
}

// BOM перед первым заголовком не ломает сопоставление колонок.
func TestRun_HeaderWithBOM(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrderRepository(ctrl)

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o *domain.Order) (string, error) {
			if o.OrderID != "A1" {
				t.Fatalf("BOM broke header mapping: %+v", o)
			}
			return "id-1", nil
		})

	in := "\uFEFF" + header + "A1,Bob,2024-01-01,Widget,3,2.50\n"

	report, err := newPipeline(t, repo).Run(context.Background(), strings.NewReader(in))
	if err != nil || report.Accepted != 1 {
		t.Fatalf("Run: err=%v report=%+v", err, report)
	}
}
