package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/BhushanVnit/billgenerator/internal/domain"
	"github.com/BhushanVnit/billgenerator/internal/ingest"
	"github.com/BhushanVnit/billgenerator/pkg/logger"
	"github.com/BhushanVnit/billgenerator/pkg/validate"
)

// jsonlSink — репозиторий поверх io.Writer: Save печатает заказ JSON-строкой.
// Позволяет прогнать CSV через обычный конвейер без базы данных.
type jsonlSink struct {
	enc *json.Encoder
}

func (s *jsonlSink) Save(_ context.Context, order *domain.Order) (string, error) {
	order.ID = uuid.NewString()
	if err := s.enc.Encode(order); err != nil {
		return "", err
	}
	return order.ID, nil
}

func (s *jsonlSink) GetByID(context.Context, string) (*domain.Order, error) { return nil, nil }
func (s *jsonlSink) ListAll(context.Context) ([]*domain.Order, error)       { return nil, nil }
func (s *jsonlSink) LastN(context.Context, int) ([]*domain.Order, error)    { return nil, nil }

// CLI-приложение: валидация CSV с заказами и конвертация в JSON lines.
func main() {
	inputPath := flag.String("in", "", "path to input .csv. If empty, reads from stdin.")
	flag.Parse()

	ctx := context.Background()

	logg, cleanup, err := logger.NewZapLogger(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = cleanup() }()

	var in io.Reader = os.Stdin
	if *inputPath != "" {
		f, err := os.Open(*inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open input: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	sink := &jsonlSink{enc: json.NewEncoder(os.Stdout)}
	pipeline := ingest.NewPipeline(sink, validate.NewRowValidator(), logg)

	report, err := pipeline.Run(ctx, in)
	for _, rej := range report.Rejections {
		fmt.Fprintf(os.Stderr, "line %d: %s\n", rej.Line, rej.Reason)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ingest: %v (accepted=%d rejected=%d)\n", err, report.Accepted, report.Rejected)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "ingest ok (accepted=%d rejected=%d)\n", report.Accepted, report.Rejected)
}
