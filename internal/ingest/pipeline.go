package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BhushanVnit/billgenerator/internal/ports"
	"github.com/BhushanVnit/billgenerator/pkg/metrics"
)

// Rejection — одна забракованная строка: номер строки файла и причина.
type Rejection struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Report — итог одного прогона загрузки.
// Счётчики точные всегда; список причин ограничен maxRejectionDetails.
type Report struct {
	Accepted   int         `json:"accepted"`
	Rejected   int         `json:"rejected"`
	Rejections []Rejection `json:"rejections,omitempty"`
}

// maxRejectionDetails — предел детализации брака в отчёте,
// чтобы отчёт по большому файлу не разрастался.
const maxRejectionDetails = 100

// Pipeline — потоковая загрузка табличного файла:
// строка заголовка задаёт имена колонок, каждая следующая строка
// превращается в map "колонка → значение" и проходит валидацию.
// Валидная строка сохраняется сразу и независимо; брак и ошибки сохранения
// логируются и пропускаются, прогон не прерывают. Прерывает прогон только
// ошибка чтения самого потока.
type Pipeline struct {
	repo      ports.OrderRepository
	validator ports.RowValidator
	log       ports.Logger
}

// NewPipeline — DI-конструктор.
func NewPipeline(repo ports.OrderRepository, validator ports.RowValidator, log ports.Logger) *Pipeline {
	return &Pipeline{repo: repo, validator: validator, log: log}
}

// Run — один прогон: читает поток до конца, возвращает отчёт.
// При ошибке чтения потока возвращает частичный отчёт и ошибку;
// уже сохранённые строки остаются (отката нет).
func (p *Pipeline) Run(ctx context.Context, r io.Reader) (Report, error) {
	var report Report

	reader := csv.NewReader(r)
	// Файлы приходят из электронных таблиц: ширина строк плавает,
	// кавычки не всегда аккуратные.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		// Пустой поток — ноль записей, успешное завершение.
		metrics.IngestRuns.WithLabelValues("ok").Inc()
		return report, nil
	}
	if err != nil {
		metrics.IngestRuns.WithLabelValues("failed").Inc()
		return report, fmt.Errorf("read header: %w", err)
	}
	stripBOM(header)

	line := 1 // заголовок — строка 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			metrics.IngestRuns.WithLabelValues("failed").Inc()
			return report, fmt.Errorf("read stream at line %d: %w", line+1, err)
		}
		line++

		p.processRow(ctx, &report, line, rowMap(header, record))
	}

	metrics.IngestRuns.WithLabelValues("ok").Inc()
	p.log.Infof(ctx, "ingestion run finished accepted=%d rejected=%d", report.Accepted, report.Rejected)
	return report, nil
}

// processRow — независимая единица работы одной строки: валидация + сохранение.
// Любая ошибка гасится здесь и попадает в отчёт, не прерывая прогон.
func (p *Pipeline) processRow(ctx context.Context, report *Report, line int, row map[string]string) {
	order, err := p.validator.ValidateRow(ctx, row)
	if err != nil {
		p.reject(ctx, report, line, err.Error())
		metrics.IngestRowsRejected.WithLabelValues("invalid").Inc()
		return
	}

	id, err := p.repo.Save(ctx, order)
	if err != nil {
		// Ошибка сохранения — брак этой строки, не всего прогона.
		p.log.Errorf(ctx, "save failed line=%d order_id=%s err=%v", line, order.OrderID, err)
		p.reject(ctx, report, line, fmt.Sprintf("save failed: %v", err))
		metrics.IngestRowsRejected.WithLabelValues("save_failed").Inc()
		return
	}

	report.Accepted++
	metrics.IngestRowsAccepted.Inc()
	p.log.Infof(ctx, "row saved line=%d id=%s order_id=%s", line, id, order.OrderID)
}

func (p *Pipeline) reject(ctx context.Context, report *Report, line int, reason string) {
	report.Rejected++
	if len(report.Rejections) < maxRejectionDetails {
		report.Rejections = append(report.Rejections, Rejection{Line: line, Reason: reason})
	}
	p.log.Warnf(ctx, "row rejected line=%d: %s", line, reason)
}

// rowMap — превращает запись в map по именам колонок из заголовка.
// Недостающие значения короткой строки просто отсутствуют в map.
func rowMap(header, record []string) map[string]string {
	row := make(map[string]string, len(header))
	for i, name := range header {
		if i < len(record) {
			row[name] = record[i]
		}
	}
	return row
}

// stripBOM — табличные редакторы часто пишут UTF-8 BOM перед первым заголовком.
func stripBOM(header []string) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
}
