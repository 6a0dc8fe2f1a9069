package invoice

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/BhushanVnit/billgenerator/internal/domain"
	"github.com/BhushanVnit/billgenerator/internal/ports"
	"github.com/jung-kurt/gofpdf"
)

// Проверка, что Renderer удовлетворяет интерфейсу InvoiceRenderer.
var _ ports.InvoiceRenderer = (*Renderer)(nil)

// renderTimestamp — фиксированная дата документа: повторный рендер одного
// и того же заказа обязан давать байт-в-байт одинаковый PDF.
var renderTimestamp = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Renderer — PDF-счёт по одному заказу. Фиксированный макет:
// заголовок с order id, покупатель, дата, раздел "Product Details",
// итоговая сумма quantity*unitPrice — считается при рендере, из БД не читается.
type Renderer struct{}

// NewRenderer — конструктор Renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// Render — собирает документ и возвращает его байты.
func (r *Renderer) Render(order *domain.Order) ([]byte, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	// Документы маленькие; без сжатия потоков содержимое проверяемо как текст.
	pdf.SetCompression(false)
	pdf.SetCreationDate(renderTimestamp)
	pdf.SetModificationDate(renderTimestamp)
	pdf.SetTitle(fmt.Sprintf("Invoice %s", order.OrderID), false)
	pdf.AddPage()

	writeLine(pdf, 18, fmt.Sprintf("Invoice for Order ID: %s", order.OrderID))
	pdf.Ln(4)
	writeLine(pdf, 12, fmt.Sprintf("Customer: %s", order.Customer))
	writeLine(pdf, 12, fmt.Sprintf("Date: %s", order.Date))
	pdf.Ln(4)
	writeLine(pdf, 14, "Product Details")
	writeLine(pdf, 12, fmt.Sprintf("Product: %s", order.Product))
	writeLine(pdf, 12, fmt.Sprintf("Quantity: %d", order.Quantity))
	writeLine(pdf, 12, fmt.Sprintf("Unit Price: %s", formatAmount(order.UnitPrice)))
	pdf.Ln(4)
	writeLine(pdf, 16, fmt.Sprintf("Total Amount: %s", formatAmount(order.TotalAmount())))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return buf.Bytes(), nil
}

// writeLine — одна текстовая строка на всю ширину; высота от размера шрифта.
func writeLine(pdf *gofpdf.Fpdf, size float64, text string) {
	pdf.SetFont("Helvetica", "", size)
	pdf.CellFormat(0, size*0.6, text, "", 1, "L", false, 0, "")
}

// formatAmount — компактная запись числа без хвостовых нулей ("2.5", а не "2.50").
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
