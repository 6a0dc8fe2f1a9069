package rest

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/BhushanVnit/billgenerator/internal/domain"
	"github.com/BhushanVnit/billgenerator/internal/usecase"
	"github.com/BhushanVnit/billgenerator/pkg/httpx"
)

// maxListLimit — потолок для query-параметра limit в /orders.
const maxListLimit = 1000

// orderView — заказ в ответе API; totalAmount считается на отдаче.
type orderView struct {
	*domain.Order
	TotalAmount float64 `json:"totalAmount"`
}

func toView(o *domain.Order) orderView {
	return orderView{Order: o, TotalAmount: o.TotalAmount()}
}

func toViews(orders []*domain.Order) []orderView {
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toView(o))
	}
	return views
}

// uploadCSV — приём CSV-файла с заказами (multipart-поле "file").
// Файл сохраняется во временный каталог и удаляется на любом исходе.
func (h *Handler) uploadCSV(c *gin.Context) {
	if h.uploadMaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.uploadMaxBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	tmp, err := os.CreateTemp(h.uploadDir, "upload-*.csv")
	if err != nil {
		h.log.Errorf(c.Request.Context(), "create temp upload file: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	tmpPath := tmp.Name()
	if cerr := tmp.Close(); cerr != nil {
		h.log.Warnf(c.Request.Context(), "close temp upload file: %v", cerr)
	}
	defer func() {
		if rerr := os.Remove(tmpPath); rerr != nil {
			h.log.Warnf(c.Request.Context(), "remove temp upload file %s: %v", tmpPath, rerr)
		}
	}()

	if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		h.log.Errorf(c.Request.Context(), "save upload %s: %v", fileHeader.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		h.log.Errorf(c.Request.Context(), "open temp upload file: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	defer f.Close()

	ctx, cancel := h.requestContext(c)
	defer cancel()

	report, err := h.service.IngestStream(ctx, f)
	if err != nil {
		h.log.Errorf(ctx, "ingest %s failed: %v", fileHeader.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "file uploaded and orders saved",
		"accepted":   report.Accepted,
		"rejected":   report.Rejected,
		"rejections": report.Rejections,
	})
}

// listOrders — все заказы; ?limit=N ограничивает выдачу последними N.
func (h *Handler) listOrders(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var (
		orders []*domain.Order
		err    error
	)
	if limit := httpx.ParseLimit(c, maxListLimit); limit > 0 {
		orders, err = h.service.LastOrders(ctx, limit)
	} else {
		orders, err = h.service.ListOrders(ctx)
	}
	if err != nil {
		h.log.Errorf(ctx, "ListOrders failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, toViews(orders))
}

func (h *Handler) getOrderByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty id"})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	order, err := h.service.GetOrder(ctx, id)
	if err != nil {
		h.log.Errorf(ctx, "GetOrder failed id=%s err=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, toView(order))
}

// downloadInvoice — PDF-счёт по заказу; отдаётся как attachment.
func (h *Handler) downloadInvoice(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty id"})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	order, doc, err := h.service.RenderInvoice(ctx, id)
	switch {
	case errors.Is(err, usecase.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	case err != nil:
		h.log.Errorf(ctx, "RenderInvoice failed id=%s err=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error generating invoice"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "invoice_"+order.OrderID+".pdf"))
	c.Data(http.StatusOK, "application/pdf", doc)
}
