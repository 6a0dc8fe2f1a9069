package rest

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/BhushanVnit/billgenerator/internal/domain"
	"github.com/BhushanVnit/billgenerator/internal/ingest"
	"github.com/BhushanVnit/billgenerator/internal/ports"
	"github.com/BhushanVnit/billgenerator/pkg/httpx"
)

// OrderService — то, что нужно HTTP-слою от бизнес-логики.
// Узкий локальный интерфейс, чтобы хэндлеры тестировались без реального сервиса.
type OrderService interface {
	IngestStream(ctx context.Context, r io.Reader) (ingest.Report, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	LastOrders(ctx context.Context, n int) ([]*domain.Order, error)
	RenderInvoice(ctx context.Context, id string) (*domain.Order, []byte, error)
}

type Handler struct {
	service        OrderService
	log            ports.Logger
	handlerTimeout time.Duration

	uploadDir      string
	uploadMaxBytes int64
}

func NewHandler(service OrderService, log ports.Logger, handlerTimeout time.Duration) *Handler {
	return &Handler{service: service, log: log, handlerTimeout: handlerTimeout}
}

// SetUploadLimits — каталог для временных файлов и лимит размера multipart-запроса.
func (h *Handler) SetUploadLimits(dir string, maxBytes int64) {
	h.uploadDir = dir
	h.uploadMaxBytes = maxBytes
}

// NewRouter — маршруты и middleware. otelServiceName != "" включает otelgin.
func NewRouter(h *Handler, staticDir, otelServiceName string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	r.GET("/ping", func(c *gin.Context) { c.String(200, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/upload", h.uploadCSV)
	r.GET("/orders", h.listOrders)
	r.GET("/order/:id", h.getOrderByID)
	r.GET("/invoice/:id", h.downloadInvoice)

	if staticDir != "" {
		r.Static("/static", staticDir)
		r.StaticFile("/", filepath.Join(staticDir, "index.html"))
	}

	return r
}

// requestContext — контекст запроса с бюджетом времени на обработку.
func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	ctx := c.Request.Context()
	if h.handlerTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, h.handlerTimeout)
}
