// Package httpapi serves the menu over HTTP.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/restaurant/services/menu/internal/entity"
	"github.com/restaurant/services/menu/internal/events"
	"github.com/restaurant/services/menu/internal/metrics"
	"go.uber.org/zap"
)

// Items is the accessor surface the handlers use.
type Items interface {
	GetAllItems(ctx context.Context) ([]entity.MenuItem, error)
	AddItem(ctx context.Context, item entity.MenuItem) (bool, error)
	UpdateItem(ctx context.Context, item entity.MenuItem) (bool, error)
	DeleteItemByID(ctx context.Context, id int) (bool, error)
}

// Pinger checks the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the handlers' collaborators.
type Server struct {
	items     Items
	store     Pinger
	publisher events.EventPublisher
	metrics   *metrics.Metrics
	log       *zap.Logger
	timeout   time.Duration
}

// NewServer creates the HTTP API. metrics may be nil.
func NewServer(items Items, store Pinger, publisher events.EventPublisher, m *metrics.Metrics, log *zap.Logger, timeout time.Duration) *Server {
	return &Server{
		items:     items,
		store:     store,
		publisher: publisher,
		metrics:   m,
		log:       log,
		timeout:   timeout,
	}
}

// Router builds the gin engine with every route and middleware installed.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), corsMiddleware(), requestID(), requestLogger(s.log))
	if s.metrics != nil {
		r.Use(s.metrics.Middleware())
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	r.GET("/healthz", s.healthz)

	api := r.Group("/api/menuitems")
	{
		api.GET("", s.listItems)
		api.POST("", bulkNotSupported("inserts"))
		api.PUT("", bulkNotSupported("updates"))
		api.DELETE("", bulkNotSupported("deletes"))

		api.GET("/:id", s.getItem)
		api.POST("/:id", s.addItem)
		api.PUT("/:id", s.updateItem)
		api.DELETE("/:id", s.deleteItem)
	}

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, errResourceNotFound)
	})

	return r
}

func (s *Server) healthz(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		s.log.Error("Store health check failed", zap.Error(err))
		c.String(http.StatusServiceUnavailable, "unhealthy: store connection failed")
		return
	}

	if !s.publisher.IsHealthy() {
		s.log.Error("RabbitMQ health check failed")
		c.String(http.StatusServiceUnavailable, "unhealthy: rabbitmq connection failed")
		return
	}

	c.String(http.StatusOK, "healthy")
}
