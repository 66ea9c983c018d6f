package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/restaurant/services/menu/internal/entity"
	"github.com/restaurant/services/menu/internal/events"
	"go.uber.org/zap"
)

const publishTimeout = 10 * time.Second

var idPattern = regexp.MustCompile(`^[1-9][0-9]{2}$`)

// requestContext bounds the request by the store timeout and tags it with
// the request id.
func (s *Server) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	ctx := events.WithCorrelationID(c.Request.Context(), c.GetString(requestIDKey))
	return context.WithTimeout(ctx, s.timeout)
}

// pathID parses :id. Anything outside 100..999 is an unknown resource.
func pathID(c *gin.Context) (int, bool) {
	raw := c.Param("id")
	if !idPattern.MatchString(raw) {
		fail(c, http.StatusNotFound, errResourceNotFound)
		return 0, false
	}
	id, _ := strconv.Atoi(raw)
	return id, true
}

// bodyItem decodes and validates the request body against the URL id.
func bodyItem(c *gin.Context, id int) (entity.MenuItem, bool) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		fail(c, http.StatusBadRequest, errMalformedBody)
		return entity.MenuItem{}, false
	}

	item, err := entity.FromFields(entity.FieldsFromMap(raw))
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return entity.MenuItem{}, false
	}

	if item.ID() != id {
		fail(c, http.StatusBadRequest, fmt.Sprintf("id %d in body does not match id %d in URL", item.ID(), id))
		return entity.MenuItem{}, false
	}
	return item, true
}

func (s *Server) storageFailure(c *gin.Context, err error) {
	s.log.Error("Storage operation failed",
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.Error(err),
	)
	fail(c, http.StatusInternalServerError, errInternal)
}

func notExists(c *gin.Context, id int) {
	fail(c, http.StatusNotFound, fmt.Sprintf("item %d does not exist", id))
}

func bulkNotSupported(what string) gin.HandlerFunc {
	msg := fmt.Sprintf("Bulk %s not supported", what)
	return func(c *gin.Context) {
		fail(c, http.StatusMethodNotAllowed, msg)
	}
}

// GET /api/menuitems
func (s *Server) listItems(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	items, err := s.items.GetAllItems(ctx)
	if err != nil {
		s.storageFailure(c, err)
		return
	}
	respond(c, http.StatusOK, items)
}

// GET /api/menuitems/:id
// Items are only read as a whole list; the id is still checked so unknown
// paths keep answering 404.
func (s *Server) getItem(c *gin.Context) {
	if _, ok := pathID(c); !ok {
		return
	}
	fail(c, http.StatusMethodNotAllowed, "Single GETs not supported")
}

// POST /api/menuitems/:id
func (s *Server) addItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, ok := bodyItem(c, id)
	if !ok {
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	added, err := s.items.AddItem(ctx, item)
	if err != nil {
		s.storageFailure(c, err)
		return
	}
	if !added {
		fail(c, http.StatusConflict, fmt.Sprintf("item %d already exists", id))
		return
	}

	s.publish(c, "added", func(ctx context.Context) error {
		return s.publisher.PublishItemAdded(ctx, item)
	})
	respond(c, http.StatusCreated, item)
}

// PUT /api/menuitems/:id
func (s *Server) updateItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, ok := bodyItem(c, id)
	if !ok {
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	updated, err := s.items.UpdateItem(ctx, item)
	if err != nil {
		s.storageFailure(c, err)
		return
	}
	if !updated {
		notExists(c, id)
		return
	}

	s.publish(c, "updated", func(ctx context.Context) error {
		return s.publisher.PublishItemUpdated(ctx, item)
	})
	respond(c, http.StatusOK, item)
}

// DELETE /api/menuitems/:id
func (s *Server) deleteItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	deleted, err := s.items.DeleteItemByID(ctx, id)
	if err != nil {
		s.storageFailure(c, err)
		return
	}
	if !deleted {
		notExists(c, id)
		return
	}

	s.publish(c, "deleted", func(ctx context.Context) error {
		return s.publisher.PublishItemDeleted(ctx, id)
	})
	respond(c, http.StatusOK, id)
}

// publish sends an event in the background. Failures are logged; the
// response has already been decided.
func (s *Server) publish(c *gin.Context, change string, send func(context.Context) error) {
	reqID := c.GetString(requestIDKey)
	go func() {
		ctx, cancel := context.WithTimeout(events.WithCorrelationID(context.Background(), reqID), publishTimeout)
		defer cancel()

		if err := send(ctx); err != nil {
			s.log.Error("Failed to publish menu item event",
				zap.String("change", change),
				zap.String("request_id", reqID),
				zap.Error(err),
			)
		}
	}()
}
