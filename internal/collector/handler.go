package collector

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dailydotdev/analytics-go/adapters"
)

// Stats counts what the collector has accepted since start.
type Stats struct {
	Batches  int64 `json:"batches"`
	Events   int64 `json:"events"`
	Rejected int64 `json:"rejected"`
}

// Handler is a minimal analytics collector. It accepts the batches the
// client library posts to /e, logs them and keeps running counts.
type Handler struct {
	router        *gin.Engine
	log           *zap.Logger
	allowedOrigin string

	batches  atomic.Int64
	events   atomic.Int64
	rejected atomic.Int64
}

func NewHandler(allowedOrigin string, log *zap.Logger) *Handler {
	h := &Handler{
		router:        gin.New(),
		log:           log,
		allowedOrigin: allowedOrigin,
	}

	h.router.Use(gin.Recovery(), h.requestLogger(), h.cors())
	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.GET("/stats", h.stats)
	h.router.POST("/e", h.collect)
}

// Stats returns the current counters.
func (h *Handler) Stats() Stats {
	return Stats{
		Batches:  h.batches.Load(),
		Events:   h.events.Load(),
		Rejected: h.rejected.Load(),
	}
}

func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func (h *Handler) stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.Stats())
}

// collect handles POST /e. Beacons arrive with a text/plain content type,
// so the body is decoded as JSON whatever the header says.
func (h *Handler) collect(c *gin.Context) {
	var payload adapters.EventsPayload

	if err := c.ShouldBindJSON(&payload); err != nil {
		h.rejected.Add(1)
		h.log.Warn("Invalid events payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": err.Error(),
		})
		return
	}

	// An event carrying trigger_error simulates a collector outage so
	// client retries can be exercised end to end.
	for _, event := range payload.Events {
		if trigger, _ := event["trigger_error"].(bool); trigger {
			h.log.Warn("Simulated server error", zap.String("event_name", event.Name()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "simulated_error"})
			return
		}
	}

	h.batches.Add(1)
	h.events.Add(int64(len(payload.Events)))

	for _, event := range payload.Events {
		h.log.Info("Event received",
			zap.String("event_name", event.Name()),
			zap.String("visit_id", event.VisitID()),
			zap.String("device_id", event.DeviceID()),
			zap.Any("event", event))
	}

	c.Status(http.StatusNoContent)
}

// cors allows credentialed requests from the configured origin. Beacons
// and cookie-carrying posts both need it.
func (h *Handler) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Writer.Header()
		header.Set("Access-Control-Allow-Origin", h.allowedOrigin)
		header.Set("Access-Control-Allow-Credentials", "true")
		header.Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		header.Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		header.Add("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.log.Debug("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
