package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"workbench/internal/faults"
	"workbench/internal/logging"
	"workbench/internal/notify"
	"workbench/internal/workbench"
)

func prepareStream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()
}

// sendEvent writes payload as one unnamed SSE event.
func sendEvent(c *gin.Context, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	c.SSEvent("", string(data))
	c.Writer.Flush()
	return nil
}

func (h *handlers) streamStatus(c *gin.Context) {
	ctx := c.Request.Context()
	log := logging.WithContext(ctx, h.logger)
	log.Info("status stream connected")
	prepareStream(c)

	err := h.station.WatchStatus(ctx, func(snap workbench.Snapshot) error {
		return sendEvent(c, snap)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Debug("status stream ended", logging.Error(err))
	}
	log.Info("status stream closed")
}

func (h *handlers) streamNotifications(c *gin.Context) {
	ctx := c.Request.Context()
	sub := h.bus.Subscribe()
	defer sub.Close()
	log := logging.WithContext(ctx, h.logger)
	log.Info("notification stream connected", logging.Int("subscribers", h.bus.Subscribers()))
	prepareStream(c)

	for {
		msg, err := sub.Next(ctx)
		if err != nil {
			log.Info("notification stream closed", logging.Int("undelivered", sub.Pending()))
			return
		}
		if err := sendEvent(c, msg.View()); err != nil {
			log.Debug("notification stream write failed", logging.Error(err))
			return
		}
	}
}

func (h *handlers) emitNotification(c *gin.Context) {
	level, err := notify.ParseLevel(c.Query("level"))
	if err != nil {
		abortWithError(c, faults.Wrap(faults.ErrValidation, "api", "notifications", "unknown level", err))
		return
	}
	text := c.Query("message")
	if text == "" {
		abortWithError(c, faults.Wrap(faults.ErrValidation, "api", "notifications", "message is required", nil))
		return
	}
	delivered := h.bus.Emit(notify.NewMessage(level, text))
	c.JSON(http.StatusOK, ok(fmt.Sprintf("Message emitted to %d subscribers", delivered)))
}
